// Package engine implements the narrative orchestration pipeline: codex and
// scene generation, intent classification, state progression, and the
// bounded auto-continuation loop.
package engine

// SceneErrorText is the scene text substituted when the model's response
// cannot be parsed. It is user-visible and part of the wire contract.
const SceneErrorText = "Erreur de génération."

// Codex is the story's world bible, generated once at story start and
// read-only thereafter. JSON keys follow the generation wire contract.
type Codex struct {
	Pitch      string   `json:"pitch"`
	Universe   string   `json:"univers"`
	Characters []string `json:"personnages"`
	Places     []string `json:"lieux"`
	Milestones []string `json:"milestones"`
	Theme      string   `json:"theme"`
}

// Consequences is the structured effect record a scene applies to the
// narrative state. Unknown keys from the model are dropped at the JSON
// parse boundary.
type Consequences struct {
	MilestoneProgress bool           `json:"milestone_progress"`
	Flags             map[string]any `json:"flags,omitempty"`
	InventoryAdd      []string       `json:"inventory_add,omitempty"`
	InventoryRemove   []string       `json:"inventory_remove,omitempty"`
}

// Scene is a single generated narrative beat. It is not persisted on its
// own; its text is folded into the state history and the vector memory
// right after generation.
type Scene struct {
	SceneText    string       `json:"scene_text"`
	Choices      []string     `json:"choices"`
	Consequences Consequences `json:"consequences"`
}

// HistoryEntry is one narrative turn in the state history: the scene text
// shown to the player and the consequences applied on that turn.
type HistoryEntry struct {
	SceneText    string       `json:"scene_text"`
	Consequences Consequences `json:"consequences"`
}

// State is the mutable progression record of a story. It is owned by the
// orchestration session and passed by value through the pipeline.
type State struct {
	MilestoneIndex int            `json:"milestone_index"`
	Flags          map[string]any `json:"flags"`
	Inventory      []string       `json:"inventory"`
	History        []HistoryEntry `json:"history"`

	// Universe is copied from the codex at creation and never mutated.
	Universe string `json:"universe"`
}
