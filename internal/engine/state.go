package engine

// NewState creates the initial state for a story: no progression, empty
// flags, inventory, and history, with the universe description copied from
// the codex.
func NewState(codex Codex) State {
	return State{
		MilestoneIndex: 0,
		Flags:          map[string]any{},
		Inventory:      []string{},
		History:        []HistoryEntry{},
		Universe:       codex.Universe,
	}
}

// Apply returns a new state with the consequences applied, in order:
// milestone progress increments the index by exactly one; flags merge with
// last-write-wins per key; added items are appended without deduplication;
// each removal drops at most one matching occurrence and is a no-op when
// the item is absent. The receiver is never modified and Apply never fails.
//
// History is not touched here: the orchestrator appends exactly one
// HistoryEntry per narrative turn once the scene text is known.
func (s State) Apply(c Consequences) State {
	next := s.clone()

	if c.MilestoneProgress {
		next.MilestoneIndex++
	}

	for k, v := range c.Flags {
		next.Flags[k] = v
	}

	next.Inventory = append(next.Inventory, c.InventoryAdd...)

	for _, item := range c.InventoryRemove {
		for i, held := range next.Inventory {
			if held == item {
				next.Inventory = append(next.Inventory[:i], next.Inventory[i+1:]...)
				break
			}
		}
	}

	return next
}

// clone deep-copies the mutable containers. History entries are append-only
// and never mutated in place, so copying the slice header chain is enough.
func (s State) clone() State {
	next := s

	next.Flags = make(map[string]any, len(s.Flags))
	for k, v := range s.Flags {
		next.Flags[k] = v
	}

	next.Inventory = make([]string, len(s.Inventory))
	copy(next.Inventory, s.Inventory)

	next.History = make([]HistoryEntry, len(s.History))
	copy(next.History, s.History)

	return next
}

// RecentSceneTexts returns the scene texts of the last max history entries,
// oldest first, skipping entries without text.
func (s State) RecentSceneTexts(max int) []string {
	if max <= 0 || len(s.History) == 0 {
		return nil
	}

	start := len(s.History) - max
	if start < 0 {
		start = 0
	}

	var texts []string
	for _, entry := range s.History[start:] {
		if entry.SceneText != "" {
			texts = append(texts, entry.SceneText)
		}
	}
	return texts
}
