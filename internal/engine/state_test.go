package engine_test

import (
	"testing"

	"github.com/fyrsmithlabs/taleweaver/internal/engine"
	"github.com/stretchr/testify/assert"
)

func TestNewState(t *testing.T) {
	codex := engine.Codex{Universe: "Les Terres Brisées.", Theme: "fantasy"}
	state := engine.NewState(codex)

	assert.Equal(t, 0, state.MilestoneIndex)
	assert.Empty(t, state.Flags)
	assert.Empty(t, state.Inventory)
	assert.Empty(t, state.History)
	assert.Equal(t, "Les Terres Brisées.", state.Universe)
}

func TestApplyMilestoneProgressIncrementsByExactlyOne(t *testing.T) {
	state := engine.NewState(engine.Codex{})

	next := state.Apply(engine.Consequences{MilestoneProgress: true})
	assert.Equal(t, 1, next.MilestoneIndex)

	// Applied twice in sequence: exactly once per application.
	next = next.Apply(engine.Consequences{MilestoneProgress: true})
	assert.Equal(t, 2, next.MilestoneIndex)
}

func TestApplyWithoutMilestoneProgress(t *testing.T) {
	state := engine.NewState(engine.Codex{})
	next := state.Apply(engine.Consequences{MilestoneProgress: false})
	assert.Equal(t, 0, next.MilestoneIndex)
}

func TestApplyFlagsLastWriteWins(t *testing.T) {
	state := engine.NewState(engine.Codex{})

	next := state.Apply(engine.Consequences{Flags: map[string]any{"a": 1}})
	next = next.Apply(engine.Consequences{Flags: map[string]any{"a": 2, "b": 3}})

	assert.Equal(t, map[string]any{"a": 2, "b": 3}, next.Flags)
}

func TestApplyInventoryAddAllowsDuplicates(t *testing.T) {
	state := engine.NewState(engine.Codex{})

	next := state.Apply(engine.Consequences{InventoryAdd: []string{"torche", "torche"}})
	assert.Equal(t, []string{"torche", "torche"}, next.Inventory)
}

func TestApplyInventoryRemoveFirstMatchOnly(t *testing.T) {
	state := engine.NewState(engine.Codex{})
	state = state.Apply(engine.Consequences{InventoryAdd: []string{"torche", "corde", "torche"}})

	next := state.Apply(engine.Consequences{InventoryRemove: []string{"torche"}})
	assert.Equal(t, []string{"corde", "torche"}, next.Inventory)
}

func TestApplyInventoryRemoveAbsentIsNoOp(t *testing.T) {
	state := engine.NewState(engine.Codex{})
	state = state.Apply(engine.Consequences{InventoryAdd: []string{"corde"}})

	next := state.Apply(engine.Consequences{InventoryRemove: []string{"torche"}})
	assert.Equal(t, []string{"corde"}, next.Inventory)
}

func TestApplyIsPure(t *testing.T) {
	state := engine.NewState(engine.Codex{})
	state = state.Apply(engine.Consequences{
		Flags:        map[string]any{"porte_ouverte": false},
		InventoryAdd: []string{"clé"},
	})

	_ = state.Apply(engine.Consequences{
		MilestoneProgress: true,
		Flags:             map[string]any{"porte_ouverte": true},
		InventoryRemove:   []string{"clé"},
	})

	// The receiver is untouched.
	assert.Equal(t, 0, state.MilestoneIndex)
	assert.Equal(t, map[string]any{"porte_ouverte": false}, state.Flags)
	assert.Equal(t, []string{"clé"}, state.Inventory)
}

func TestApplyDoesNotTouchHistory(t *testing.T) {
	state := engine.NewState(engine.Codex{})
	state.History = append(state.History, engine.HistoryEntry{SceneText: "Début."})

	next := state.Apply(engine.Consequences{MilestoneProgress: true})
	assert.Len(t, next.History, 1)
}

func TestRecentSceneTexts(t *testing.T) {
	state := engine.NewState(engine.Codex{})
	for _, text := range []string{"une", "deux", "trois", "quatre"} {
		state.History = append(state.History, engine.HistoryEntry{SceneText: text})
	}

	assert.Equal(t, []string{"deux", "trois", "quatre"}, state.RecentSceneTexts(3))
	assert.Equal(t, []string{"une", "deux", "trois", "quatre"}, state.RecentSceneTexts(10))
	assert.Nil(t, state.RecentSceneTexts(0))
	assert.Nil(t, engine.NewState(engine.Codex{}).RecentSceneTexts(3))
}
