package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fyrsmithlabs/taleweaver/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLore records retrieval calls and returns a fixed context line.
type stubLore struct {
	calls   []string
	context string
}

func (s *stubLore) Context(input string, maxResults int) string {
	s.calls = append(s.calls, input)
	return s.context
}

func TestSceneGenerateRoundTrip(t *testing.T) {
	client := newStubClient().respond(callScene, validSceneJSON)
	gen := engine.NewSceneGenerator(client, nil, 5, nil)

	scene := gen.Generate(context.Background(), engine.Codex{}, engine.NewState(engine.Codex{}), "j'ouvre la porte", "", "")

	// Schema values survive verbatim, choices keep their order.
	assert.Equal(t, "La porte grince et s'ouvre sur un couloir sombre.", scene.SceneText)
	assert.Equal(t, []string{"Entrer", "Reculer"}, scene.Choices)
	assert.False(t, scene.Consequences.MilestoneProgress)
}

func TestSceneGenerateParseFailure(t *testing.T) {
	client := newStubClient().respond(callScene, "pas du JSON")
	gen := engine.NewSceneGenerator(client, nil, 5, nil)

	scene := gen.Generate(context.Background(), engine.Codex{}, engine.NewState(engine.Codex{}), "test", "", "")

	assert.Equal(t, engine.SceneErrorText, scene.SceneText)
	assert.Empty(t, scene.Choices)
	assert.Equal(t, engine.Consequences{}, scene.Consequences)
}

func TestSceneGenerateChatError(t *testing.T) {
	client := newStubClient().fail(callScene, errors.New("timeout"))
	gen := engine.NewSceneGenerator(client, nil, 5, nil)

	scene := gen.Generate(context.Background(), engine.Codex{}, engine.NewState(engine.Codex{}), "test", "", "")
	assert.Equal(t, engine.SceneErrorText, scene.SceneText)
}

func TestSceneGenerateFencedResponse(t *testing.T) {
	client := newStubClient().respond(callScene, "```json\n"+validSceneJSON+"\n```")
	gen := engine.NewSceneGenerator(client, nil, 5, nil)

	scene := gen.Generate(context.Background(), engine.Codex{}, engine.NewState(engine.Codex{}), "test", "", "")
	assert.Equal(t, "La porte grince et s'ouvre sur un couloir sombre.", scene.SceneText)
}

func TestSceneGenerateIncludesLoreContext(t *testing.T) {
	lore := &stubLore{context: "[PERSONNAGES] Borin : Le forgeron du village.\n"}
	client := newStubClient().respond(callScene, validSceneJSON)
	gen := engine.NewSceneGenerator(client, lore, 5, nil)

	gen.Generate(context.Background(), engine.Codex{Theme: "fantasy"}, engine.NewState(engine.Codex{}), "je vais voir borin", "", "")

	require.Equal(t, []string{"je vais voir borin"}, lore.calls)
	assert.Contains(t, client.lastPrompt(callScene), "[PERSONNAGES] Borin")
}

func TestSceneGenerateSkipsLoreOnEmptyInput(t *testing.T) {
	lore := &stubLore{context: "ne devrait pas apparaître"}
	client := newStubClient().respond(callScene, validSceneJSON)
	gen := engine.NewSceneGenerator(client, lore, 5, nil)

	gen.Generate(context.Background(), engine.Codex{}, engine.NewState(engine.Codex{}), "", "", "")

	assert.Empty(t, lore.calls)
}

func TestSceneGenerateEmptyFieldsUseSentinels(t *testing.T) {
	client := newStubClient().respond(callScene, validSceneJSON)
	gen := engine.NewSceneGenerator(client, nil, 5, nil)

	gen.Generate(context.Background(), engine.Codex{}, engine.NewState(engine.Codex{}), "", "", "")

	prompt := client.lastPrompt(callScene)
	assert.Contains(t, prompt, "Action du joueur : Aucune.")
	assert.Contains(t, prompt, "Résumé des événements récents :\nAucun.")
	assert.Contains(t, prompt, "Mémoire longue pertinente :\nAucune.")
}

func TestSceneGenerateEmbedsMemories(t *testing.T) {
	client := newStubClient().respond(callScene, validSceneJSON)
	gen := engine.NewSceneGenerator(client, nil, 5, nil)

	gen.Generate(context.Background(), engine.Codex{}, engine.NewState(engine.Codex{}),
		"je continue", "scène récente", "vieille scène")

	prompt := client.lastPrompt(callScene)
	assert.Contains(t, prompt, "scène récente")
	assert.Contains(t, prompt, "vieille scène")
}
