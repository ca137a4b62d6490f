package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/taleweaver/internal/llm"
	"go.uber.org/zap"
)

// memorySeparator joins scene texts inside the short and long memory blocks.
const memorySeparator = "\n---\n"

// LoreContext supplies retrieval-augmented lore context for an input.
// A nil provider means no lore context is available.
type LoreContext interface {
	Context(input string, maxResults int) string
}

// SceneGenerator composes scene generation requests and parses the
// strict-schema responses.
type SceneGenerator struct {
	client         llm.Client
	lore           LoreContext
	loreMaxResults int
	logger         *zap.Logger
}

// NewSceneGenerator creates a scene generator. lore may be nil.
func NewSceneGenerator(client llm.Client, lore LoreContext, loreMaxResults int, logger *zap.Logger) *SceneGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loreMaxResults <= 0 {
		loreMaxResults = 5
	}
	return &SceneGenerator{
		client:         client,
		lore:           lore,
		loreMaxResults: loreMaxResults,
		logger:         logger,
	}
}

// Generate builds one generation request from the codex, the current state,
// the player input (may be empty on auto-continuation turns), the short
// memory, and the long memory, then parses the response into a Scene.
//
// Lore retrieval is best-effort: without a provider, or with empty input,
// the request simply carries no lore context. Generate never fails; a chat
// error or unparseable payload yields the sentinel scene.
func (g *SceneGenerator) Generate(ctx context.Context, codex Codex, state State, input, shortMemory, longMemory string) Scene {
	loreContext := ""
	if g.lore != nil && strings.TrimSpace(input) != "" {
		loreContext = g.lore.Context(input, g.loreMaxResults)
	}

	prompt := fmt.Sprintf(scenePromptTemplate,
		promptJSON(codex),
		promptJSON(state),
		orDefault(input, "Aucune."),
		orDefault(shortMemory, "Aucun."),
		orDefault(longMemory, "Aucune."),
		orDefault(loreContext, "Aucun."),
	)

	raw, err := g.client.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: sceneSystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	})
	if err != nil {
		g.logger.Warn("scene generation failed", zap.Error(err))
		return errorScene()
	}

	var scene Scene
	if err := json.Unmarshal([]byte(llm.ExtractJSON(raw)), &scene); err != nil {
		g.logger.Warn("scene response is not valid JSON",
			zap.Error(err),
			zap.Int("response_chars", len(raw)),
		)
		return errorScene()
	}

	if scene.Choices == nil {
		scene.Choices = []string{}
	}

	g.logger.Debug("scene generated",
		zap.Int("choices", len(scene.Choices)),
		zap.Bool("milestone_progress", scene.Consequences.MilestoneProgress),
	)

	return scene
}

// errorScene is the fallback scene when generation fails.
func errorScene() Scene {
	return Scene{
		SceneText: SceneErrorText,
		Choices:   []string{},
	}
}

// promptJSON renders a value for prompt embedding. Marshal cannot fail on
// the engine's own types; the fallback keeps the prompt well-formed anyway.
func promptJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// orDefault substitutes fallback for blank values.
func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
