package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/taleweaver/internal/llm"
	"go.uber.org/zap"
)

// CodexGenerator produces the story's world bible with a single generation
// call at story start.
type CodexGenerator struct {
	client llm.Client
	logger *zap.Logger
}

// NewCodexGenerator creates a codex generator.
func NewCodexGenerator(client llm.Client, logger *zap.Logger) *CodexGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CodexGenerator{client: client, logger: logger}
}

// Generate requests a codex for the theme and parses the strict-schema
// response. It never fails: a chat error or unparseable payload yields a
// codex whose pitch carries the error sentinel, and missing fields are
// backfilled with empty defaults. The theme is normalized to lowercase and
// stored on the codex.
func (g *CodexGenerator) Generate(ctx context.Context, theme string) Codex {
	raw, err := g.client.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: codexSystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(codexPromptTemplate, theme)},
	})

	var codex Codex
	if err != nil {
		g.logger.Warn("codex generation failed", zap.Error(err))
		codex = errorCodex()
	} else if err := json.Unmarshal([]byte(llm.ExtractJSON(raw)), &codex); err != nil {
		g.logger.Warn("codex response is not valid JSON",
			zap.Error(err),
			zap.Int("response_chars", len(raw)),
		)
		codex = errorCodex()
	}

	if codex.Characters == nil {
		codex.Characters = []string{}
	}
	if codex.Places == nil {
		codex.Places = []string{}
	}
	if codex.Milestones == nil {
		codex.Milestones = []string{}
	}
	codex.Theme = strings.ToLower(theme)

	g.logger.Info("codex generated",
		zap.String("theme", codex.Theme),
		zap.Int("characters", len(codex.Characters)),
		zap.Int("places", len(codex.Places)),
		zap.Int("milestones", len(codex.Milestones)),
	)

	return codex
}

// errorCodex is the fallback world bible when generation fails.
func errorCodex() Codex {
	return Codex{Pitch: SceneErrorText}
}
