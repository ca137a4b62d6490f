package engine

import (
	"context"
	"fmt"

	"github.com/fyrsmithlabs/taleweaver/internal/llm"
	"go.uber.org/zap"
)

// Decision says whether the story advances without player input.
type Decision string

const (
	// DecisionAutoContinue advances the story automatically.
	DecisionAutoContinue Decision = "AUTO_CONTINUE"

	// DecisionWaitForPlayer pauses for player input.
	DecisionWaitForPlayer Decision = "WAIT_FOR_PLAYER"
)

// AutoContinueDecider classifies a just-produced scene as an automatic
// transition or a decision point.
//
// The prompt states four heuristic rules (choices present → wait, no
// choices → auto, narrative transition → auto, explicit demand → wait) and
// lets the model arbitrate holistically instead of applying them
// mechanically in code.
type AutoContinueDecider struct {
	client llm.Client
	logger *zap.Logger
}

// NewAutoContinueDecider creates a decider.
func NewAutoContinueDecider(client llm.Client, logger *zap.Logger) *AutoContinueDecider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutoContinueDecider{client: client, logger: logger}
}

// Decide issues one generation call and substring-matches AUTO_CONTINUE in
// the uppercased response. Anything else, including chat errors, degrades
// to waiting for the player.
func (d *AutoContinueDecider) Decide(ctx context.Context, scene Scene, state State, codex Codex) Decision {
	prompt := fmt.Sprintf(autoContinuePromptTemplate,
		promptJSON(scene),
		promptJSON(state),
		promptJSON(codex),
	)

	raw, err := d.client.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: autoContinueSystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	})
	if err != nil {
		d.logger.Warn("auto-continue decision failed, waiting for player", zap.Error(err))
		return DecisionWaitForPlayer
	}

	decision := DecisionWaitForPlayer
	if llm.ContainsLabel(raw, string(DecisionAutoContinue)) {
		decision = DecisionAutoContinue
	}

	d.logger.Debug("auto-continue decided", zap.String("decision", string(decision)))
	return decision
}
