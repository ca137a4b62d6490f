package engine

import (
	"context"
	"fmt"

	"github.com/fyrsmithlabs/taleweaver/internal/llm"
	"go.uber.org/zap"
)

// Intent labels a player message as in-universe or not.
type Intent string

const (
	// IntentInGame means the message is an action inside the story world.
	IntentInGame Intent = "IN_GAME"

	// IntentOutOfGame means the message leaves the narrative frame.
	IntentOutOfGame Intent = "OUT_OF_GAME"
)

// IntentClassifier labels player input with a single generation call.
//
// Callers never invoke it with empty input: auto-continuation turns bypass
// classification entirely.
type IntentClassifier struct {
	client llm.Client
	logger *zap.Logger
}

// NewIntentClassifier creates an intent classifier.
func NewIntentClassifier(client llm.Client, logger *zap.Logger) *IntentClassifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntentClassifier{client: client, logger: logger}
}

// Classify asks the model for an explicit final label and reads the last
// non-empty line of the response. Any occurrence of OUT_OF_GAME on that
// line wins; everything else, including chat errors and empty responses,
// degrades to IN_GAME so the story keeps moving. No retries.
func (c *IntentClassifier) Classify(ctx context.Context, input string) Intent {
	raw, err := c.client.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: intentSystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(intentPromptTemplate, input)},
	})
	if err != nil {
		c.logger.Warn("intent classification failed, defaulting to in-game", zap.Error(err))
		return IntentInGame
	}

	intent := IntentInGame
	if llm.ContainsLabel(llm.LastLineLabel(raw), string(IntentOutOfGame)) {
		intent = IntentOutOfGame
	}

	c.logger.Debug("intent classified", zap.String("intent", string(intent)))
	return intent
}
