package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

// OllamaConfig configures the Ollama chat client.
type OllamaConfig struct {
	// BaseURL is the Ollama server URL.
	// Default: "http://localhost:11434"
	BaseURL string

	// Model is the chat model name.
	// Default: "mistral"
	Model string
}

// ApplyDefaults sets default values for unset fields.
func (c *OllamaConfig) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:11434"
	}
	if c.Model == "" {
		c.Model = "mistral"
	}
}

// OllamaClient implements Client against a local Ollama server.
//
// The response is streamed and its fragments are concatenated in arrival
// order before being returned; malformed fragments are dropped by the
// transport rather than failing the call.
type OllamaClient struct {
	llm    *ollama.LLM
	config OllamaConfig
	logger *zap.Logger
}

// NewOllamaClient creates a chat client for the configured Ollama server.
func NewOllamaClient(config OllamaConfig, logger *zap.Logger) (*OllamaClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	config.ApplyDefaults()

	model, err := ollama.New(
		ollama.WithServerURL(config.BaseURL),
		ollama.WithModel(config.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ollama client: %w", err)
	}

	logger.Info("ollama client initialized",
		zap.String("base_url", config.BaseURL),
		zap.String("model", config.Model),
	)

	return &OllamaClient{
		llm:    model,
		config: config,
		logger: logger,
	}, nil
}

// Chat sends the messages and returns the fully assembled response text.
func (c *OllamaClient) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", ErrNoMessages
	}

	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		content = append(content, llms.TextParts(chatRole(m.Role), m.Content))
	}

	var sb strings.Builder
	resp, err := c.llm.GenerateContent(ctx, content,
		llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			sb.Write(chunk)
			return nil
		}),
	)
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}

	text := sb.String()
	if text == "" && resp != nil && len(resp.Choices) > 0 {
		text = resp.Choices[0].Content
	}
	if text == "" {
		return "", ErrEmptyResponse
	}

	c.logger.Debug("chat completed",
		zap.String("model", c.config.Model),
		zap.Int("response_chars", len(text)),
	)

	return text, nil
}

// chatRole maps wire roles onto langchaingo message types.
func chatRole(role string) llms.ChatMessageType {
	switch role {
	case RoleSystem:
		return llms.ChatMessageTypeSystem
	case RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

// Ensure OllamaClient implements Client.
var _ Client = (*OllamaClient)(nil)
