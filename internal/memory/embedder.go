package memory

import (
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
)

// EmbedderConfig configures the Ollama-backed embedder.
type EmbedderConfig struct {
	// BaseURL is the Ollama server URL.
	// Default: "http://localhost:11434"
	BaseURL string

	// Model is the embedding model name.
	// Default: "nomic-embed-text"
	Model string
}

// ApplyDefaults sets default values for unset fields.
func (c *EmbedderConfig) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:11434"
	}
	if c.Model == "" {
		c.Model = "nomic-embed-text"
	}
}

// NewOllamaEmbedder creates an Embedder that generates embeddings through a
// local Ollama server via langchaingo.
func NewOllamaEmbedder(config EmbedderConfig) (Embedder, error) {
	config.ApplyDefaults()

	llm, err := ollama.New(
		ollama.WithServerURL(config.BaseURL),
		ollama.WithModel(config.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ollama embedding client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	return embedder, nil
}

// langchaingo's EmbedderImpl satisfies our Embedder interface.
var _ Embedder = (*embeddings.EmbedderImpl)(nil)
