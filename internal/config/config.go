// Package config provides configuration loading for taleweaver.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Config is the root configuration for the narrative engine.
type Config struct {
	Ollama  OllamaConfig  `koanf:"ollama"`
	Lore    LoreConfig    `koanf:"lore"`
	Memory  MemoryConfig  `koanf:"memory"`
	Story   StoryConfig   `koanf:"story"`
	Logging LoggingConfig `koanf:"logging"`
}

// OllamaConfig configures the local model endpoint.
type OllamaConfig struct {
	// BaseURL is the Ollama server URL.
	BaseURL string `koanf:"base_url"`

	// ChatModel is the model used for all generation calls.
	ChatModel string `koanf:"chat_model"`

	// EmbedModel is the model used for vector-memory embeddings.
	EmbedModel string `koanf:"embed_model"`
}

// LoreConfig configures the lore dataset.
type LoreConfig struct {
	// DataDir is the directory holding one JSON file per lore category.
	DataDir string `koanf:"data_dir"`

	// MaxResults bounds how many lore entries a retrieval returns.
	MaxResults int `koanf:"max_results"`
}

// MemoryConfig configures the session vector memory.
type MemoryConfig struct {
	// Collection is the chromem collection name for scene memory.
	Collection string `koanf:"collection"`
}

// StoryConfig tunes the orchestration pipeline.
type StoryConfig struct {
	// ShortMemoryScenes is how many recent scenes feed the short memory.
	ShortMemoryScenes int `koanf:"short_memory_scenes"`

	// LongMemoryResults is how many vector-search hits feed the long memory.
	LongMemoryResults int `koanf:"long_memory_results"`

	// MaxAutoDepth caps consecutive auto-continuation turns.
	MaxAutoDepth int `koanf:"max_auto_depth"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is "json" or "console".
	Format string `koanf:"format"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Ollama.BaseURL == "" {
		c.Ollama.BaseURL = "http://localhost:11434"
	}
	if c.Ollama.ChatModel == "" {
		c.Ollama.ChatModel = "mistral"
	}
	if c.Ollama.EmbedModel == "" {
		c.Ollama.EmbedModel = "nomic-embed-text"
	}
	if c.Lore.DataDir == "" {
		c.Lore.DataDir = "data/lore"
	}
	if c.Lore.MaxResults == 0 {
		c.Lore.MaxResults = 5
	}
	if c.Memory.Collection == "" {
		c.Memory.Collection = "scene_memory"
	}
	if c.Story.ShortMemoryScenes == 0 {
		c.Story.ShortMemoryScenes = 3
	}
	if c.Story.LongMemoryResults == 0 {
		c.Story.LongMemoryResults = 5
	}
	if c.Story.MaxAutoDepth == 0 {
		c.Story.MaxAutoDepth = 3
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Lore.MaxResults < 0 {
		return fmt.Errorf("lore.max_results must be non-negative, got %d", c.Lore.MaxResults)
	}
	if c.Story.MaxAutoDepth < 0 {
		return fmt.Errorf("story.max_auto_depth must be non-negative, got %d", c.Story.MaxAutoDepth)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// Load loads configuration from a YAML file, then overrides with
// environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (TALEWEAVER_OLLAMA_CHAT_MODEL, ...)
//  2. YAML config file
//  3. Hardcoded defaults
//
// A missing config file is not an error; defaults plus environment apply.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// TALEWEAVER_STORY_MAX_AUTO_DEPTH -> story.max_auto_depth
	// (all section names are single words, so only the first underscore
	// becomes a separator)
	err := k.Load(env.Provider("TALEWEAVER_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "TALEWEAVER_"))
		return strings.Replace(s, "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}
