package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fyrsmithlabs/taleweaver/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "mistral", cfg.Ollama.ChatModel)
	assert.Equal(t, "nomic-embed-text", cfg.Ollama.EmbedModel)
	assert.Equal(t, "data/lore", cfg.Lore.DataDir)
	assert.Equal(t, 5, cfg.Lore.MaxResults)
	assert.Equal(t, "scene_memory", cfg.Memory.Collection)
	assert.Equal(t, 3, cfg.Story.ShortMemoryScenes)
	assert.Equal(t, 5, cfg.Story.LongMemoryResults)
	assert.Equal(t, 3, cfg.Story.MaxAutoDepth)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "mistral", cfg.Ollama.ChatModel)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
ollama:
  chat_model: llama3
story:
  max_auto_depth: 5
logging:
  format: json
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "llama3", cfg.Ollama.ChatModel)
	assert.Equal(t, 5, cfg.Story.MaxAutoDepth)
	assert.Equal(t, "json", cfg.Logging.Format)

	// Untouched fields keep their defaults.
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ollama:\n  chat_model: llama3\n"), 0o600))

	t.Setenv("TALEWEAVER_OLLAMA_CHAT_MODEL", "phi3")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "phi3", cfg.Ollama.ChatModel)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ollama: [not: a map"), 0o600))

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  format: xml\n"), 0o600))

	_, err := config.Load(path)
	assert.ErrorContains(t, err, "logging.format")
}
