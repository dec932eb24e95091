package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embed_llm:\n  model: text-embedding-3-large\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.EmbedLLM.Provider)
	assert.Equal(t, 3072, cfg.EmbedLLM.Dimensions)
	assert.Equal(t, 8191, cfg.Ingest.MaxInputTokens)
	assert.Equal(t, "abort-document", cfg.Ingest.OverflowPolicy)
	assert.Equal(t, "chromem", cfg.Store.Type)
	assert.Equal(t, 3, cfg.RAG.TopK)
}

func TestLoadConfigResolvesKeyFromEnv(t *testing.T) {
	t.Setenv("MY_EMBED_KEY", "secret")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embed_llm:\n  key_env: MY_EMBED_KEY\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.EmbedLLM.Key)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
