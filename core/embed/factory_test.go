package embed

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/stampify/core/config"
)

func TestFromConfig(t *testing.T) {
	cfg := config.Default().Embedder

	e, closeFn, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.IsType(t, &HashingEmbedder{}, e)
	assert.NoError(t, closeFn())

	cfg.Provider = "ollama"
	e, _, err = FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text", e.Model())

	cfg.Provider = "local"
	cfg.CachePath = filepath.Join(t.TempDir(), "embeddings.db")
	e, closeFn, err = FromConfig(cfg)
	require.NoError(t, err)
	assert.IsType(t, &CachingEmbedder{}, e)
	assert.Equal(t, "hashing-256", e.Model())
	assert.NoError(t, closeFn())

	cfg.Provider = "openai"
	_, _, err = FromConfig(cfg)
	assert.Error(t, err)
}
