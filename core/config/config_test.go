package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	opts := cfg.SelectionOptions()
	assert.Equal(t, 10, opts.MaxPages)
	assert.Equal(t, 0.5, opts.Threshold)
	assert.Equal(t, 1.0, opts.Weights.ContentSimilarity)
	assert.Equal(t, 1.0, opts.Sweep.Step)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stampify.yaml")
	yamlDoc := `
max_pages: 6
similarity_threshold: 0.35
weights:
  sweep_distance: 0.25
sweep:
  step: 2
  growth: 0.5
embedder:
  provider: ollama
  timeout: 15s
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.MaxPages)
	assert.Equal(t, 0.35, cfg.Threshold)
	assert.Equal(t, 0.25, cfg.Weights.SweepDistance)
	assert.Equal(t, 1.0, cfg.Weights.CoverageCostRatio, "unset weights keep their defaults")
	assert.Equal(t, 2.0, cfg.Sweep.Step)
	assert.Equal(t, 0.5, cfg.Sweep.Growth)
	assert.Equal(t, "ollama", cfg.Embedder.Provider)
	assert.Equal(t, 15*time.Second, cfg.Embedder.Timeout)
	assert.Equal(t, "nomic-embed-text", cfg.Embedder.Model)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stampify.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_pages: 6\n"), 0o644))

	t.Setenv("STAMPIFY_MAX_PAGES", "12")
	t.Setenv("STAMPIFY_LOG_LEVEL", "debug")
	t.Setenv("STAMPIFY_EMBED_MODEL", "mxbai-embed-large")
	t.Setenv("STAMPIFY_LOG_PRETTY", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.MaxPages)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "mxbai-embed-large", cfg.Embedder.Model)
	assert.True(t, cfg.Log.Pretty)
}

func TestLoad_MalformedEnv(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"STAMPIFY_MAX_PAGES", "ten"},
		{"STAMPIFY_SIMILARITY_THRESHOLD", "high"},
		{"STAMPIFY_SUMMARY_RATIO", "half"},
		{"STAMPIFY_LOG_PRETTY", "sometimes"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load("")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidate_BoundaryValues(t *testing.T) {
	cfg := Default()
	cfg.SummaryRatio = 0
	cfg.Embedder.Provider = ""
	assert.NoError(t, cfg.Validate(), "ratio 0 keeps one sentence and an empty provider means local")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_pages: [1, 2"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero pages", func(c *Config) { c.MaxPages = 0 }},
		{"threshold out of range", func(c *Config) { c.Threshold = 1.2 }},
		{"negative sweep step", func(c *Config) { c.Sweep.Step = -1 }},
		{"summary ratio above one", func(c *Config) { c.SummaryRatio = 1.5 }},
		{"negative summary ratio", func(c *Config) { c.SummaryRatio = -0.1 }},
		{"unknown metric", func(c *Config) { c.Match.Metric = "euclidean" }},
		{"negative match distance", func(c *Config) { c.Match.MaxDistance = -1 }},
		{"unknown provider", func(c *Config) { c.Embedder.Provider = "openai" }},
		{"ollama without model", func(c *Config) {
			c.Embedder.Provider = "ollama"
			c.Embedder.Model = ""
		}},
		{"local without dimensions", func(c *Config) { c.Embedder.Dimensions = 0 }},
		{"zero workers", func(c *Config) { c.Embedder.Workers = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
