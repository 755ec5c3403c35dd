// Package config loads Stampify settings.
// Precedence is defaults < YAML file < .env / STAMPIFY_* environment < CLI flags
// (flags are applied by the cmd package).
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/stampify/core/stamp"
)

// DefaultFile is read when no config path is given and the file exists.
const DefaultFile = "stampify.yaml"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// EmbedderConfig selects and tunes the embedding backend.
type EmbedderConfig struct {
	Provider   string        `yaml:"provider"` // "local" or "ollama"
	URL        string        `yaml:"url"`
	Model      string        `yaml:"model"`
	Dimensions int           `yaml:"dimensions"` // local provider only
	BatchSize  int           `yaml:"batch_size"`
	Workers    int           `yaml:"workers"`
	Timeout    time.Duration `yaml:"timeout"`
	CachePath  string        `yaml:"cache_path"` // empty disables the cache
}

// FetchConfig tunes the HTTP fetcher.
type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// MatchConfig tunes text–media matching.
type MatchConfig struct {
	MaxDistance int    `yaml:"max_distance"`
	Metric      string `yaml:"metric"` // "absolute-difference" or "signed-difference"
}

// LogConfig holds logging-related configuration.
type LogConfig struct {
	Level      string `yaml:"level"`
	Pretty     bool   `yaml:"pretty"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Config is the top-level configuration.
type Config struct {
	MaxPages       int            `yaml:"max_pages"`
	Threshold      float64        `yaml:"similarity_threshold"`
	SummaryRatio   float64        `yaml:"summary_ratio"`
	RetainEntities bool           `yaml:"retain_entities"`
	DocumentOrder  bool           `yaml:"document_order"`
	Weights        stamp.Weights  `yaml:"weights"`
	Sweep          stamp.Sweep    `yaml:"sweep"`
	Match          MatchConfig    `yaml:"match"`
	Embedder       EmbedderConfig `yaml:"embedder"`
	Fetch          FetchConfig    `yaml:"fetch"`
	Log            LogConfig      `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxPages:       10,
		Threshold:      stamp.DefaultThreshold,
		SummaryRatio:   0.4,
		RetainEntities: true,
		Weights:        stamp.UnitWeights(),
		Sweep:          stamp.Sweep{Step: 1},
		Match: MatchConfig{
			MaxDistance: 3,
			Metric:      "absolute-difference",
		},
		Embedder: EmbedderConfig{
			Provider:   "local",
			URL:        "http://localhost:11434",
			Model:      "nomic-embed-text",
			Dimensions: 256,
			BatchSize:  5,
			Workers:    4,
			Timeout:    60 * time.Second,
		},
		Fetch: FetchConfig{
			Timeout:   30 * time.Second,
			UserAgent: "Stampify/1.0 (https://github.com/gaurav-prasanna/stampify)",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (or
// DefaultFile when path is empty and it exists), .env and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	// A missing .env is normal.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// applyEnv overrides fields from STAMPIFY_* variables. A value that does not
// parse is an error, never a silent fallback to the previous setting.
func (c *Config) applyEnv() error {
	var err error
	if c.MaxPages, err = parseInt("STAMPIFY_MAX_PAGES", c.MaxPages); err != nil {
		return err
	}
	if c.Threshold, err = parseFloat("STAMPIFY_SIMILARITY_THRESHOLD", c.Threshold); err != nil {
		return err
	}
	if c.SummaryRatio, err = parseFloat("STAMPIFY_SUMMARY_RATIO", c.SummaryRatio); err != nil {
		return err
	}
	if c.DocumentOrder, err = parseBool("STAMPIFY_DOCUMENT_ORDER", c.DocumentOrder); err != nil {
		return err
	}
	c.Embedder.Provider = getEnv("STAMPIFY_EMBEDDER", c.Embedder.Provider)
	c.Embedder.URL = getEnv("STAMPIFY_OLLAMA_URL", c.Embedder.URL)
	c.Embedder.Model = getEnv("STAMPIFY_EMBED_MODEL", c.Embedder.Model)
	c.Embedder.CachePath = getEnv("STAMPIFY_EMBED_CACHE", c.Embedder.CachePath)
	c.Log.Level = getEnv("STAMPIFY_LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnv("STAMPIFY_LOG_FILE", c.Log.File)
	if c.Log.Pretty, err = parseBool("STAMPIFY_LOG_PRETTY", c.Log.Pretty); err != nil {
		return err
	}
	return nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	if err := c.SelectionOptions().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.SummaryRatio < 0 || c.SummaryRatio > 1 || math.IsNaN(c.SummaryRatio) {
		return fmt.Errorf("%w: summary_ratio must be in [0,1], got %v", ErrInvalidConfig, c.SummaryRatio)
	}
	switch c.Match.Metric {
	case "absolute-difference", "signed-difference":
	default:
		return fmt.Errorf("%w: unknown match metric %q", ErrInvalidConfig, c.Match.Metric)
	}
	if c.Match.MaxDistance < 0 {
		return fmt.Errorf("%w: match max_distance must not be negative", ErrInvalidConfig)
	}
	switch c.Embedder.Provider {
	case "", "local":
		if c.Embedder.Dimensions <= 0 {
			return fmt.Errorf("%w: embedder dimensions must be positive", ErrInvalidConfig)
		}
	case "ollama":
		if c.Embedder.URL == "" || c.Embedder.Model == "" {
			return fmt.Errorf("%w: ollama embedder needs url and model", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown embedder provider %q", ErrInvalidConfig, c.Embedder.Provider)
	}
	if c.Embedder.BatchSize <= 0 || c.Embedder.Workers <= 0 {
		return fmt.Errorf("%w: embedder batch_size and workers must be positive", ErrInvalidConfig)
	}
	return nil
}

// SelectionOptions converts the config into sequencer options.
func (c Config) SelectionOptions() stamp.Options {
	return stamp.Options{
		MaxPages:  c.MaxPages,
		Threshold: c.Threshold,
		Weights:   c.Weights,
		Sweep:     c.Sweep,
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseInt(key string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, s)
	}
	return n, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, s)
	}
	return f, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, key, s)
	}
	return b, nil
}
