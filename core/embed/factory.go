package embed

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/gaurav-prasanna/stampify/core"
	"github.com/gaurav-prasanna/stampify/core/config"
)

// FromConfig builds the configured embedder, wrapped in the SQLite cache
// when a cache path is set. The returned close function releases the cache
// and is never nil.
func FromConfig(cfg config.EmbedderConfig) (core.Embedder, func() error, error) {
	var embedder core.Embedder
	switch cfg.Provider {
	case "", "local":
		embedder = NewHashing(cfg.Dimensions)
	case "ollama":
		embedder = NewOllama(cfg.URL, cfg.Model, cfg.BatchSize, cfg.Workers, cfg.Timeout)
	default:
		return nil, nil, fmt.Errorf("unknown embedder provider %q", cfg.Provider)
	}

	if cfg.CachePath == "" {
		return embedder, func() error { return nil }, nil
	}
	cache, err := OpenCache(cfg.CachePath, embedder)
	if err != nil {
		return nil, nil, err
	}
	log.Debug().Str("path", cfg.CachePath).Str("model", embedder.Model()).Msg("embedding cache opened")
	return cache, cache.Close, nil
}
