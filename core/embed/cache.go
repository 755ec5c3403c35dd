package embed

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/gaurav-prasanna/stampify/core"
)

const cacheSchema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;

CREATE TABLE IF NOT EXISTS embeddings (
    model      TEXT NOT NULL,
    text_hash  TEXT NOT NULL,
    dimensions INTEGER NOT NULL,
    vector     BLOB NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (model, text_hash)
);
`

// CachingEmbedder wraps an Embedder with a SQLite cache keyed by model name
// and the SHA-256 of the text. Only cache misses reach the inner embedder.
type CachingEmbedder struct {
	inner core.Embedder
	db    *sql.DB
}

// OpenCache opens or creates the cache database at path. ":memory:" gives a
// throwaway cache.
func OpenCache(path string, inner core.Embedder) (*CachingEmbedder, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening embedding cache: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(cacheSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing embedding cache: %w", err)
	}
	return &CachingEmbedder{inner: inner, db: db}, nil
}

// Model returns the inner embedder's model.
func (c *CachingEmbedder) Model() string { return c.inner.Model() }

// Close closes the cache database.
func (c *CachingEmbedder) Close() error { return c.db.Close() }

// Len returns the number of cached vectors.
func (c *CachingEmbedder) Len(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM embeddings").Scan(&n)
	return n, err
}

// Embed serves cached vectors and embeds the misses in one inner call.
// Duplicate texts are embedded once.
func (c *CachingEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	model := c.inner.Model()
	out := make([][]float64, len(texts))

	missing := map[string][]int{}
	var missTexts, missHashes []string
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		hash := textHash(text)
		if idx, ok := missing[hash]; ok {
			missing[hash] = append(idx, i)
			continue
		}
		vec, err := c.lookup(ctx, model, hash)
		if err != nil {
			return nil, err
		}
		if vec != nil {
			out[i] = vec
			continue
		}
		missing[hash] = []int{i}
		missTexts = append(missTexts, text)
		missHashes = append(missHashes, hash)
	}

	log.Debug().
		Str("model", model).
		Int("hits", len(texts)-len(missTexts)).
		Int("misses", len(missTexts)).
		Msg("embedding cache lookup")
	if len(missTexts) == 0 {
		return out, nil
	}

	vectors, err := c.inner.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(missTexts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(missTexts))
	}

	for k, hash := range missHashes {
		for _, i := range missing[hash] {
			out[i] = vectors[k]
		}
		if len(vectors[k]) == 0 {
			continue
		}
		if err := c.store(ctx, model, hash, vectors[k]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *CachingEmbedder) lookup(ctx context.Context, model, hash string) ([]float64, error) {
	var blob []byte
	err := c.db.QueryRowContext(ctx,
		"SELECT vector FROM embeddings WHERE model = ? AND text_hash = ?", model, hash).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading embedding cache: %w", err)
	}
	return decodeVector(blob), nil
}

func (c *CachingEmbedder) store(ctx context.Context, model, hash string, vec []float64) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO embeddings (model, text_hash, dimensions, vector) VALUES (?, ?, ?, ?)
		ON CONFLICT (model, text_hash) DO UPDATE SET vector = excluded.vector, dimensions = excluded.dimensions
	`, model, hash, len(vec), encodeVector(vec))
	if err != nil {
		return fmt.Errorf("writing embedding cache: %w", err)
	}
	return nil
}

func textHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func encodeVector(vec []float64) []byte {
	buf := make([]byte, 8*len(vec))
	for i, x := range vec {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(x))
	}
	return buf
}

func decodeVector(buf []byte) []float64 {
	vec := make([]float64, len(buf)/8)
	for i := range vec {
		vec[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
	}
	return vec
}

var _ core.Embedder = (*CachingEmbedder)(nil)
