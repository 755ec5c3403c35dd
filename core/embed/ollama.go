// Package embed provides the Embedder implementations: an Ollama client,
// an offline feature-hashing embedder and a SQLite-backed cache.
package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/stampify/core"
)

const (
	defaultOllamaURL = "http://localhost:11434"
	defaultTimeout   = 60 * time.Second
	defaultBatchSize = 5
	defaultWorkers   = 4
)

// OllamaEmbedder calls an Ollama-compatible /api/embed endpoint.
type OllamaEmbedder struct {
	BaseURL   string
	ModelName string
	BatchSize int
	Workers   int
	client    *http.Client
}

// NewOllama creates an OllamaEmbedder. Zero values select the defaults.
func NewOllama(baseURL, model string, batchSize, workers int, timeout time.Duration) *OllamaEmbedder {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &OllamaEmbedder{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		ModelName: model,
		BatchSize: batchSize,
		Workers:   workers,
		client:    &http.Client{Timeout: timeout},
	}
}

// ollamaRequest is the request body for the Ollama embed API.
type ollamaRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// ollamaResponse is the response body from the Ollama embed API.
type ollamaResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// Model returns the Ollama model name.
func (e *OllamaEmbedder) Model() string { return e.ModelName }

// Embed sends the non-empty texts in batches of BatchSize, at most Workers
// requests at a time, and reassembles the vectors in input order.
func (e *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))

	var idx []int
	for i, t := range texts {
		if strings.TrimSpace(t) != "" {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return out, nil
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Workers)
	for lo := 0; lo < len(idx); lo += e.BatchSize {
		batch := idx[lo:min(lo+e.BatchSize, len(idx))]
		g.Go(func() error {
			inputs := make([]string, len(batch))
			for k, i := range batch {
				inputs[k] = texts[i]
			}
			vectors, err := e.embedBatch(gctx, inputs)
			if err != nil {
				return err
			}
			for k, i := range batch {
				out[i] = vectors[k]
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("model", e.ModelName).
		Int("texts", len(idx)).
		Dur("elapsed", time.Since(start)).
		Msg("ollama embed completed")
	return out, nil
}

// embedBatch calls the Ollama embed API for one batch of inputs.
func (e *OllamaEmbedder) embedBatch(ctx context.Context, inputs []string) ([][]float64, error) {
	bodyBytes, err := json.Marshal(ollamaRequest{Model: e.ModelName, Input: inputs})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"/api/embed", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling Ollama API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("Ollama API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var ollamaResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return nil, fmt.Errorf("decoding Ollama response: %w", err)
	}
	if len(ollamaResp.Embeddings) != len(inputs) {
		return nil, fmt.Errorf("Ollama API returned %d embeddings for %d inputs", len(ollamaResp.Embeddings), len(inputs))
	}
	return ollamaResp.Embeddings, nil
}

var _ core.Embedder = (*OllamaEmbedder)(nil)
