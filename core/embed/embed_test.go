package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/stampify/core/stamp"
)

// fakeOllama answers /api/embed with [len(input), 1] per input.
func fakeOllama(t *testing.T, requests *atomic.Int32, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/api/embed" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if status != http.StatusOK {
			http.Error(w, "model not found", status)
			return
		}
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := ollamaResponse{}
		for _, in := range req.Input {
			resp.Embeddings = append(resp.Embeddings, []float64{float64(len(in)), 1})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOllama_BatchesAndKeepsOrder(t *testing.T) {
	var requests atomic.Int32
	srv := fakeOllama(t, &requests, http.StatusOK)
	defer srv.Close()

	e := NewOllama(srv.URL+"/", "nomic-embed-text", 2, 3, time.Second)
	texts := []string{"a", "", "ccc", "dddd", "  ", "eeeee", "ffffff"}

	got, err := e.Embed(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, got, len(texts))

	assert.Nil(t, got[1])
	assert.Nil(t, got[4])
	for _, i := range []int{0, 2, 3, 5, 6} {
		assert.Equal(t, []float64{float64(len(texts[i])), 1}, got[i], "text %d", i)
	}
	assert.Equal(t, int32(3), requests.Load(), "five texts in batches of two")
	assert.Equal(t, "nomic-embed-text", e.Model())
}

func TestOllama_AllEmptySkipsServer(t *testing.T) {
	var requests atomic.Int32
	srv := fakeOllama(t, &requests, http.StatusOK)
	defer srv.Close()

	got, err := NewOllama(srv.URL, "m", 0, 0, 0).Embed(context.Background(), []string{"", " "})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{nil, nil}, got)
	assert.Zero(t, requests.Load())
}

func TestOllama_ErrorStatus(t *testing.T) {
	var requests atomic.Int32
	srv := fakeOllama(t, &requests, http.StatusNotFound)
	defer srv.Close()

	_, err := NewOllama(srv.URL, "missing", 0, 0, 0).Embed(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "model not found")
}

func TestHashing(t *testing.T) {
	e := NewHashing(256)
	assert.Equal(t, "hashing-256", e.Model())

	got, err := e.Embed(context.Background(), []string{
		"The harbour flooded after the storm",
		"the harbour FLOODED after the storm!",
		"Quarterly earnings beat analyst expectations",
		"...",
	})
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Len(t, got[0], 256)
	assert.InDelta(t, 1.0, stamp.CosineSimilarity(got[0], got[0]), 1e-9)
	assert.InDelta(t, 1.0, stamp.CosineSimilarity(got[0], got[1]), 1e-9, "case and punctuation are ignored")
	assert.Less(t, stamp.CosineSimilarity(got[0], got[2]), 0.5)
	assert.Nil(t, got[3])
}

func TestHashing_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHashing(0).Embed(ctx, []string{"x"})
	assert.ErrorIs(t, err, context.Canceled)
}

// countingEmbedder records every text it is asked to embed.
type countingEmbedder struct {
	mu    sync.Mutex
	seen  []string
	inner *HashingEmbedder
}

func (c *countingEmbedder) Model() string { return c.inner.Model() }

func (c *countingEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	c.mu.Lock()
	c.seen = append(c.seen, texts...)
	c.mu.Unlock()
	return c.inner.Embed(ctx, texts)
}

func TestCache_ServesRepeatsFromSQLite(t *testing.T) {
	inner := &countingEmbedder{inner: NewHashing(32)}
	cache, err := OpenCache(":memory:", inner)
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	first, err := cache.Embed(ctx, []string{"storm surge", "storm surge", "", "high tide"})
	require.NoError(t, err)
	assert.Equal(t, []string{"storm surge", "high tide"}, inner.seen, "duplicates and blanks never reach the embedder")
	assert.Equal(t, first[0], first[1])
	assert.Nil(t, first[2])

	n, err := cache.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	second, err := cache.Embed(ctx, []string{"high tide", "storm surge", "low tide"})
	require.NoError(t, err)
	assert.Equal(t, []string{"storm surge", "high tide", "low tide"}, inner.seen)
	assert.Equal(t, first[3], second[0])
	assert.Equal(t, first[0], second[1])
	assert.Equal(t, "hashing-32", cache.Model())
}

func TestCache_PersistsAcrossOpens(t *testing.T) {
	path := t.TempDir() + "/cache/embeddings.db"

	inner := &countingEmbedder{inner: NewHashing(16)}
	cache, err := OpenCache(path, inner)
	require.NoError(t, err)
	_, err = cache.Embed(context.Background(), []string{"lighthouse"})
	require.NoError(t, err)
	require.NoError(t, cache.Close())

	inner.seen = nil
	cache, err = OpenCache(path, inner)
	require.NoError(t, err)
	defer cache.Close()
	got, err := cache.Embed(context.Background(), []string{"lighthouse"})
	require.NoError(t, err)
	assert.Empty(t, inner.seen)
	assert.Len(t, got[0], 16)
}

func TestVectorCodec(t *testing.T) {
	vec := []float64{0, -1.5, 3.25, 1e-9}
	assert.Equal(t, vec, decodeVector(encodeVector(vec)))
}
