package embed

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/gaurav-prasanna/stampify/core"
)

const defaultDimensions = 256

// HashingEmbedder maps text to a fixed-size vector by feature hashing of
// lower-cased words and word bigrams. Vectors are L2-normalised, so texts
// sharing vocabulary land close together. It needs no model server.
type HashingEmbedder struct {
	Dimensions int
}

// NewHashing creates a HashingEmbedder. Defaults to 256 dimensions.
func NewHashing(dimensions int) *HashingEmbedder {
	if dimensions <= 0 {
		dimensions = defaultDimensions
	}
	return &HashingEmbedder{Dimensions: dimensions}
}

// Model names the embedding space, which depends on the dimension count.
func (e *HashingEmbedder) Model() string {
	return fmt.Sprintf("hashing-%d", e.Dimensions)
}

// Embed returns one vector per text. Texts without words map to nil.
func (e *HashingEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.vector(text)
	}
	return out, nil
}

func (e *HashingEmbedder) vector(text string) []float64 {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return nil
	}

	v := make([]float64, e.Dimensions)
	for i, w := range words {
		e.add(v, w, 1)
		if i > 0 {
			e.add(v, words[i-1]+" "+w, 0.5)
		}
	}

	norm := 0.0
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return nil
	}
	for i := range v {
		v[i] /= norm
	}
	return v
}

// add hashes feature into a bucket. A second hash bit picks the sign so
// collisions cancel out on average.
func (e *HashingEmbedder) add(v []float64, feature string, weight float64) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()
	bucket := int(sum % uint64(e.Dimensions))
	if sum>>63 == 1 {
		weight = -weight
	}
	v[bucket] += weight
}

var _ core.Embedder = (*HashingEmbedder)(nil)
