package stamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unit returns the i-th basis vector of length n.
func unit(n, i int) []float64 {
	v := make([]float64, n)
	v[i] = 1
	return v
}

func textPage(pos int, descriptor []float64) CandidatePage {
	return CandidatePage{Kind: TextOnly, MediaPosition: NoPosition, SentencePosition: pos, Descriptor: descriptor}
}

func sentencesOf(n int) []SummarySentence {
	out := make([]SummarySentence, n)
	for i := range out {
		out[i] = SummarySentence{Text: "s", Position: i, Embedding: unit(n, i)}
	}
	return out
}

func TestBuildCovers_Threshold(t *testing.T) {
	sentences := sentencesOf(4)
	candidates := []CandidatePage{
		textPage(0, []float64{1, 1, 1, 1}), // cos 0.5 with every sentence
		textPage(1, []float64{1, 0, 0, 0}),
		textPage(2, []float64{1, 1, 0, 0}), // cos ~0.707 with sentences 0 and 1
	}

	covers, err := BuildCovers(candidates, sentences, 0.5)
	require.NoError(t, err)
	require.Len(t, covers, 3)

	assert.Equal(t, []int{0, 1, 2, 3}, covers[0].Bits.Indices())
	assert.Equal(t, []int{0}, covers[1].Bits.Indices())
	assert.Equal(t, []int{0, 1}, covers[2].Bits.Indices())

	covers, err = BuildCovers(candidates, sentences, 0.6)
	require.NoError(t, err)
	assert.Empty(t, covers[0].Bits.Indices())
	assert.Equal(t, []int{0, 1}, covers[2].Bits.Indices())
}

func TestBuildCovers_CostsAndIndices(t *testing.T) {
	candidates := []CandidatePage{
		textPage(0, nil),
		{Kind: MediaWithTextAndTitle, MediaPosition: 3, SentencePosition: 4},
	}
	covers, err := BuildCovers(candidates, nil, 0.5)
	require.NoError(t, err)
	require.Len(t, covers, 2)

	assert.Equal(t, 0, covers[0].Index)
	assert.Equal(t, 1.0, covers[0].Cost)
	assert.Equal(t, 1, covers[1].Index)
	assert.Equal(t, 20.0, covers[1].Cost)
	assert.Equal(t, 0, covers[1].Bits.Len(), "no sentences gives an all-zero cover")
}

func TestBuildCovers_Deterministic(t *testing.T) {
	sentences := sentencesOf(5)
	candidates := []CandidatePage{
		textPage(0, []float64{0.9, 0.1, 0, 0.3, 0}),
		textPage(1, []float64{0, 0.2, 0.8, 0.1, 0.7}),
	}
	first, err := BuildCovers(candidates, sentences, 0.4)
	require.NoError(t, err)
	second, err := BuildCovers(candidates, sentences, 0.4)
	require.NoError(t, err)

	for i := range first {
		assert.Equal(t, first[i].Bits.Indices(), second[i].Bits.Indices())
	}
}

func TestBuildCovers_Empty(t *testing.T) {
	covers, err := BuildCovers(nil, sentencesOf(3), 0.5)
	require.NoError(t, err)
	assert.Empty(t, covers)
}

func TestBuildCovers_Errors(t *testing.T) {
	tests := []struct {
		name       string
		candidates []CandidatePage
		sentences  []SummarySentence
		wantErr    error
	}{
		{
			name: "candidate without any position",
			candidates: []CandidatePage{
				textPage(0, nil),
				{Kind: MediaOnly, MediaPosition: NoPosition, SentencePosition: NoPosition},
			},
			wantErr: ErrMalformedCandidate,
		},
		{
			name:       "descriptor dimension differs from sentences",
			candidates: []CandidatePage{textPage(0, []float64{1, 0})},
			sentences:  sentencesOf(3),
			wantErr:    ErrDimensionMismatch,
		},
		{
			name:       "descriptors disagree with each other",
			candidates: []CandidatePage{textPage(0, []float64{1, 0}), textPage(1, []float64{1, 0, 0})},
			wantErr:    ErrDimensionMismatch,
		},
		{
			name: "sentences disagree with each other",
			candidates: []CandidatePage{
				textPage(0, nil),
			},
			sentences: []SummarySentence{{Embedding: []float64{1}}, {Embedding: []float64{1, 0}}},
			wantErr:   ErrDimensionMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			covers, err := BuildCovers(tt.candidates, tt.sentences, 0.5)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, covers)
		})
	}
}
