package stamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stateAfterSeed(t *testing.T, candidates []CandidatePage, covers []Cover, sentences int) *SelectionState {
	t.Helper()
	st := NewSelectionState(candidates, covers, sentences)
	st.pick(0)
	return st
}

func TestTypeRank(t *testing.T) {
	assert.Equal(t, 1, typeRank(CandidatePage{IsEmbedded: true, MediaPosition: 2, SentencePosition: NoPosition}))
	assert.Equal(t, 2, typeRank(CandidatePage{MediaPosition: 2, SentencePosition: 3}))
	assert.Equal(t, 3, typeRank(CandidatePage{MediaPosition: 2, SentencePosition: NoPosition}))
	assert.Equal(t, 4, typeRank(CandidatePage{MediaPosition: NoPosition, SentencePosition: 3}))
}

// Two candidates with the same coverage, cost, position and descriptor but a
// different layout: after a text-only pick the media-only one wins.
func TestScorer_PrefersTypeChange(t *testing.T) {
	candidates := []CandidatePage{
		{Kind: TextOnly, MediaPosition: NoPosition, SentencePosition: 0},
		{Kind: TextOnly, MediaPosition: NoPosition, SentencePosition: 5},
		{Kind: MediaOnly, MediaPosition: 5, SentencePosition: NoPosition},
	}
	bits := NewCoverage(3)
	bits.Set(1)
	covers := []Cover{
		{Index: 0, Bits: NewCoverage(3), Cost: 1},
		{Index: 1, Bits: bits.Clone(), Cost: 1},
		{Index: 2, Bits: bits.Clone(), Cost: 1},
	}
	st := stateAfterSeed(t, candidates, covers, 3)
	scorer := NewScorer(UnitWeights())

	textTerms := scorer.Breakdown(st, 1)
	mediaTerms := scorer.Breakdown(st, 2)
	assert.Equal(t, 0.0, textTerms[TermContentTypeChange])
	assert.Equal(t, 1.0, mediaTerms[TermContentTypeChange])
	assert.Equal(t, textTerms[TermCoverageCostRatio], mediaTerms[TermCoverageCostRatio])
	assert.Greater(t, scorer.Score(st, 2), scorer.Score(st, 1))
}

func TestScorer_PenalisesSimilarity(t *testing.T) {
	candidates := []CandidatePage{
		textPage(0, []float64{1, 0}),
		textPage(1, []float64{1, 0}),
		textPage(1, []float64{0, 1}),
	}
	covers, err := BuildCovers(candidates, nil, 0.5)
	require.NoError(t, err)
	st := stateAfterSeed(t, candidates, covers, 0)
	scorer := NewScorer(UnitWeights())

	assert.Equal(t, -1.0, scorer.Breakdown(st, 1)[TermContentSimilarity])
	assert.Equal(t, 0.0, scorer.Breakdown(st, 2)[TermContentSimilarity])
	assert.Greater(t, scorer.Score(st, 2), scorer.Score(st, 1))
}

func TestScorer_CoverageRatioIgnoresPicked(t *testing.T) {
	sentences := sentencesOf(3)
	candidates := []CandidatePage{
		textPage(0, []float64{1, 1, 0}),
		{Kind: Quoted, MediaPosition: NoPosition, SentencePosition: 1, Descriptor: []float64{1, 1, 1}},
	}
	covers, err := BuildCovers(candidates, sentences, 0.5)
	require.NoError(t, err)
	st := stateAfterSeed(t, candidates, covers, 3)

	// Candidate 1 covers all three sentences, two are already picked.
	assert.InDelta(t, 1/2.5, CoverageCostRatio(st, 1), 1e-9)
}

func TestScorer_SweepDistance(t *testing.T) {
	candidates := []CandidatePage{
		textPage(2, nil),
		{Kind: MediaWithText, MediaPosition: 4, SentencePosition: 8},
	}
	covers, err := BuildCovers(candidates, nil, 0.5)
	require.NoError(t, err)
	st := NewSelectionState(candidates, covers, 0)
	assert.Equal(t, 8.0, st.SweepTarget)

	assert.Equal(t, -2.0, SweepDistance(st, 1), "approximate position is the mean of 4 and 8")
	assert.Equal(t, -6.0, SweepDistance(st, 0))
}

func TestScorer_NoLastPick(t *testing.T) {
	candidates := []CandidatePage{textPage(0, []float64{1, 0})}
	covers, err := BuildCovers(candidates, nil, 0.5)
	require.NoError(t, err)
	st := NewSelectionState(candidates, covers, 0)

	assert.Equal(t, 0.0, ContentTypeChange(st, 0))
	assert.Equal(t, 0.0, ContentSimilarity(st, 0))
	assert.Equal(t, 0.0, SentimentChange(st, 0))
	assert.Equal(t, 0.0, TextualEntailment(st, 0))
}

func TestScorer_RegisterAndWeights(t *testing.T) {
	candidates := []CandidatePage{textPage(0, nil), textPage(3, nil)}
	covers, err := BuildCovers(candidates, nil, 0.5)
	require.NoError(t, err)
	st := stateAfterSeed(t, candidates, covers, 0)

	scorer := NewScorer(Weights{})
	assert.Equal(t, 0.0, scorer.Score(st, 1), "all weights zero")

	scorer.Register("constant", 2, func(*SelectionState, int) float64 { return 1.5 })
	assert.Equal(t, 3.0, scorer.Score(st, 1))

	scorer.Register(TermSentimentChange, 1, func(*SelectionState, int) float64 { return 4 })
	assert.Equal(t, 7.0, scorer.Score(st, 1))

	terms := scorer.Terms()
	require.Len(t, terms, 7)
	assert.Equal(t, TermSentimentChange, terms[1].Name, "replacing a term keeps its slot")
	assert.Equal(t, "constant", terms[6].Name)
}
