package stamp

import "math"

// Names of the built-in interestingness terms.
const (
	TermContentTypeChange = "content_type_change"
	TermSentimentChange   = "sentiment_change"
	TermTextualEntailment = "textual_entailment"
	TermContentSimilarity = "content_similarity"
	TermCoverageCostRatio = "coverage_cost_ratio"
	TermSweepDistance     = "sweep_distance"
)

// TermFunc scores moving from the state's last pick to candidate i.
type TermFunc func(st *SelectionState, i int) float64

// Term is one weighted component of the interestingness score.
type Term struct {
	Name   string
	Weight float64
	Func   TermFunc
}

// Scorer computes the interestingness of a transition as a weighted sum of
// named terms, evaluated in registration order.
type Scorer struct {
	terms []Term
}

// NewScorer registers the built-in terms with the given weights.
func NewScorer(w Weights) *Scorer {
	s := &Scorer{}
	s.Register(TermContentTypeChange, w.ContentTypeChange, ContentTypeChange)
	s.Register(TermSentimentChange, w.SentimentChange, SentimentChange)
	s.Register(TermTextualEntailment, w.TextualEntailment, TextualEntailment)
	s.Register(TermContentSimilarity, w.ContentSimilarity, ContentSimilarity)
	s.Register(TermCoverageCostRatio, w.CoverageCostRatio, CoverageCostRatio)
	s.Register(TermSweepDistance, w.SweepDistance, SweepDistance)
	return s
}

// Register adds a term, or replaces the one with the same name in place.
func (s *Scorer) Register(name string, weight float64, fn TermFunc) {
	for i := range s.terms {
		if s.terms[i].Name == name {
			s.terms[i] = Term{Name: name, Weight: weight, Func: fn}
			return
		}
	}
	s.terms = append(s.terms, Term{Name: name, Weight: weight, Func: fn})
}

// Terms returns the registered terms in evaluation order.
func (s *Scorer) Terms() []Term {
	out := make([]Term, len(s.terms))
	copy(out, s.terms)
	return out
}

// Score returns the weighted sum of all terms for candidate i.
func (s *Scorer) Score(st *SelectionState, i int) float64 {
	total := 0.0
	for _, t := range s.terms {
		if t.Weight == 0 {
			continue
		}
		total += t.Weight * t.Func(st, i)
	}
	return total
}

// Breakdown returns each term's weighted contribution for candidate i.
func (s *Scorer) Breakdown(st *SelectionState, i int) map[string]float64 {
	out := make(map[string]float64, len(s.terms))
	for _, t := range s.terms {
		if t.Weight == 0 {
			out[t.Name] = 0
			continue
		}
		out[t.Name] = t.Weight * t.Func(st, i)
	}
	return out
}

// ContentTypeChange rewards alternating layouts: the absolute difference of
// the type ranks of the last pick and the candidate. Zero before any pick.
func ContentTypeChange(st *SelectionState, i int) float64 {
	last, ok := st.LastPage()
	if !ok {
		return 0
	}
	return math.Abs(float64(typeRank(last) - typeRank(st.Candidates[i])))
}

// SentimentChange is reserved until a sentiment signal exists.
func SentimentChange(*SelectionState, int) float64 { return 0 }

// TextualEntailment is reserved until an entailment signal exists.
func TextualEntailment(*SelectionState, int) float64 { return 0 }

// ContentSimilarity penalises near-duplicates of the last pick: it is the
// negated cosine similarity of the two descriptors.
func ContentSimilarity(st *SelectionState, i int) float64 {
	last, ok := st.LastPage()
	if !ok {
		return 0
	}
	return -CosineSimilarity(last.Descriptor, st.Candidates[i].Descriptor)
}

// CoverageCostRatio is the classic budgeted max-cover gain: sentences the
// candidate covers that no pick covers yet, per unit cost.
func CoverageCostRatio(st *SelectionState, i int) float64 {
	cover := st.Covers[i]
	if cover.Cost <= 0 {
		return 0
	}
	return float64(st.Picked.CountNew(cover.Bits)) / cover.Cost
}

// SweepDistance prefers candidates close to the sweeping target so picks
// spread across the document.
func SweepDistance(st *SelectionState, i int) float64 {
	return -math.Abs(st.SweepTarget - st.Candidates[i].ApproxPosition())
}
