package stamp

import "fmt"

// Round records one pick of a selection run.
type Round struct {
	Round       int                `json:"round"`
	Index       int                `json:"index"`
	Kind        PageKind           `json:"kind"`
	Score       float64            `json:"score"`
	Terms       map[string]float64 `json:"terms,omitempty"`
	Covered     int                `json:"covered"`
	SweepTarget float64            `json:"sweep_target"`
	Seed        bool               `json:"seed,omitempty"`
}

// Result is the outcome of a selection run.
type Result struct {
	Pages     []CandidatePage
	Indices   []int
	Rounds    []Round
	Covered   int
	Sentences int
}

// Sequencer greedily picks an ordered subset of candidate pages.
type Sequencer struct {
	opts   Options
	scorer *Scorer
}

// NewSequencer returns a Sequencer using the built-in scorer.
func NewSequencer(opts Options) *Sequencer {
	return &Sequencer{opts: opts, scorer: NewScorer(opts.Weights)}
}

// WithScorer swaps the scorer, e.g. one with extra registered terms.
func (s *Sequencer) WithScorer(scorer *Scorer) *Sequencer {
	s.scorer = scorer
	return s
}

// Run selects at most MaxPages candidates. The first candidate seeds the
// sequence unconditionally; each later round takes the highest scoring
// candidate still available, the lowest index winning ties.
func (s *Sequencer) Run(candidates []CandidatePage, sentences []SummarySentence) (*Result, error) {
	if err := s.opts.Validate(); err != nil {
		return nil, err
	}
	covers, err := BuildCovers(candidates, sentences, s.opts.Threshold)
	if err != nil {
		return nil, fmt.Errorf("building covers: %w", err)
	}

	res := &Result{Sentences: len(sentences)}
	if len(candidates) == 0 {
		return res, nil
	}

	st := NewSelectionState(candidates, covers, len(sentences))

	// Seed.
	st.pick(0)
	res.Rounds = append(res.Rounds, Round{
		Round:       st.Round,
		Index:       0,
		Kind:        candidates[0].Kind,
		Covered:     st.Picked.Count(),
		SweepTarget: st.SweepTarget,
		Seed:        true,
	})
	st.SweepTarget -= s.opts.Sweep.decrement(st.Round)

	for st.Round < s.opts.MaxPages && st.Remaining() > 0 {
		best, bestScore := -1, 0.0
		for i := range candidates {
			if !st.Available(i) {
				continue
			}
			score := s.scorer.Score(st, i)
			if best == -1 || score > bestScore {
				best, bestScore = i, score
			}
		}

		terms := s.scorer.Breakdown(st, best)
		target := st.SweepTarget
		st.pick(best)
		res.Rounds = append(res.Rounds, Round{
			Round:       st.Round,
			Index:       best,
			Kind:        candidates[best].Kind,
			Score:       bestScore,
			Terms:       terms,
			Covered:     st.Picked.Count(),
			SweepTarget: target,
		})
		st.SweepTarget -= s.opts.Sweep.decrement(st.Round)
	}

	res.Indices = st.Sequence
	res.Pages = make([]CandidatePage, len(st.Sequence))
	for i, idx := range st.Sequence {
		res.Pages[i] = candidates[idx]
	}
	res.Covered = st.Picked.Count()
	return res, nil
}

// SelectSequence picks and orders stamp pages for one conversion. It is
// deterministic for fixed inputs.
func SelectSequence(candidates []CandidatePage, sentences []SummarySentence, opts Options) ([]CandidatePage, error) {
	res, err := NewSequencer(opts).Run(candidates, sentences)
	if err != nil {
		return nil, err
	}
	return res.Pages, nil
}
