package stamp

import "math"

// SelectionState is the running state of one selection. Candidates and
// Covers form an immutable arena; picking a page flips its availability bit
// instead of reshaping the pool.
type SelectionState struct {
	Candidates  []CandidatePage
	Covers      []Cover
	Picked      Coverage
	Last        int
	SweepTarget float64
	Round       int
	Sequence    []int

	available []bool
	remaining int
}

// NewSelectionState prepares a state over the candidate arena. The sweeping
// target starts at the furthest valid position in the document.
func NewSelectionState(candidates []CandidatePage, covers []Cover, sentences int) *SelectionState {
	st := &SelectionState{
		Candidates: candidates,
		Covers:     covers,
		Picked:     NewCoverage(sentences),
		Last:       -1,
		available:  make([]bool, len(candidates)),
		remaining:  len(candidates),
	}
	for i := range st.available {
		st.available[i] = true
	}
	st.SweepTarget = maxPosition(candidates)
	return st
}

// Available reports whether candidate i can still be picked.
func (st *SelectionState) Available(i int) bool { return st.available[i] }

// Remaining is the number of candidates not yet picked.
func (st *SelectionState) Remaining() int { return st.remaining }

// LastPage returns the most recent pick, if any.
func (st *SelectionState) LastPage() (CandidatePage, bool) {
	if st.Last < 0 {
		return CandidatePage{}, false
	}
	return st.Candidates[st.Last], true
}

// pick moves candidate i from the pool to the end of the sequence and merges
// its coverage.
func (st *SelectionState) pick(i int) {
	st.available[i] = false
	st.remaining--
	st.Sequence = append(st.Sequence, i)
	st.Picked.Or(st.Covers[i].Bits)
	st.Last = i
	st.Round++
}

func maxPosition(candidates []CandidatePage) float64 {
	best := math.Inf(-1)
	for _, c := range candidates {
		if c.HasMedia() && float64(c.MediaPosition) > best {
			best = float64(c.MediaPosition)
		}
		if c.HasSentence() && float64(c.SentencePosition) > best {
			best = float64(c.SentencePosition)
		}
	}
	if math.IsInf(best, -1) {
		return 0
	}
	return best
}
