package stamp

import "fmt"

// Cover is a candidate's coverage over the summary sentences and its cost.
// Covers are index-aligned with the candidate slice they were built from.
type Cover struct {
	Index int
	Bits  Coverage
	Cost  float64
}

// BuildCovers derives each candidate's coverage from the cosine similarity
// between its descriptor and every summary sentence embedding. Sentence i is
// covered when the similarity is at least threshold.
//
// With no candidates the result is empty. With no sentences every candidate
// gets an all-zero cover so its cost is still known.
func BuildCovers(candidates []CandidatePage, sentences []SummarySentence, threshold float64) ([]Cover, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if err := validateCandidates(candidates, sentences); err != nil {
		return nil, err
	}

	covers := make([]Cover, len(candidates))
	for ci, page := range candidates {
		bits := NewCoverage(len(sentences))
		for si, sentence := range sentences {
			if len(page.Descriptor) > 0 && CosineSimilarity(page.Descriptor, sentence.Embedding) >= threshold {
				bits.Set(si)
			}
		}
		covers[ci] = Cover{Index: ci, Bits: bits, Cost: Cost(page.Kind)}
	}
	return covers, nil
}

func validateCandidates(candidates []CandidatePage, sentences []SummarySentence) error {
	dim := 0
	for i, s := range sentences {
		if len(s.Embedding) == 0 {
			continue
		}
		if dim == 0 {
			dim = len(s.Embedding)
		} else if len(s.Embedding) != dim {
			return fmt.Errorf("sentence %d has %d dimensions, want %d: %w", i, len(s.Embedding), dim, ErrDimensionMismatch)
		}
	}

	for i, page := range candidates {
		if !page.Anchored() {
			return fmt.Errorf("candidate %d (%s) has no media or sentence position: %w", i, page.Kind, ErrMalformedCandidate)
		}
		if len(page.Descriptor) == 0 {
			continue
		}
		if dim == 0 {
			dim = len(page.Descriptor)
		} else if len(page.Descriptor) != dim {
			return fmt.Errorf("candidate %d has %d dimensions, want %d: %w", i, len(page.Descriptor), dim, ErrDimensionMismatch)
		}
	}
	return nil
}
