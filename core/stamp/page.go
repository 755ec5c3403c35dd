package stamp

// NoPosition marks an absent media or sentence position.
const NoPosition = -1

// SummarySentence is one sentence of the page summary.
// Its index in the sentence slice is its order in the document.
type SummarySentence struct {
	Text      string    `json:"text"`
	Position  int       `json:"position"`
	Embedding []float64 `json:"-"`
}

// CandidatePage is a unit of content eligible to become a stamp page.
type CandidatePage struct {
	Kind             PageKind  `json:"kind"`
	MediaPosition    int       `json:"media_position"`
	SentencePosition int       `json:"sentence_position"`
	Descriptor       []float64 `json:"-"`
	IsEmbedded       bool      `json:"is_embedded"`
}

// HasMedia reports whether the page is anchored to a media item.
func (p CandidatePage) HasMedia() bool { return p.MediaPosition != NoPosition }

// HasSentence reports whether the page is anchored to a sentence.
func (p CandidatePage) HasSentence() bool { return p.SentencePosition != NoPosition }

// Anchored reports whether the page points somewhere in the source document.
func (p CandidatePage) Anchored() bool {
	return p.HasMedia() || p.HasSentence()
}

// ApproxPosition is the mean of the page's valid positions.
// Callers must only use it on anchored pages.
func (p CandidatePage) ApproxPosition() float64 {
	sum, n := 0, 0
	if p.HasMedia() {
		sum += p.MediaPosition
		n++
	}
	if p.HasSentence() {
		sum += p.SentencePosition
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// EarliestPosition is the smaller of the page's valid positions.
func (p CandidatePage) EarliestPosition() int {
	switch {
	case p.HasMedia() && p.HasSentence():
		return min(p.MediaPosition, p.SentencePosition)
	case p.HasMedia():
		return p.MediaPosition
	default:
		return p.SentencePosition
	}
}

// typeRank orders page layouts by how content-rich they are. Larger jumps
// between consecutive picks are rewarded.
func typeRank(p CandidatePage) int {
	switch {
	case p.IsEmbedded:
		return 1
	case p.HasMedia() && p.HasSentence():
		return 2
	case p.HasMedia():
		return 3
	default:
		return 4
	}
}
