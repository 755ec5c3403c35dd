package stamp

import "errors"

var (
	// ErrInvalidOptions is returned before selection starts when the
	// budget, threshold or decay settings are out of range.
	ErrInvalidOptions = errors.New("invalid selection options")

	// ErrMalformedCandidate is returned when a candidate has neither a media
	// nor a sentence position.
	ErrMalformedCandidate = errors.New("malformed candidate page")

	// ErrDimensionMismatch is returned when descriptor and sentence
	// embeddings do not share a dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
