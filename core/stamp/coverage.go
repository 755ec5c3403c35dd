package stamp

import "math/bits"

// Coverage is a fixed-size bitset over summary sentence indices.
type Coverage struct {
	words []uint64
	size  int
}

// NewCoverage returns an all-zero coverage over n sentences.
func NewCoverage(n int) Coverage {
	if n < 0 {
		n = 0
	}
	return Coverage{words: make([]uint64, (n+63)/64), size: n}
}

// Len is the number of sentences the coverage spans.
func (c Coverage) Len() int { return c.size }

// Set marks sentence i as covered.
func (c Coverage) Set(i int) {
	c.words[i/64] |= 1 << (uint(i) % 64)
}

// Has reports whether sentence i is covered.
func (c Coverage) Has(i int) bool {
	return c.words[i/64]&(1<<(uint(i)%64)) != 0
}

// Count returns the number of covered sentences.
func (c Coverage) Count() int {
	n := 0
	for _, w := range c.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Or merges other into c. Both must span the same sentences.
func (c Coverage) Or(other Coverage) {
	for i := range c.words {
		c.words[i] |= other.words[i]
	}
}

// CountNew returns how many sentences other covers that c does not.
func (c Coverage) CountNew(other Coverage) int {
	n := 0
	for i := range c.words {
		n += bits.OnesCount64(other.words[i] &^ c.words[i])
	}
	return n
}

// Clone returns an independent copy.
func (c Coverage) Clone() Coverage {
	words := make([]uint64, len(c.words))
	copy(words, c.words)
	return Coverage{words: words, size: c.size}
}

// Indices lists the covered sentence indices in ascending order.
func (c Coverage) Indices() []int {
	out := make([]int, 0, c.Count())
	for i := 0; i < c.size; i++ {
		if c.Has(i) {
			out = append(out, i)
		}
	}
	return out
}
