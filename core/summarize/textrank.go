// Package summarize picks the summary sentences of a page with TextRank.
//
// Sentences form a graph weighted by word overlap normalised by sentence
// length; PageRank over that graph ranks them. The top ceil(ratio·n)
// sentences are kept, plus, optionally, every sentence naming an entity.
// The summary is returned in document order.
package summarize

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
)

const (
	DefaultDamping       = 0.85
	DefaultMaxIterations = 50
	DefaultTolerance     = 1e-4
)

// ErrInvalidRatio is returned for ratios outside [0, 1].
var ErrInvalidRatio = errors.New("summary ratio must be in [0, 1]")

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true, "be": true,
	"but": true, "by": true, "for": true, "from": true, "had": true, "has": true, "have": true,
	"he": true, "her": true, "his": true, "i": true, "in": true, "is": true, "it": true,
	"its": true, "of": true, "on": true, "or": true, "she": true, "that": true, "the": true,
	"their": true, "they": true, "this": true, "to": true, "was": true, "we": true,
	"were": true, "which": true, "will": true, "with": true, "you": true,
}

// Sentence is a summary sentence and its ordinal among all page sentences.
type Sentence struct {
	Text     string
	Position int
	Score    float64
	Entity   bool // kept because it names an entity
}

// Summarizer ranks sentences with TextRank.
type Summarizer struct {
	Ratio          float64
	RetainEntities bool
	Damping        float64
	MaxIterations  int
	Tolerance      float64
}

// New creates a Summarizer with the default TextRank parameters.
func New(ratio float64, retainEntities bool) (*Summarizer, error) {
	if ratio < 0 || ratio > 1 || math.IsNaN(ratio) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidRatio, ratio)
	}
	return &Summarizer{
		Ratio:          ratio,
		RetainEntities: retainEntities,
		Damping:        DefaultDamping,
		MaxIterations:  DefaultMaxIterations,
		Tolerance:      DefaultTolerance,
	}, nil
}

// Summarize returns the summary of sentences in document order. Position is
// the index into sentences.
func (s *Summarizer) Summarize(sentences []string) []Sentence {
	n := len(sentences)
	if n == 0 {
		return nil
	}

	tokens := make([][]string, n)
	for i, sentence := range sentences {
		tokens[i] = contentWords(sentence)
	}
	scores := s.Rank(tokens)

	keep := int(math.Ceil(s.Ratio * float64(n)))
	keep = max(1, min(keep, n))

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	selected := make([]bool, n)
	for _, i := range order[:keep] {
		selected[i] = true
	}

	var out []Sentence
	for i, sentence := range sentences {
		entity := s.RetainEntities && HasEntity(sentence)
		if !selected[i] && !entity {
			continue
		}
		out = append(out, Sentence{Text: sentence, Position: i, Score: scores[i], Entity: entity && !selected[i]})
	}
	return out
}

// Rank runs PageRank over the overlap graph of tokenized sentences.
func (s *Summarizer) Rank(tokens [][]string) []float64 {
	n := len(tokens)
	weights := make([][]float64, n)
	outSum := make([]float64, n)
	for i := range weights {
		weights[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			w := overlap(tokens[i], tokens[j])
			weights[i][j], weights[j][i] = w, w
			outSum[i] += w
			outSum[j] += w
		}
	}

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1 / float64(n)
	}
	next := make([]float64, n)
	base := (1 - s.Damping) / float64(n)
	for iter := 0; iter < s.MaxIterations; iter++ {
		delta := 0.0
		for i := 0; i < n; i++ {
			sum := 0.0
			for j := 0; j < n; j++ {
				if weights[j][i] > 0 {
					sum += weights[j][i] / outSum[j] * scores[j]
				}
			}
			next[i] = base + s.Damping*sum
			delta = math.Max(delta, math.Abs(next[i]-scores[i]))
		}
		scores, next = next, scores
		if delta < s.Tolerance {
			break
		}
	}
	return scores
}

// overlap is the TextRank similarity: shared words over the summed log
// lengths of both sentences.
func overlap(a, b []string) float64 {
	if len(a) < 2 && len(b) < 2 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, w := range a {
		set[w] = true
	}
	common := 0
	seen := make(map[string]bool, len(b))
	for _, w := range b {
		if set[w] && !seen[w] {
			common++
		}
		seen[w] = true
	}
	denom := math.Log(float64(len(a))) + math.Log(float64(len(b)))
	if common == 0 || denom <= 0 {
		return 0
	}
	return float64(common) / denom
}

// contentWords lower-cases sentence into words, dropping stop words.
func contentWords(sentence string) []string {
	var words []string
	for _, w := range strings.FieldsFunc(strings.ToLower(sentence), isSeparator) {
		if !stopWords[w] {
			words = append(words, w)
		}
	}
	return words
}

// HasEntity reports whether sentence names something: a capitalised word
// past the first, or a number.
func HasEntity(sentence string) bool {
	for i, w := range strings.FieldsFunc(sentence, isSeparator) {
		r := []rune(w)
		if unicode.IsDigit(r[0]) {
			return true
		}
		if i > 0 && unicode.IsUpper(r[0]) && !stopWords[strings.ToLower(w)] && strings.ToUpper(w) != "I" {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
}
