// Package chunk splits page text into sentences for summarization.
// Splitting is rule based: terminal punctuation followed by whitespace and
// an upper-case letter, digit or opening quote ends a sentence, unless the
// token before it is a known abbreviation or a single initial. Line breaks
// always end a sentence. Runaway sentences are cut into ChunkSize-word pieces.
package chunk

import (
	"strings"
	"unicode"
)

const defaultChunkSize = 80

var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true, "sr": true, "jr": true,
	"st": true, "mt": true, "vs": true, "etc": true, "inc": true, "ltd": true, "co": true,
	"corp": true, "no": true, "fig": true, "gen": true, "gov": true, "sen": true, "rep": true,
	"jan": true, "feb": true, "mar": true, "apr": true, "jun": true, "jul": true, "aug": true,
	"sep": true, "sept": true, "oct": true, "nov": true, "dec": true,
	"e.g": true, "i.e": true, "u.s": true, "u.k": true, "a.m": true, "p.m": true,
}

// Chunker splits text into sentences of at most ChunkSize words.
type Chunker struct {
	ChunkSize int // maximum words per sentence
}

// New creates a Chunker with the given chunk size.
// Defaults to 80 if chunkSize <= 0.
func New(chunkSize int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &Chunker{ChunkSize: chunkSize}
}

// Sentences splits text with the default chunk size.
func Sentences(text string) []string {
	return New(0).Sentences(text)
}

// Sentences splits the input text into trimmed, whitespace-collapsed
// sentences in order. Blank input yields nil.
func (c *Chunker) Sentences(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		for _, s := range splitLine(line) {
			out = append(out, c.cap(s)...)
		}
	}
	return out
}

// Chunk splits text into contiguous pieces of at most ChunkSize words.
func (c *Chunker) Chunk(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	for i := 0; i < len(words); i += c.ChunkSize {
		end := min(i+c.ChunkSize, len(words))
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

func (c *Chunker) cap(sentence string) []string {
	if len(strings.Fields(sentence)) <= c.ChunkSize {
		return []string{sentence}
	}
	return c.Chunk(sentence)
}

func splitLine(line string) []string {
	runes := []rune(strings.Join(strings.Fields(line), " "))
	var out []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		end := i + 1
		for end < len(runes) && (isTerminal(runes[end]) || isCloser(runes[end])) {
			end++
		}
		if end < len(runes) && (runes[end] != ' ' || end+1 >= len(runes) || !opensSentence(runes[end+1])) {
			i = end - 1
			continue
		}
		if runes[i] == '.' && isAbbreviation(runes[start:i]) {
			i = end - 1
			continue
		}
		out = appendTrimmed(out, string(runes[start:end]))
		start = end
		i = end - 1
	}
	return appendTrimmed(out, string(runes[start:]))
}

// isAbbreviation reports whether the word ending the fragment is an
// abbreviation or an initial such as "J".
func isAbbreviation(fragment []rune) bool {
	s := string(fragment)
	if i := strings.LastIndexByte(s, ' '); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimLeftFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	if s == "" {
		return false
	}
	r := []rune(s)
	if len(r) == 1 && unicode.IsUpper(r[0]) {
		return true
	}
	return abbreviations[strings.ToLower(s)]
}

func appendTrimmed(out []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		out = append(out, s)
	}
	return out
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '…'
}

func isCloser(r rune) bool {
	return r == '"' || r == '\'' || r == ')' || r == ']' || r == '”' || r == '’' || r == '»'
}

func opensSentence(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsDigit(r) || r == '"' || r == '\'' || r == '“' || r == '‘' || r == '(' || r == '«'
}
