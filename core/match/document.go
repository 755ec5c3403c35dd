// Package match turns extracted contents and their summary into candidate
// stamp pages, pairing media with nearby summary sentences.
package match

import (
	"github.com/gaurav-prasanna/stampify/core"
	"github.com/gaurav-prasanna/stampify/core/chunk"
	"github.com/gaurav-prasanna/stampify/core/summarize"
)

// Document is the sentence view of a page. Sentence ordinals are the
// positions candidate pages are anchored to.
type Document struct {
	// Sentences are the sentences of every text item, in order.
	Sentences []string
	// Before[i] counts the sentences preceding item i.
	Before []int
	// Summary is the subset of Sentences kept by the summarizer.
	Summary []summarize.Sentence
}

// NewDocument splits the text items of contents into sentences.
func NewDocument(contents *core.Contents, chunker *chunk.Chunker) *Document {
	doc := &Document{Before: make([]int, len(contents.Items))}
	for i, item := range contents.Items {
		doc.Before[i] = len(doc.Sentences)
		if item.Type == core.ContentText {
			doc.Sentences = append(doc.Sentences, chunker.Sentences(item.Text)...)
		}
	}
	return doc
}
