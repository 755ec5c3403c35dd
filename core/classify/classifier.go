// Package classify decides whether a page has enough material for a story.
package classify

import (
	"errors"
	"fmt"

	"github.com/gaurav-prasanna/stampify/core"
)

// ErrNotStampifiable is the sentinel wrapped by NotStampifiableError.
var ErrNotStampifiable = errors.New("website is not stampifiable")

// Counts are the content totals the decision is made on.
type Counts struct {
	Text     int `json:"text"`
	Title    int `json:"title"`
	Media    int `json:"media"`
	Embedded int `json:"embedded"`
	Quoted   int `json:"quoted"`
}

// Score is the number of pages the content could fill. Text and titles
// compete with media because unused sentences end up on media pages.
func (c Counts) Score() int {
	return max(max(c.Text, c.Title), c.Media) + c.Embedded + c.Quoted
}

// NotStampifiableError reports a page that falls short of MinPages.
type NotStampifiableError struct {
	Source   string
	Counts   Counts
	MinPages int
}

func (e *NotStampifiableError) Error() string {
	return fmt.Sprintf("%s: %d possible pages, need %d (source: %s)",
		ErrNotStampifiable, e.Counts.Score(), e.MinPages, e.Source)
}

func (e *NotStampifiableError) Unwrap() error { return ErrNotStampifiable }

// Classifier gates the pipeline on content counts.
type Classifier struct {
	MaxPages int
}

// New creates a Classifier for stories of at most maxPages pages.
func New(maxPages int) *Classifier {
	return &Classifier{MaxPages: maxPages}
}

// MinPages is the smallest acceptable story, half the page budget.
func (c *Classifier) MinPages() int {
	return c.MaxPages / 2
}

// CountContents tallies the item types of contents.
func CountContents(contents *core.Contents) Counts {
	return Counts{
		Text:     contents.Count(core.ContentText),
		Title:    contents.Count(core.ContentTitle),
		Media:    contents.Count(core.ContentImage),
		Embedded: contents.Count(core.ContentEmbed),
		Quoted:   contents.Count(core.ContentQuote),
	}
}

// Classify returns the counts of contents, and a *NotStampifiableError when
// they cannot fill MinPages pages.
func (c *Classifier) Classify(contents *core.Contents) (Counts, error) {
	counts := CountContents(contents)
	if counts.Score() < c.MinPages() {
		return counts, &NotStampifiableError{Source: "classifier", Counts: counts, MinPages: c.MinPages()}
	}
	return counts, nil
}
