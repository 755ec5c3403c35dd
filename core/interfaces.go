// Package core defines the pipeline contracts for Stampify.
// Each stage of the pipeline is a clean, testable interface; the data that
// flows between stages lives here too.
package core

import (
	"context"
	"errors"

	"github.com/gaurav-prasanna/stampify/core/stamp"
)

// ErrInvalidURL is returned when a URL has no scheme or host.
var ErrInvalidURL = errors.New("invalid URL")

// FetchResult holds the raw HTML and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
}

// ContentType is the kind of an extracted content item.
type ContentType string

const (
	ContentTitle ContentType = "title"
	ContentText  ContentType = "text"
	ContentQuote ContentType = "quote"
	ContentImage ContentType = "image"
	ContentEmbed ContentType = "embed"
)

// ContentItem is one typed block of the source page, in document order.
type ContentItem struct {
	Type ContentType `json:"type"`
	// Text is the plain text of titles, paragraphs and quotes, and the
	// caption (alt, title or figcaption) of media.
	Text string `json:"text,omitempty"`
	// Markdown is the normalised body of quotes.
	Markdown string `json:"markdown,omitempty"`
	URL      string `json:"url,omitempty"`
	Level    int    `json:"level,omitempty"` // heading level for titles
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	IsGIF    bool   `json:"is_gif,omitempty"`
}

// PageMetadata holds metadata extracted from the page and URL.
type PageMetadata struct {
	URL       string `json:"url"`
	Domain    string `json:"domain"`
	Title     string `json:"title"`
	SiteName  string `json:"site_name,omitempty"`
	Excerpt   string `json:"excerpt,omitempty"`
	Image     string `json:"image,omitempty"`
	LogoURL   string `json:"logo_url,omitempty"`
	Language  string `json:"language"`
	FetchedAt string `json:"fetched_at"` // ISO8601
}

// Contents is the extractor output: metadata plus ordered content items.
type Contents struct {
	Metadata PageMetadata  `json:"metadata"`
	Items    []ContentItem `json:"items"`
}

// Count returns how many items of type t the page has.
func (c *Contents) Count(t ContentType) int {
	n := 0
	for _, item := range c.Items {
		if item.Type == t {
			n++
		}
	}
	return n
}

// StampPage is one renderable slide of the story.
type StampPage struct {
	Kind      stamp.PageKind `json:"kind"`
	Title     string         `json:"title,omitempty"`
	Text      string         `json:"text,omitempty"`
	Quote     string         `json:"quote,omitempty"`
	MediaURL  string         `json:"media_url,omitempty"`
	Caption   string         `json:"caption,omitempty"`
	EmbedURL  string         `json:"embed_url,omitempty"`
	Position  float64        `json:"position"`
	Sentences []int          `json:"sentences,omitempty"` // summary sentences the page covers
}

// Story is the final ordered sequence of stamp pages for one webpage.
type Story struct {
	ID               string       `json:"id"`
	Metadata         PageMetadata `json:"metadata"`
	Pages            []StampPage  `json:"pages"`
	Summary          []string     `json:"summary"`
	CoveredSentences int          `json:"covered_sentences"`
	Candidates       int          `json:"candidates"`
}

// Fetcher retrieves raw HTML from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Extractor turns raw HTML into ordered, typed content items.
type Extractor interface {
	Extract(rawURL, html string) (*Contents, error)
}

// Normalizer converts an HTML fragment into Markdown.
type Normalizer interface {
	Normalize(html string) (string, error)
}

// Embedder generates vector embeddings for text inputs, one per input and
// in input order. Empty inputs map to nil vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	// Model identifies the embedding space, e.g. for cache keys.
	Model() string
}

// Renderer converts a story into a final output format.
type Renderer interface {
	Render(story *Story) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".html", ".pdf").
	Extension() string
}
