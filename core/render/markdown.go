// Package render provides output renderers for Stampify stories.
// This file implements the Markdown renderer: one section per stamp page,
// separated by horizontal rules.
package render

import (
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/stampify/core"
	"github.com/gaurav-prasanna/stampify/core/stamp"
)

// MarkdownRenderer writes a story as Markdown.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render converts the story into Markdown bytes.
func (r *MarkdownRenderer) Render(story *core.Story) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", storyTitle(story))
	fmt.Fprintf(&b, "_Source: %s_\n", story.Metadata.URL)

	for i, page := range story.Pages {
		b.WriteString("\n---\n\n")
		fmt.Fprintf(&b, "<!-- page %d: %s -->\n\n", i+1, page.Kind)

		if page.Title != "" {
			fmt.Fprintf(&b, "## %s\n\n", page.Title)
		}
		switch page.Kind {
		case stamp.Quoted:
			b.WriteString(blockquote(page.Quote))
			b.WriteString("\n")
		case stamp.Embedded:
			fmt.Fprintf(&b, "[%s](%s)\n", linkText(page.Caption, "Embedded media"), page.EmbedURL)
		default:
			if page.MediaURL != "" {
				fmt.Fprintf(&b, "![%s](%s)\n\n", page.Caption, page.MediaURL)
			}
			if page.Text != "" {
				b.WriteString(page.Text)
				b.WriteString("\n")
			}
		}
	}
	return []byte(b.String()), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

// blockquote prefixes every line with "> " unless the text already is a quote.
func blockquote(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, ">") {
		return text + "\n"
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n") + "\n"
}

func storyTitle(story *core.Story) string {
	if story.Metadata.Title != "" {
		return story.Metadata.Title
	}
	if story.Metadata.Domain != "" {
		return story.Metadata.Domain
	}
	return "Untitled story"
}

func linkText(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
