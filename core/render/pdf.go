// Package render — PDF renderer.
// Lays a story out with gofpdf: a cover page, then one page per stamp page.
// Media is referenced by caption and URL rather than embedded, so rendering
// needs no network access.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/stampify/core"
	"github.com/gaurav-prasanna/stampify/core/stamp"
)

// PDFRenderer renders a story as a PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render converts the story into PDF bytes.
func (r *PDFRenderer) Render(story *core.Story) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Cover.
	pdf.AddPage()
	pdf.Ln(40)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.MultiCell(0, 9, tr(storyTitle(story)), "", "C", false)
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, tr("Source: "+story.Metadata.URL), "", "C", false)
	pdf.SetTextColor(0, 0, 0)

	for i, page := range story.Pages {
		pdf.AddPage()
		renderStampPage(pdf, tr, page, i+1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func renderStampPage(pdf *gofpdf.Fpdf, tr func(string) string, page core.StampPage, number int) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("%d · %s", number, page.Kind)), "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(20)

	if page.Title != "" {
		pdf.SetFont("Helvetica", "B", 15)
		pdf.MultiCell(0, 8, tr(cleanInlineMarkdown(page.Title)), "", "L", false)
		pdf.Ln(3)
	}

	switch page.Kind {
	case stamp.Quoted:
		pdf.SetFont("Helvetica", "I", 14)
		pdf.SetLeftMargin(20)
		pdf.MultiCell(0, 7, tr(cleanInlineMarkdown(unquote(page.Quote))), "L", "L", false)
		pdf.SetLeftMargin(10)
	case stamp.Embedded:
		mediaBox(pdf, tr, "Embedded media", page.Caption, page.EmbedURL)
	default:
		if page.MediaURL != "" {
			mediaBox(pdf, tr, "Image", page.Caption, page.MediaURL)
			pdf.Ln(4)
		}
		if page.Text != "" {
			pdf.SetFont("Helvetica", "", 12)
			pdf.MultiCell(0, 6, tr(cleanInlineMarkdown(page.Text)), "", "L", false)
		}
	}
}

// mediaBox draws a shaded placeholder naming the media and linking to it.
func mediaBox(pdf *gofpdf.Fpdf, tr func(string) string, label, caption, link string) {
	pdf.SetFillColor(235, 235, 235)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.MultiCell(0, 6, tr(label), "", "L", true)
	if caption != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(caption), "", "L", true)
	}
	pdf.SetFont("Helvetica", "U", 8)
	pdf.SetTextColor(40, 80, 160)
	pdf.WriteLinkString(5, tr(link), link)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)
}

var (
	italicRe = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	codeRe   = regexp.MustCompile("`([^`]+)`")
	linkRe   = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
)

// cleanInlineMarkdown strips inline Markdown formatting for PDF rendering.
func cleanInlineMarkdown(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = italicRe.ReplaceAllString(text, " $1 ")
	text = codeRe.ReplaceAllString(text, "$1")
	text = linkRe.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
