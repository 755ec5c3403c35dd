// Package extract implements the Extractor interface.
// It isolates the article from a full HTML page and walks it in document
// order, emitting typed content items:
//  1. go-readability finds the article body (fallback: <main>, <article>
//     or <body> after noise removal)
//  2. a goquery walk emits titles, text, quotes, images and embeds
package extract

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/gaurav-prasanna/stampify/core"
)

// noiseSelectors are HTML elements removed before the fallback walk.
// Media stays: images and embeds are stamp material.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "footer", "header",
	"svg", "canvas",
	"form", "button", "input", "select", "textarea",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
}

// walkSelector lists every element the walk turns into an item.
const walkSelector = "h1,h2,h3,p,li,blockquote,q,img,iframe,video,embed"

// socialEmbedClasses mark blockquotes that are rendered as third-party embeds.
var socialEmbedClasses = []string{"twitter-tweet", "instagram-media", "tiktok-embed"}

const logoService = "https://logo.clearbit.com/"

// HTMLExtractor turns raw HTML into ordered content items.
type HTMLExtractor struct {
	normalizer core.Normalizer
	now        func() time.Time
}

// New creates an HTMLExtractor. When normalizer is non-nil, quote bodies
// are converted to Markdown with it.
func New(normalizer core.Normalizer) *HTMLExtractor {
	return &HTMLExtractor{normalizer: normalizer, now: time.Now}
}

// Extract parses html fetched from rawURL.
func (e *HTMLExtractor) Extract(rawURL, html string) (*core.Contents, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil || pageURL.Host == "" {
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidURL, rawURL)
	}

	page, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	meta := core.PageMetadata{
		URL:       rawURL,
		Domain:    domainOf(pageURL),
		Title:     collapse(page.Find("title").First().Text()),
		Language:  strings.ToLower(strings.TrimSpace(page.Find("html").AttrOr("lang", ""))),
		FetchedAt: e.now().UTC().Format(time.RFC3339),
	}
	meta.LogoURL = logoService + meta.Domain

	body, err := e.articleBody(html, pageURL, page, &meta)
	if err != nil {
		return nil, err
	}

	contents := &core.Contents{Metadata: meta, Items: e.walk(body, pageURL)}
	if contents.Metadata.Language == "" {
		contents.Metadata.Language = DetectLanguage(plainText(contents.Items))
	} else if i := strings.IndexAny(contents.Metadata.Language, "-_"); i > 0 {
		contents.Metadata.Language = contents.Metadata.Language[:i]
	}
	return contents, nil
}

// articleBody returns the selection to walk. Readability output wins when it
// has any content; its metadata fills in what the page head lacked.
func (e *HTMLExtractor) articleBody(html string, pageURL *url.URL, page *goquery.Document, meta *core.PageMetadata) (*goquery.Selection, error) {
	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(html), pageURL)
	if err == nil && strings.TrimSpace(article.Content) != "" {
		if t := collapse(article.Title); t != "" {
			meta.Title = t
		}
		meta.SiteName = collapse(article.SiteName)
		meta.Excerpt = collapse(article.Excerpt)
		meta.Image = article.Image

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
		if err != nil {
			return nil, fmt.Errorf("parsing article: %w", err)
		}
		return doc.Selection, nil
	}

	for _, sel := range noiseSelectors {
		page.Find(sel).Remove()
	}
	for _, tag := range []string{"main", "article", "body"} {
		if sel := page.Find(tag); sel.Length() > 0 {
			return sel.First(), nil
		}
	}
	return nil, fmt.Errorf("no content container found in HTML")
}

// walk emits one item per content element in document order. Elements nested
// inside an element that already produced an item are skipped.
func (e *HTMLExtractor) walk(root *goquery.Selection, base *url.URL) []core.ContentItem {
	var items []core.ContentItem
	root.Find(walkSelector).Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		if tag != "img" && s.ParentsFiltered("blockquote,q").Length() > 0 {
			return
		}
		if tag == "img" && s.ParentsFiltered("blockquote").Length() > 0 {
			return
		}
		// Inline quotes are already part of their paragraph's text.
		if tag == "q" && s.ParentsFiltered("p,li").Length() > 0 {
			return
		}

		switch tag {
		case "h1", "h2", "h3":
			if text := collapse(s.Text()); text != "" {
				level, _ := strconv.Atoi(tag[1:])
				items = append(items, core.ContentItem{Type: core.ContentTitle, Text: text, Level: level})
			}
		case "p", "li":
			if tag == "li" && s.Find("p").Length() > 0 {
				return
			}
			if text := collapse(s.Text()); text != "" {
				items = append(items, core.ContentItem{Type: core.ContentText, Text: text})
			}
		case "blockquote", "q":
			if item, ok := socialEmbed(s, base); ok {
				items = append(items, item)
				return
			}
			if text := collapse(s.Text()); text != "" {
				items = append(items, core.ContentItem{Type: core.ContentQuote, Text: text, Markdown: e.quoteMarkdown(s, text)})
			}
		case "img":
			if item, ok := image(s, base); ok {
				items = append(items, item)
			}
		case "iframe", "video", "embed":
			if item, ok := embed(s, base); ok {
				items = append(items, item)
			}
		}
	})
	return items
}

func (e *HTMLExtractor) quoteMarkdown(s *goquery.Selection, text string) string {
	if e.normalizer == nil {
		return text
	}
	inner, err := s.Html()
	if err != nil {
		return text
	}
	md, err := e.normalizer.Normalize(inner)
	if err != nil || strings.TrimSpace(md) == "" {
		return text
	}
	return strings.TrimSpace(md)
}

func image(s *goquery.Selection, base *url.URL) (core.ContentItem, bool) {
	src := s.AttrOr("src", "")
	if src == "" || strings.HasPrefix(src, "data:") {
		src = s.AttrOr("data-src", "")
	}
	abs := resolve(base, src)
	if abs == "" {
		return core.ContentItem{}, false
	}

	caption := collapse(s.AttrOr("alt", ""))
	if caption == "" {
		caption = collapse(s.AttrOr("title", ""))
	}
	if caption == "" {
		caption = collapse(s.Closest("figure").Find("figcaption").First().Text())
	}

	width, _ := strconv.Atoi(s.AttrOr("width", ""))
	height, _ := strconv.Atoi(s.AttrOr("height", ""))
	return core.ContentItem{
		Type:   core.ContentImage,
		Text:   caption,
		URL:    abs,
		Width:  width,
		Height: height,
		IsGIF:  strings.HasSuffix(strings.ToLower(stripQuery(abs)), ".gif"),
	}, true
}

func embed(s *goquery.Selection, base *url.URL) (core.ContentItem, bool) {
	src := s.AttrOr("src", "")
	if src == "" {
		src = s.Find("source").First().AttrOr("src", "")
	}
	abs := resolve(base, src)
	if abs == "" {
		return core.ContentItem{}, false
	}
	return core.ContentItem{
		Type: core.ContentEmbed,
		Text: collapse(s.AttrOr("title", "")),
		URL:  abs,
	}, true
}

func socialEmbed(s *goquery.Selection, base *url.URL) (core.ContentItem, bool) {
	for _, class := range socialEmbedClasses {
		if !s.HasClass(class) {
			continue
		}
		href := s.AttrOr("cite", "")
		if href == "" {
			href = s.AttrOr("data-instgrm-permalink", "")
		}
		if href == "" {
			href = s.Find("a[href]").Last().AttrOr("href", "")
		}
		return core.ContentItem{
			Type: core.ContentEmbed,
			Text: collapse(s.Text()),
			URL:  resolve(base, href),
		}, true
	}
	return core.ContentItem{}, false
}

// resolve makes ref absolute against base. Non-http results are dropped.
func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(u)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	return abs.String()
}

func domainOf(u *url.URL) string {
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func stripQuery(raw string) string {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		return raw[:i]
	}
	return raw
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func plainText(items []core.ContentItem) string {
	var sb strings.Builder
	for _, item := range items {
		switch item.Type {
		case core.ContentTitle, core.ContentText, core.ContentQuote:
			sb.WriteString(item.Text)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
