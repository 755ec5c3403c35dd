// Package render — HTML renderer.
// Produces a standalone page with one <section> per stamp page, styled as
// full-screen cards that scroll-snap like a story viewer.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/gaurav-prasanna/stampify/core"
	"github.com/gaurav-prasanna/stampify/core/stamp"
)

const storyTemplate = `<!DOCTYPE html>
<html lang="{{with .Metadata.Language}}{{.}}{{else}}en{{end}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
html, body { margin: 0; height: 100%; font-family: Helvetica, Arial, sans-serif; }
main { height: 100%; overflow-y: scroll; scroll-snap-type: y mandatory; }
section { height: 100%; scroll-snap-align: start; display: flex; flex-direction: column;
  justify-content: center; padding: 2rem; box-sizing: border-box; background: #111; color: #fff; }
section img, section iframe { max-width: 100%; max-height: 60vh; object-fit: contain; align-self: center; }
section blockquote { font-size: 1.6rem; font-style: italic; border-left: 4px solid #fff; padding-left: 1rem; }
.cover img.logo { width: 48px; height: 48px; }
.caption { color: #bbb; font-size: 0.9rem; }
.source { color: #888; font-size: 0.8rem; }
</style>
</head>
<body>
<main>
<section class="cover">
{{with .Metadata.LogoURL}}<img class="logo" src="{{.}}" alt="">{{end}}
<h1>{{.Title}}</h1>
<p class="source">{{.Metadata.Domain}}</p>
</section>
{{range $i, $p := .Pages}}<section class="stamp {{kindClass $p.Kind}}" data-page="{{inc $i}}">
{{with $p.Title}}<h2>{{.}}</h2>{{end}}
{{if quoted $p.Kind}}<blockquote>{{unquote $p.Quote}}</blockquote>
{{else if embedded $p.Kind}}<iframe src="{{$p.EmbedURL}}" title="{{$p.Caption}}" allowfullscreen></iframe>
{{else}}{{with $p.MediaURL}}<img src="{{.}}" alt="{{$p.Caption}}">{{end}}
{{with $p.Caption}}{{if not $p.Text}}<p class="caption">{{.}}</p>{{end}}{{end}}
{{with $p.Text}}<p>{{.}}</p>{{end}}
{{end}}</section>
{{end}}<section class="end">
<p class="source"><a href="{{.Metadata.URL}}" style="color:#fff">Read the full article on {{.Metadata.Domain}}</a></p>
</section>
</main>
</body>
</html>
`

var htmlTemplate = template.Must(template.New("story").Funcs(template.FuncMap{
	"inc":       func(i int) int { return i + 1 },
	"unquote":   unquote,
	"quoted":    func(k stamp.PageKind) bool { return k == stamp.Quoted },
	"embedded":  func(k stamp.PageKind) bool { return k == stamp.Embedded },
	"kindClass": func(k stamp.PageKind) string { return strings.ReplaceAll(strings.ToLower(k.String()), "_", "-") },
}).Parse(storyTemplate))

// HTMLRenderer renders a story as a standalone HTML page.
type HTMLRenderer struct{}

// NewHTMLRenderer creates an HTMLRenderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

type htmlStory struct {
	*core.Story
	Title string
}

// Render executes the story template.
func (r *HTMLRenderer) Render(story *core.Story) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, htmlStory{Story: story, Title: storyTitle(story)}); err != nil {
		return nil, fmt.Errorf("executing HTML template: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for HTML output.
func (r *HTMLRenderer) Extension() string {
	return ".html"
}

// unquote strips Markdown blockquote markers.
func unquote(md string) string {
	lines := strings.Split(strings.TrimSpace(md), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimPrefix(strings.TrimPrefix(l, ">"), " ")
	}
	return strings.Join(lines, "\n")
}
