package extract

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/stampify/core"
)

type upperNormalizer struct{}

func (upperNormalizer) Normalize(html string) (string, error) {
	return "> " + strings.ToUpper(collapse(html)), nil
}

func walkHTML(t *testing.T, e *HTMLExtractor, body string) []core.ContentItem {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	base, err := url.Parse("https://www.example.com/news/story.html")
	require.NoError(t, err)
	return e.walk(doc.Selection, base)
}

func TestWalk_EmitsTypedItemsInOrder(t *testing.T) {
	body := `<div>
<h2>Rising tides</h2>
<p>The harbour flooded twice this year.</p>
<figure><img src="/img/harbour.jpg" width="640" height="480"><figcaption>The harbour at dawn</figcaption></figure>
<blockquote><p>We have never seen water this high.</p></blockquote>
<ul><li>Sandbags ran out.</li><li><p>Roads closed.</p></li></ul>
<iframe src="https://www.youtube.com/embed/abc123" title="Flood footage"></iframe>
<img src="https://cdn.example.com/loop.GIF?w=200" alt="Animated map">
</div>`

	items := walkHTML(t, New(nil), body)
	var types []core.ContentType
	for _, item := range items {
		types = append(types, item.Type)
	}
	assert.Equal(t, []core.ContentType{
		core.ContentTitle, core.ContentText, core.ContentImage, core.ContentQuote,
		core.ContentText, core.ContentText, core.ContentEmbed, core.ContentImage,
	}, types)

	assert.Equal(t, 2, items[0].Level)
	assert.Equal(t, "https://www.example.com/img/harbour.jpg", items[2].URL)
	assert.Equal(t, "The harbour at dawn", items[2].Text)
	assert.Equal(t, 640, items[2].Width)
	assert.False(t, items[2].IsGIF)
	assert.Equal(t, "We have never seen water this high.", items[3].Markdown)
	assert.Equal(t, "Roads closed.", items[5].Text)
	assert.Equal(t, "Flood footage", items[6].Text)
	assert.True(t, items[7].IsGIF)
	assert.Equal(t, "Animated map", items[7].Text)
}

func TestWalk_SocialEmbedBlockquote(t *testing.T) {
	body := `<blockquote class="twitter-tweet"><p>Water everywhere</p>
<a href="https://twitter.com/someone/status/42">March 3</a></blockquote>`

	items := walkHTML(t, New(nil), body)
	require.Len(t, items, 1)
	assert.Equal(t, core.ContentEmbed, items[0].Type)
	assert.Equal(t, "https://twitter.com/someone/status/42", items[0].URL)
}

func TestWalk_QuoteMarkdownUsesNormalizer(t *testing.T) {
	items := walkHTML(t, New(upperNormalizer{}), `<blockquote>stay inside</blockquote>`)
	require.Len(t, items, 1)
	assert.Equal(t, "> STAY INSIDE", items[0].Markdown)
	assert.Equal(t, "stay inside", items[0].Text)
}

func TestWalk_InlineQuoteStaysInParagraph(t *testing.T) {
	body := `<div>
<p>The mayor said <q>we will rebuild</q> before the council met.</p>
<q>Standalone pull quote</q>
</div>`

	items := walkHTML(t, New(nil), body)
	require.Len(t, items, 2)
	assert.Equal(t, core.ContentText, items[0].Type)
	assert.Equal(t, "The mayor said we will rebuild before the council met.", items[0].Text)
	assert.Equal(t, core.ContentQuote, items[1].Type)
	assert.Equal(t, "Standalone pull quote", items[1].Text)
}

func TestWalk_DropsUnresolvableMedia(t *testing.T) {
	items := walkHTML(t, New(nil), `<img src="data:image/png;base64,AAAA"><img src="javascript:void(0)"><iframe></iframe>`)
	assert.Empty(t, items)
}

func TestExtract_Metadata(t *testing.T) {
	paragraph := strings.Repeat("City officials said the flood barriers held through the night, and residents returned home by morning. ", 6)
	page := `<html lang="en-GB"><head><title>Harbour floods | Example News</title></head>
<body><nav><a href="/">Home</a></nav><article>
<h1>Harbour floods</h1>
<p>` + paragraph + `</p>
<p>` + paragraph + `</p>
<img src="/img/harbour.jpg" alt="The harbour">
<p>` + paragraph + `</p>
</article><footer>Copyright</footer></body></html>`

	e := New(nil)
	e.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	contents, err := e.Extract("https://www.example.com/news/harbour", page)
	require.NoError(t, err)

	meta := contents.Metadata
	assert.Equal(t, "example.com", meta.Domain)
	assert.Equal(t, "https://logo.clearbit.com/example.com", meta.LogoURL)
	assert.Equal(t, "en", meta.Language)
	assert.Equal(t, "2024-05-01T12:00:00Z", meta.FetchedAt)
	assert.Contains(t, meta.Title, "Harbour floods")

	assert.GreaterOrEqual(t, contents.Count(core.ContentText), 3)
	assert.Equal(t, 1, contents.Count(core.ContentImage))
	for _, item := range contents.Items {
		assert.NotContains(t, item.Text, "Copyright")
	}
}

func TestExtract_InvalidURL(t *testing.T) {
	_, err := New(nil).Extract("not a url", "<html></html>")
	assert.ErrorIs(t, err, core.ErrInvalidURL)
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "", DetectLanguage("short"))
	assert.Equal(t, "en", DetectLanguage("The committee will publish its findings about the harbour next week."))
	assert.Equal(t, "de", DetectLanguage("Der Ausschuss wird seine Ergebnisse über den Hafen nächste Woche veröffentlichen."))
}
