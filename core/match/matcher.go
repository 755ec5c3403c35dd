package match

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/gaurav-prasanna/stampify/core"
	"github.com/gaurav-prasanna/stampify/core/stamp"
)

// Distance metrics for pairing media with sentences.
const (
	// AbsoluteDifference pairs with sentences on either side of the media.
	AbsoluteDifference = "absolute-difference"
	// SignedDifference only pairs with sentences after the media.
	SignedDifference = "signed-difference"
)

// ErrUnknownMetric is returned for a distance metric other than the two above.
var ErrUnknownMetric = errors.New("unknown distance metric")

// Result holds index-aligned candidates and their renderable pages, plus
// the embedded summary the candidates are scored against.
type Result struct {
	Candidates []stamp.CandidatePage
	Pages      []core.StampPage
	Summary    []stamp.SummarySentence
}

// Matcher builds candidate pages.
type Matcher struct {
	embedder    core.Embedder
	maxDistance int
	metric      string
}

// New creates a Matcher pairing media with summary sentences at most
// maxDistance sentence ordinals away.
func New(embedder core.Embedder, maxDistance int, metric string) (*Matcher, error) {
	if metric != AbsoluteDifference && metric != SignedDifference {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
	if maxDistance < 0 {
		return nil, fmt.Errorf("max distance must be non-negative, got %d", maxDistance)
	}
	return &Matcher{embedder: embedder, maxDistance: maxDistance, metric: metric}, nil
}

// Build embeds the summary, quotes and media captions in one call and emits
// a quote page per quote and an embed page per embed. Each image is paired
// with its nearest unused summary sentence into a media-with-text page; a
// pair uses up both, so only unpaired images become media pages and only
// unpaired sentences become text pages. Candidates are stably sorted by
// position so the first one opens the story.
func (m *Matcher) Build(ctx context.Context, contents *core.Contents, doc *Document) (*Result, error) {
	texts := make([]string, 0, len(doc.Summary)+len(contents.Items))
	for _, s := range doc.Summary {
		texts = append(texts, s.Text)
	}
	itemVec := make([]int, len(contents.Items))
	for i, item := range contents.Items {
		itemVec[i] = -1
		switch item.Type {
		case core.ContentQuote, core.ContentImage, core.ContentEmbed:
			itemVec[i] = len(texts)
			texts = append(texts, item.Text)
		}
	}

	vectors, err := m.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
	}

	res := &Result{Summary: make([]stamp.SummarySentence, len(doc.Summary))}
	for k, s := range doc.Summary {
		res.Summary[k] = stamp.SummarySentence{Text: s.Text, Position: s.Position, Embedding: vectors[k]}
	}

	usedSentence := make([]bool, len(res.Summary))
	usedTitle := make([]bool, len(contents.Items))
	for i, item := range contents.Items {
		pos := doc.Before[i]
		var vec []float64
		if itemVec[i] >= 0 {
			vec = vectors[itemVec[i]]
		}

		switch item.Type {
		case core.ContentQuote:
			quote := item.Markdown
			if quote == "" {
				quote = item.Text
			}
			res.add(stamp.CandidatePage{
				Kind:             stamp.Quoted,
				MediaPosition:    stamp.NoPosition,
				SentencePosition: pos,
				Descriptor:       vec,
			}, core.StampPage{Quote: quote})

		case core.ContentEmbed:
			res.add(stamp.CandidatePage{
				Kind:             stamp.Embedded,
				MediaPosition:    pos,
				SentencePosition: stamp.NoPosition,
				Descriptor:       vec,
				IsEmbedded:       true,
			}, core.StampPage{EmbedURL: item.URL, Caption: item.Text})

		case core.ContentImage:
			k := m.nearest(res.Summary, usedSentence, pos)
			if k < 0 {
				res.add(stamp.CandidatePage{
					Kind:             stamp.MediaOnly,
					MediaPosition:    pos,
					SentencePosition: stamp.NoPosition,
					Descriptor:       vec,
				}, core.StampPage{MediaURL: item.URL, Caption: item.Text})
				continue
			}
			usedSentence[k] = true

			page := core.StampPage{MediaURL: item.URL, Caption: item.Text, Text: res.Summary[k].Text}
			kind := stamp.MediaWithText
			if t := precedingTitle(contents.Items, usedTitle, i); t >= 0 {
				usedTitle[t] = true
				kind = stamp.MediaWithTextAndTitle
				page.Title = contents.Items[t].Text
			}
			res.add(stamp.CandidatePage{
				Kind:             kind,
				MediaPosition:    pos,
				SentencePosition: res.Summary[k].Position,
				Descriptor:       mean(vectors[k], vec),
			}, page)
		}
	}

	for k, s := range res.Summary {
		if usedSentence[k] {
			continue
		}
		res.add(stamp.CandidatePage{
			Kind:             stamp.TextOnly,
			MediaPosition:    stamp.NoPosition,
			SentencePosition: s.Position,
			Descriptor:       s.Embedding,
		}, core.StampPage{Text: s.Text})
	}

	res.sortByPosition()
	return res, nil
}

func (r *Result) add(c stamp.CandidatePage, p core.StampPage) {
	p.Kind = c.Kind
	p.Position = c.ApproxPosition()
	r.Candidates = append(r.Candidates, c)
	r.Pages = append(r.Pages, p)
}

func (r *Result) sortByPosition() {
	order := make([]int, len(r.Candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return r.Candidates[order[a]].ApproxPosition() < r.Candidates[order[b]].ApproxPosition()
	})

	candidates := make([]stamp.CandidatePage, len(order))
	pages := make([]core.StampPage, len(order))
	for to, from := range order {
		candidates[to] = r.Candidates[from]
		pages[to] = r.Pages[from]
	}
	r.Candidates, r.Pages = candidates, pages
}

// nearest returns the index of the closest unused summary sentence to a
// media item at mediaPos, or -1. Ties go to the earlier sentence.
func (m *Matcher) nearest(summary []stamp.SummarySentence, used []bool, mediaPos int) int {
	best, bestDist := -1, 0
	for k, s := range summary {
		if used[k] {
			continue
		}
		dist := s.Position - mediaPos
		if m.metric == AbsoluteDifference && dist < 0 {
			dist = -dist
		}
		if dist < 0 || dist > m.maxDistance {
			continue
		}
		if best < 0 || dist < bestDist {
			best, bestDist = k, dist
		}
	}
	return best
}

// precedingTitle finds the unused heading directly governing item i: the
// last title before it with no other media in between.
func precedingTitle(items []core.ContentItem, used []bool, i int) int {
	for j := i - 1; j >= 0; j-- {
		switch items[j].Type {
		case core.ContentTitle:
			if used[j] {
				return -1
			}
			return j
		case core.ContentImage, core.ContentEmbed:
			return -1
		}
	}
	return -1
}

// mean averages two vectors. A missing or mismatched second vector leaves
// the first unchanged.
func mean(a, b []float64) []float64 {
	if len(a) == 0 {
		return b
	}
	if len(b) != len(a) {
		return a
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = (a[i] + b[i]) / 2
	}
	return out
}
