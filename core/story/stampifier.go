// Package story runs the full conversion: fetch, extract, classify,
// summarize, match and select, producing a core.Story.
package story

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/stampify/core"
	"github.com/gaurav-prasanna/stampify/core/chunk"
	"github.com/gaurav-prasanna/stampify/core/classify"
	"github.com/gaurav-prasanna/stampify/core/config"
	"github.com/gaurav-prasanna/stampify/core/match"
	"github.com/gaurav-prasanna/stampify/core/stamp"
	"github.com/gaurav-prasanna/stampify/core/summarize"
)

// Stampifier converts webpages into stories.
type Stampifier struct {
	fetcher    core.Fetcher
	extractor  core.Extractor
	classifier *classify.Classifier
	chunker    *chunk.Chunker
	summarizer *summarize.Summarizer
	matcher    *match.Matcher
	sequencer  *stamp.Sequencer

	threshold     float64
	documentOrder bool
}

// New wires a Stampifier from cfg and the given stages.
func New(cfg config.Config, fetcher core.Fetcher, extractor core.Extractor, embedder core.Embedder) (*Stampifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	summarizer, err := summarize.New(cfg.SummaryRatio, cfg.RetainEntities)
	if err != nil {
		return nil, err
	}
	matcher, err := match.New(embedder, cfg.Match.MaxDistance, cfg.Match.Metric)
	if err != nil {
		return nil, err
	}
	return &Stampifier{
		fetcher:       fetcher,
		extractor:     extractor,
		classifier:    classify.New(cfg.MaxPages),
		chunker:       chunk.New(0),
		summarizer:    summarizer,
		matcher:       matcher,
		sequencer:     stamp.NewSequencer(cfg.SelectionOptions()),
		threshold:     cfg.Threshold,
		documentOrder: cfg.DocumentOrder,
	}, nil
}

// Stampify fetches rawURL and converts it.
func (s *Stampifier) Stampify(ctx context.Context, rawURL string) (*core.Story, error) {
	logger := log.With().Str("url", rawURL).Logger()

	start := time.Now()
	result, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	logger.Info().Int("status", result.StatusCode).Int("bytes", len(result.HTML)).Dur("elapsed", time.Since(start)).Msg("fetched")

	return s.FromHTML(ctx, result.URL, result.HTML)
}

// FromHTML converts already fetched html.
func (s *Stampifier) FromHTML(ctx context.Context, rawURL, html string) (*core.Story, error) {
	logger := log.With().Str("url", rawURL).Logger()

	contents, err := s.extractor.Extract(rawURL, html)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	logger.Info().Str("title", contents.Metadata.Title).Int("items", len(contents.Items)).Str("language", contents.Metadata.Language).Msg("extracted")

	counts, err := s.classifier.Classify(contents)
	if err != nil {
		logger.Warn().Interface("counts", counts).Int("min_pages", s.classifier.MinPages()).Msg("not stampifiable")
		return nil, err
	}

	doc := match.NewDocument(contents, s.chunker)
	doc.Summary = s.summarizer.Summarize(doc.Sentences)
	logger.Info().Int("sentences", len(doc.Sentences)).Int("summary", len(doc.Summary)).Msg("summarized")

	built, err := s.matcher.Build(ctx, contents, doc)
	if err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}
	logger.Info().Int("candidates", len(built.Candidates)).Msg("candidates built")

	res, err := s.sequencer.Run(built.Candidates, built.Summary)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	logRounds(logger, res.Rounds)

	pages, err := s.pages(built, res)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}

	story := &core.Story{
		ID:               uuid.NewString(),
		Metadata:         contents.Metadata,
		Pages:            pages,
		CoveredSentences: res.Covered,
		Candidates:       len(built.Candidates),
	}
	for _, sentence := range built.Summary {
		story.Summary = append(story.Summary, sentence.Text)
	}

	logger.Info().
		Str("story", story.ID).
		Int("pages", len(story.Pages)).
		Int("covered", res.Covered).
		Int("summary", res.Sentences).
		Msg("story assembled")
	return story, nil
}

// pages materialises the selected candidates, recording which summary
// sentences each one covers.
func (s *Stampifier) pages(built *match.Result, res *stamp.Result) ([]core.StampPage, error) {
	covers, err := stamp.BuildCovers(res.Pages, built.Summary, s.threshold)
	if err != nil {
		return nil, err
	}

	order := make([]int, len(res.Indices))
	for i := range order {
		order[i] = i
	}
	if s.documentOrder {
		sort.SliceStable(order, func(a, b int) bool {
			return res.Pages[order[a]].EarliestPosition() < res.Pages[order[b]].EarliestPosition()
		})
	}

	pages := make([]core.StampPage, 0, len(order))
	for _, i := range order {
		page := built.Pages[res.Indices[i]]
		page.Sentences = covers[i].Bits.Indices()
		pages = append(pages, page)
	}
	return pages, nil
}

func logRounds(logger zerolog.Logger, rounds []stamp.Round) {
	if logger.GetLevel() > zerolog.DebugLevel || zerolog.GlobalLevel() > zerolog.DebugLevel {
		return
	}
	for _, r := range rounds {
		logger.Debug().
			Int("round", r.Round).
			Int("candidate", r.Index).
			Stringer("kind", r.Kind).
			Float64("score", r.Score).
			Interface("terms", r.Terms).
			Int("covered", r.Covered).
			Float64("sweep_target", r.SweepTarget).
			Bool("seed", r.Seed).
			Msg("picked stamp page")
	}
}

// Outcome is the result of one conversion in a batch.
type Outcome struct {
	URL   string
	Story *core.Story
	Err   error
}

// StampifyAll converts urls with at most workers conversions in flight.
// Failures are reported per URL; outcomes are in input order.
func (s *Stampifier) StampifyAll(ctx context.Context, urls []string, workers int) []Outcome {
	outcomes := make([]Outcome, len(urls))
	var g errgroup.Group
	g.SetLimit(max(1, workers))
	for i, u := range urls {
		g.Go(func() error {
			story, err := s.Stampify(ctx, u)
			if err != nil {
				log.Error().Err(err).Str("url", u).Msg("conversion failed")
			}
			outcomes[i] = Outcome{URL: u, Story: story, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}
