package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gaurav-prasanna/stampify/core"
	"github.com/gaurav-prasanna/stampify/core/config"
	"github.com/gaurav-prasanna/stampify/core/embed"
	"github.com/gaurav-prasanna/stampify/core/extract"
	"github.com/gaurav-prasanna/stampify/core/fetch"
	"github.com/gaurav-prasanna/stampify/core/normalize"
	"github.com/gaurav-prasanna/stampify/core/render"
	"github.com/gaurav-prasanna/stampify/core/story"
)

// storyFlags are the conversion flags shared by convert and batch.
type storyFlags struct {
	maxPages      int
	threshold     float64
	ratio         float64
	html          bool
	markdown      bool
	json          bool
	pdf           bool
	embedder      string
	model         string
	documentOrder bool
	outputDir     string
}

func (f *storyFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&f.maxPages, "max-pages", 0, "Maximum number of stamp pages (default from config: 10)")
	fs.Float64Var(&f.threshold, "threshold", 0, "Similarity threshold for a page to cover a summary sentence")
	fs.Float64Var(&f.ratio, "ratio", 0, "Fraction of sentences kept by the summarizer, in [0,1]")

	// Output format flags (mutually exclusive).
	fs.BoolVar(&f.html, "html", false, "Output an HTML story (default)")
	fs.BoolVar(&f.markdown, "markdown", false, "Output Markdown")
	fs.BoolVar(&f.json, "json", false, "Output structured JSON")
	fs.BoolVar(&f.pdf, "pdf", false, "Output PDF")

	fs.StringVar(&f.embedder, "embedder", "", "Embedding provider: local or ollama")
	fs.StringVar(&f.model, "model", "", "Embedding model for the ollama provider")
	fs.BoolVar(&f.documentOrder, "document-order", false, "Order pages as they appear in the article")
	fs.StringVar(&f.outputDir, "output_dir", "", "Output directory (default: current directory)")
}

// apply copies the flags the user set onto c.
func (f *storyFlags) apply(cmd *cobra.Command, c *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("max-pages") {
		c.MaxPages = f.maxPages
	}
	if fs.Changed("threshold") {
		c.Threshold = f.threshold
	}
	if fs.Changed("ratio") {
		c.SummaryRatio = f.ratio
	}
	if fs.Changed("embedder") {
		c.Embedder.Provider = f.embedder
	}
	if fs.Changed("model") {
		c.Embedder.Model = f.model
	}
	if fs.Changed("document-order") {
		c.DocumentOrder = f.documentOrder
	}
}

// renderer picks the output renderer. At most one format flag may be set.
func (f *storyFlags) renderer() (core.Renderer, error) {
	count := 0
	for _, set := range []bool{f.html, f.markdown, f.json, f.pdf} {
		if set {
			count++
		}
	}
	if count > 1 {
		return nil, fmt.Errorf("only one output format allowed per run (got %d)", count)
	}

	switch {
	case f.markdown:
		return render.NewMarkdownRenderer(), nil
	case f.json:
		return render.NewJSONRenderer(), nil
	case f.pdf:
		return render.NewPDFRenderer(), nil
	default:
		return render.NewHTMLRenderer(), nil
	}
}

// newStampifier wires the pipeline stages for c. The returned close
// function releases the embedding cache.
func newStampifier(c config.Config) (*story.Stampifier, func() error, error) {
	embedder, closeEmbedder, err := embed.FromConfig(c.Embedder)
	if err != nil {
		return nil, nil, err
	}
	s, err := buildStampifier(c, embedder)
	if err != nil {
		_ = closeEmbedder()
		return nil, nil, err
	}
	return s, closeEmbedder, nil
}

// buildStampifier wires the stages around an existing embedder.
func buildStampifier(c config.Config, embedder core.Embedder) (*story.Stampifier, error) {
	return story.New(c,
		fetch.New(c.Fetch.Timeout, c.Fetch.UserAgent),
		extract.New(normalize.New()),
		embedder,
	)
}
