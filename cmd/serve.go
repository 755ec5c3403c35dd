package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/stampify/core"
	"github.com/gaurav-prasanna/stampify/core/config"
	"github.com/gaurav-prasanna/stampify/core/embed"
	"github.com/gaurav-prasanna/stampify/server"
)

var (
	serveFlags     storyFlags
	flagAddr       string
	flagCacheSize  int
	serveLongUsage = `Serve runs an HTTP server with a small form. POST /stamps with a url
(and optional max_pages) converts the page and answers with the HTML story;
add ?format=json for JSON. GET /stamps/<id> serves recent stories again.

Examples:
  stampify serve --addr :8080
  curl -d url=https://example.com/news/article -d max_pages=6 localhost:8080/stamps`
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the converter over HTTP",
	Long:  serveLongUsage,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	fs := serveCmd.Flags()
	fs.StringVar(&flagAddr, "addr", ":8080", "Listen address")
	fs.IntVar(&flagCacheSize, "cache-size", server.DefaultCacheSize, "Number of generated stories kept in memory")
	fs.Float64Var(&serveFlags.threshold, "threshold", 0, "Similarity threshold for a page to cover a summary sentence")
	fs.Float64Var(&serveFlags.ratio, "ratio", 0, "Fraction of sentences kept by the summarizer, in [0,1]")
	fs.StringVar(&serveFlags.embedder, "embedder", "", "Embedding provider: local or ollama")
	fs.StringVar(&serveFlags.model, "model", "", "Embedding model for the ollama provider")
	fs.BoolVar(&serveFlags.documentOrder, "document-order", false, "Order pages as they appear in the article")
}

func runServe(cmd *cobra.Command, _ []string) error {
	c := cfg
	serveFlags.apply(cmd, &c)
	if err := c.Validate(); err != nil {
		return err
	}

	embedder, closeEmbedder, err := embed.FromConfig(c.Embedder)
	if err != nil {
		return err
	}
	defer closeEmbedder()

	srv, err := server.New(stampifierFactory(c, embedder), flagCacheSize)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(flagAddr) }()
	fmt.Fprintf(os.Stdout, "✓ Listening on %s\n", flagAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return <-errCh
}

// stampifierFactory builds a per-request pipeline sharing one embedder.
func stampifierFactory(c config.Config, embedder core.Embedder) server.Factory {
	return func(maxPages int) (server.Stampifier, error) {
		rc := c
		if maxPages > 0 {
			rc.MaxPages = maxPages
		}
		s, err := buildStampifier(rc, embedder)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
