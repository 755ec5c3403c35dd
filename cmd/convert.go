// Package cmd — convert command.
// This is the main command that orchestrates the pipeline:
// fetch → extract → classify → summarize → match → select → render → write.
//
// It handles flag overrides, renderer selection and output naming.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/stampify/core"
	"github.com/gaurav-prasanna/stampify/core/fetch"
	"github.com/gaurav-prasanna/stampify/core/output"
)

var convertFlags storyFlags

var convertCmd = &cobra.Command{
	Use:   "convert <url>",
	Short: "Convert a URL into a stamp story",
	Long: `Convert fetches a webpage, extracts its text and media, summarizes it,
picks the stamp pages that best cover the summary, and writes the story in
the chosen format (HTML, Markdown, JSON or PDF).

Examples:
  stampify convert https://example.com/news/article
  stampify convert https://example.com/news/article --max-pages 6 --pdf
  stampify convert https://example.com/news/article --json --output_dir ./out
  stampify convert https://example.com/news/article --embedder ollama --model nomic-embed-text`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertFlags.register(convertCmd.Flags())
}

func runConvert(cmd *cobra.Command, args []string) error {
	rawURL := args[0]
	if _, err := fetch.ValidateURL(rawURL); err != nil {
		return err
	}

	renderer, err := convertFlags.renderer()
	if err != nil {
		return err
	}

	c := cfg
	convertFlags.apply(cmd, &c)

	stampifier, closeFn, err := newStampifier(c)
	if err != nil {
		return err
	}
	defer closeFn()

	writer, err := output.New(convertFlags.outputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := stampifier.Stampify(ctx, rawURL)
	if err != nil {
		return err
	}

	path, err := writeStory(st, renderer, writer)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s (%d pages)\n", path, len(st.Pages))
	return nil
}

// writeStory renders st and writes it under a name derived from its URL.
func writeStory(st *core.Story, renderer core.Renderer, writer *output.Writer) (string, error) {
	data, err := renderer.Render(st)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return writer.Write(st.Metadata.URL, data, renderer.Extension())
}
