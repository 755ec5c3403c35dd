package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/stampify/core/fetch"
	"github.com/gaurav-prasanna/stampify/core/output"
)

var (
	batchFlags   storyFlags
	flagWorkers  int
	batchExample = `  stampify batch https://example.com/a https://example.com/b --workers 2
  stampify batch $(cat urls.txt) --markdown --output_dir ./stories`
)

var batchCmd = &cobra.Command{
	Use:     "batch <url>...",
	Short:   "Convert several URLs in parallel",
	Long:    `Batch converts each URL independently. A failing URL is reported and does not stop the others.`,
	Example: batchExample,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchFlags.register(batchCmd.Flags())
	batchCmd.Flags().IntVar(&flagWorkers, "workers", 4, "Number of conversions run in parallel")
}

func runBatch(cmd *cobra.Command, args []string) error {
	for _, rawURL := range args {
		if _, err := fetch.ValidateURL(rawURL); err != nil {
			return err
		}
	}

	renderer, err := batchFlags.renderer()
	if err != nil {
		return err
	}

	c := cfg
	batchFlags.apply(cmd, &c)

	stampifier, closeFn, err := newStampifier(c)
	if err != nil {
		return err
	}
	defer closeFn()

	writer, err := output.New(batchFlags.outputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Fprintf(os.Stdout, "Converting %d pages with %d workers\n", len(args), flagWorkers)
	outcomes := stampifier.StampifyAll(ctx, args, flagWorkers)

	var errCount int
	for i, o := range outcomes {
		fmt.Fprintf(os.Stdout, "[%d/%d] %s\n", i+1, len(outcomes), o.URL)
		if o.Err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Error: %v\n", o.Err)
			errCount++
			continue
		}
		path, err := writeStory(o.Story, renderer, writer)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Write error: %v\n", err)
			errCount++
			continue
		}
		fmt.Fprintf(os.Stdout, "  ✓ Written: %s (%d pages)\n", path, len(o.Story.Pages))
	}

	if errCount > 0 {
		fmt.Fprintf(os.Stderr, "\n%d/%d pages failed\n", errCount, len(outcomes))
	}
	return nil
}
