// Package cmd implements the CLI commands for Stampify using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/stampify/core/config"
	"github.com/gaurav-prasanna/stampify/core/logging"
)

// Persistent flag variables.
var (
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
	flagPretty   bool
)

// cfg is loaded before any subcommand runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "stampify",
	Short: "Stampify — turn articles into visual stories",
	Long: `Stampify converts a webpage into a short visual story: an ordered
sequence of stamp pages (text, quotes, images, embeds) chosen to cover the
article's summary within a page budget.

Usage:
  stampify convert <url> [flags]
  stampify batch <url>... [flags]`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: ./"+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Also write logs to this file (rotated)")
	rootCmd.PersistentFlags().BoolVar(&flagPretty, "pretty", false, "Human-readable console logs")
}

// setup loads the configuration and installs the global logger.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagLogLevel != "" {
		loaded.Log.Level = flagLogLevel
	}
	if flagLogFile != "" {
		loaded.Log.File = flagLogFile
	}
	if cmd.Flags().Changed("pretty") {
		loaded.Log.Pretty = flagPretty
	}

	if _, err := logging.Init(logging.Options{
		Level:      loaded.Log.Level,
		Pretty:     loaded.Log.Pretty,
		File:       loaded.Log.File,
		MaxSizeMB:  loaded.Log.MaxSizeMB,
		MaxBackups: loaded.Log.MaxBackups,
		MaxAgeDays: loaded.Log.MaxAgeDays,
		Compress:   loaded.Log.Compress,
	}); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	cfg = loaded
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
