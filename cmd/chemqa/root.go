package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shize-zhang/chemqa/internal/api"
	"github.com/shize-zhang/chemqa/version"
)

var (
	cfgFile      string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "chemqa",
	Short: "Chemistry multimodal QA synthesis pipeline",
	Long: `chemqa synthesizes multimodal question-answer pairs for chemistry from
grouped image assets using LLM generation.

The pipeline includes:
  - Image mapping ingestion with per-identifier asset grouping
  - Random input/output partitioning with global asset tag numbering
  - Constrained prompt construction with cross-reference isolation
  - Strict JSON schema, cardinality, and tag validation
  - Append-only record and failure-log persistence with batch resume`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.chemqa/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	// Set output format and log level before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(resumeCmd)
}
