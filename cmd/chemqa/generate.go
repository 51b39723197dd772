package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shize-zhang/chemqa/internal/api"
)

var generateCmd = &cobra.Command{
	Use:   "generate [id-spec...]",
	Short: "Generate QA pairs for identifiers",
	Long: `Generate runs the synthesis pipeline over the given identifiers.

Identifier specs take three forms:
  0301        a single identifier
  0301,0305   a comma-separated list
  0301-0310   an inclusive zero-padded range

With no arguments, every identifier in the mapping is processed.`,
	Example: `  chemqa generate 0301
  chemqa generate 0301-0310 --delay 8
  chemqa generate 0301,0305,0400 --provider openrouter --model openai/gpt-4o`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()

		env, err := newRunEnv(logger)
		if err != nil {
			return err
		}
		defer env.Close()

		ids, err := resolveIDs(env.mapping, args)
		if err != nil {
			return err
		}

		report, err := env.controller.Run(cmd.Context(), ids)
		if err != nil {
			// Report what completed before the interruption.
			if outErr := api.Output(report); outErr != nil {
				logger.Error("failed to render partial report", "error", outErr)
			}
			return err
		}
		return api.Output(report)
	},
}

func init() {
	generateCmd.Flags().StringVar(&flagProvider, "provider", "", "generation provider (default from config)")
	generateCmd.Flags().StringVar(&flagModel, "model", "", "model override (default from config)")
	generateCmd.Flags().IntVar(&flagMaxTokens, "max-tokens", 0, "completion token cap (default from config)")
	generateCmd.Flags().IntVar(&flagDelay, "delay", -1, "seconds between generation calls (default from config)")
	generateCmd.Flags().StringVar(&flagMapping, "mapping", "", "image mapping file (default from config)")
}
