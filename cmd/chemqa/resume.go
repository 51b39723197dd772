package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shize-zhang/chemqa/internal/api"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Re-run identifiers recorded in the error log",
	Long: `Resume reads the failure log, deduplicates the identifiers recorded
there, and runs the synthesis pipeline over them again. Records that
already validated are never touched; new failures append to the same log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()

		env, err := newRunEnv(logger)
		if err != nil {
			return err
		}
		defer env.Close()

		report, err := env.controller.RunFailed(cmd.Context(), env.cfg.Stores.Errors)
		if err != nil {
			return err
		}
		return api.Output(report)
	},
}

func init() {
	resumeCmd.Flags().StringVar(&flagProvider, "provider", "", "generation provider (default from config)")
	resumeCmd.Flags().StringVar(&flagModel, "model", "", "model override (default from config)")
	resumeCmd.Flags().IntVar(&flagDelay, "delay", -1, "seconds between generation calls (default from config)")
}
