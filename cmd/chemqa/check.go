package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shize-zhang/chemqa/internal/api"
	"github.com/shize-zhang/chemqa/internal/config"
	"github.com/shize-zhang/chemqa/internal/pipeline"
)

var checkCmd = &cobra.Command{
	Use:   "check [store-file]",
	Short: "Audit persisted records offline",
	Long: `Check validates every record in a record store without any network
access: JSON schema conformance, modal key shape, and tag presence and
isolation derived from each record's own modal keys.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()

		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			mgr, err := config.NewManager(cfgFile)
			if err != nil {
				return err
			}
			path = mgr.Get().Stores.Records
		}

		result, err := pipeline.Check(path, logger)
		if err != nil {
			return err
		}
		if err := api.Output(result); err != nil {
			return err
		}
		if !result.OK() {
			return fmt.Errorf("%d of %d records failed the audit", len(result.Problems), result.Total)
		}
		return nil
	},
}
