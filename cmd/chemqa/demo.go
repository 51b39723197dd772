package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shize-zhang/chemqa/internal/api"
	"github.com/shize-zhang/chemqa/internal/config"
	"github.com/shize-zhang/chemqa/internal/mapping"
	"github.com/shize-zhang/chemqa/internal/pipeline"
	"github.com/shize-zhang/chemqa/internal/prompt"
	"github.com/shize-zhang/chemqa/internal/store"
)

var demoMapping string

var demoCmd = &cobra.Command{
	Use:   "demo [id-spec...]",
	Short: "Write deterministic demo records without any generation calls",
	Long: `Demo synthesizes schema-valid records directly from the mapping using a
fixed split point and templated content. Useful for verifying the data
path end to end before spending API credit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()

		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		mappingPath := cfg.Stores.Mapping
		if demoMapping != "" {
			mappingPath = demoMapping
		}
		m, err := mapping.Load(mappingPath, logger)
		if err != nil {
			return err
		}

		ids, err := resolveIDs(m, args)
		if err != nil {
			return err
		}

		records, err := store.OpenRecordStore(cfg.Stores.Records)
		if err != nil {
			return err
		}
		defer records.Close()

		report, err := pipeline.RunDemo(pipeline.DemoConfig{
			Mapping: m,
			Builder: prompt.Builder{BaseURL: cfg.Assets.BaseURL},
			Records: records,
			Logger:  logger,
		}, ids)
		if err != nil {
			return err
		}
		return api.Output(report)
	},
}

func init() {
	demoCmd.Flags().StringVar(&demoMapping, "mapping", "", "image mapping file (default from config)")
}
