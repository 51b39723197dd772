package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shize-zhang/chemqa/internal/config"
	"github.com/shize-zhang/chemqa/internal/mapping"
	"github.com/shize-zhang/chemqa/internal/partition"
	"github.com/shize-zhang/chemqa/internal/pipeline"
	"github.com/shize-zhang/chemqa/internal/prompt"
	"github.com/shize-zhang/chemqa/internal/providers"
	"github.com/shize-zhang/chemqa/internal/store"
)

// runEnv bundles everything a batch command needs, assembled from the
// resolved configuration.
type runEnv struct {
	cfg        *config.Config
	mapping    mapping.Mapping
	controller *pipeline.Controller
	records    *store.RecordStore
	errors     *store.ErrorLog
}

func (e *runEnv) Close() {
	e.records.Close()
	e.errors.Close()
}

// generation flag overrides, bound on the commands that run batches.
var (
	flagProvider  string
	flagModel     string
	flagMaxTokens int
	flagDelay     int
	flagMapping   string
)

// newRunEnv loads config, opens the stores, and wires the pipeline
// controller for live generation.
func newRunEnv(logger *slog.Logger) (*runEnv, error) {
	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg := mgr.Get()

	mappingPath := cfg.Stores.Mapping
	if flagMapping != "" {
		mappingPath = flagMapping
	}
	m, err := mapping.Load(mappingPath, logger)
	if err != nil {
		return nil, err
	}

	registry := providers.NewRegistryFromConfig(cfg.ToRegistryConfig())
	registry.SetLogger(logger)

	providerName := cfg.Pipeline.Provider
	if flagProvider != "" {
		providerName = flagProvider
	}
	client, err := registry.Get(providerName)
	if err != nil {
		return nil, fmt.Errorf("provider %q not available (check api key and enabled flag): %w", providerName, err)
	}

	records, err := store.OpenRecordStore(cfg.Stores.Records)
	if err != nil {
		return nil, err
	}
	errLog, err := store.OpenErrorLog(cfg.Stores.Errors)
	if err != nil {
		records.Close()
		return nil, err
	}

	model := cfg.Pipeline.Model
	if flagModel != "" {
		model = flagModel
	}
	maxTokens := cfg.Pipeline.MaxTokens
	if flagMaxTokens > 0 {
		maxTokens = flagMaxTokens
	}
	delay := cfg.Pipeline.DelaySeconds
	if flagDelay >= 0 {
		delay = flagDelay
	}

	controller, err := pipeline.New(pipeline.Config{
		Mapping:   m,
		Client:    client,
		Builder:   prompt.Builder{BaseURL: cfg.Assets.BaseURL},
		Strategy:  partition.RandomStrategy{},
		Records:   records,
		Errors:    errLog,
		Model:     model,
		MaxTokens: maxTokens,
		Pacing:    time.Duration(delay) * time.Second,
		Logger:    logger,
	})
	if err != nil {
		records.Close()
		errLog.Close()
		return nil, err
	}

	return &runEnv{
		cfg:        cfg,
		mapping:    m,
		controller: controller,
		records:    records,
		errors:     errLog,
	}, nil
}

// resolveIDs turns ID spec arguments into the identifier list to process.
// With no arguments every identifier in the mapping is processed.
func resolveIDs(m mapping.Mapping, args []string) ([]string, error) {
	if len(args) == 0 {
		return m.IDs(), nil
	}
	var ids []string
	for _, spec := range args {
		parsed, err := mapping.ParseIDSpec(spec)
		if err != nil {
			return nil, err
		}
		ids = append(ids, parsed...)
	}
	return ids, nil
}
