package pipeline

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shize-zhang/chemqa/internal/mapping"
	"github.com/shize-zhang/chemqa/internal/partition"
	"github.com/shize-zhang/chemqa/internal/prompt"
	"github.com/shize-zhang/chemqa/internal/qa"
	"github.com/shize-zhang/chemqa/internal/store"
)

// DemoConfig drives offline record synthesis from the mapping alone,
// without any generation calls.
type DemoConfig struct {
	Mapping mapping.Mapping
	Builder prompt.Builder
	Records *store.RecordStore
	Logger  *slog.Logger
}

// RunDemo synthesizes one deterministic record per identifier and persists
// it. The split point is fixed at one so every identifier with at least two
// assets produces a record; content templates reference every required tag.
func RunDemo(cfg DemoConfig, ids []string) (*Report, error) {
	if cfg.Records == nil {
		return nil, fmt.Errorf("record store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	report := &Report{}
	for _, id := range ids {
		assets, ok := cfg.Mapping.Assets(id)
		if !ok {
			report.Failed++
			report.Outcomes = append(report.Outcomes, Outcome{
				ID: id, State: StateFailed, LastState: StatePending,
				Reason: "identifier not found in mapping",
			})
			logger.Warn("demo: identifier not found", "id", id)
			continue
		}

		part, err := partition.Split(assets, partition.FixedStrategy{Index: 1})
		if err != nil {
			report.Failed++
			report.Outcomes = append(report.Outcomes, Outcome{
				ID: id, State: StateFailed, LastState: StateGrouped,
				Err: err, Reason: err.Error(),
			})
			logger.Warn("demo: cannot partition", "id", id, "error", err)
			continue
		}

		rec := DemoRecord(part, id, cfg.Builder)
		if err := cfg.Records.Append(rec); err != nil {
			return report, fmt.Errorf("failed to persist demo record %s: %w", id, err)
		}
		report.Succeeded++
		report.Outcomes = append(report.Outcomes, Outcome{ID: id, State: StateValidated, LastState: StateValidated})
		logger.Info("demo record written", "id", id,
			"input_assets", len(part.Input), "output_assets", len(part.Output))
	}
	return report, nil
}

// DemoRecord builds a schema-valid record from a partition with templated
// content. Every required tag token appears exactly once on its own side.
func DemoRecord(part partition.Partition, id string, b prompt.Builder) *qa.Record {
	k := len(part.Input)
	m := len(part.Output)

	inputModal := make(map[string]string, k)
	for i, f := range part.Input {
		inputModal[qa.Tag(i+1)] = b.AssetURL(f)
	}
	outputModal := make(map[string]string, m)
	for i, f := range part.Output {
		outputModal[qa.Tag(k+i+1)] = b.AssetURL(f)
	}

	inputTokens := make([]string, k)
	for i := range inputTokens {
		inputTokens[i] = qa.Token(i + 1)
	}
	outputTokens := make([]string, m)
	for i := range outputTokens {
		outputTokens[i] = qa.Token(k + i + 1)
	}

	return &qa.Record{
		Domain:    qa.Domain,
		Subdomain: qa.Subdomain,
		ID:        id,
		Input: qa.Side{
			Modal: inputModal,
			Content: fmt.Sprintf(
				"Consider the chemical structures shown in %s. Explain the reaction they take part in, and include %d supporting image(s) in your answer.",
				strings.Join(inputTokens, " and "), m),
		},
		Output: qa.Side{
			Modal: outputModal,
			Content: fmt.Sprintf(
				"The reaction proceeds as illustrated by %s, which shows the product and its key structural features.",
				strings.Join(outputTokens, " and ")),
		},
	}
}
