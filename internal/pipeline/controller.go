// Package pipeline sequences QA synthesis per identifier: grouping,
// partitioning, prompt construction, generation, validation, and
// persistence, with per-identifier failure isolation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shize-zhang/chemqa/internal/mapping"
	"github.com/shize-zhang/chemqa/internal/partition"
	"github.com/shize-zhang/chemqa/internal/prompt"
	"github.com/shize-zhang/chemqa/internal/providers"
	"github.com/shize-zhang/chemqa/internal/qa"
	"github.com/shize-zhang/chemqa/internal/store"
)

// Config holds everything the controller needs. All collaborators are
// injected so the pipeline runs against mocks without environment setup.
type Config struct {
	Mapping  mapping.Mapping
	Client   providers.LLMClient
	Builder  prompt.Builder
	Strategy partition.SplitStrategy

	Records *store.RecordStore
	Errors  *store.ErrorLog

	// Model overrides the client's default model when non-empty.
	Model string
	// MaxTokens caps each completion (0 = provider default).
	MaxTokens int
	// Pacing is the fixed delay enforced between successive generation
	// calls. Purely a configuration value.
	Pacing time.Duration

	Logger *slog.Logger
}

// Controller runs the synthesis pipeline over identifiers, one at a time
// in input order.
type Controller struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a pipeline controller.
func New(cfg Config) (*Controller, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("generation client is required")
	}
	if cfg.Records == nil || cfg.Errors == nil {
		return nil, fmt.Errorf("record store and error log are required")
	}
	if cfg.Strategy == nil {
		cfg.Strategy = partition.RandomStrategy{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{cfg: cfg, logger: logger}, nil
}

// Run processes identifiers sequentially. A single identifier's failure is
// recorded and skipped, never fatal to the batch. Run returns early only
// when the context is cancelled; the stores are left append-consistent
// either way.
func (c *Controller) Run(ctx context.Context, ids []string) (*Report, error) {
	report := &Report{}

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		c.logger.Info("processing identifier", "id", id, "index", i+1, "total", len(ids))

		outcome, paced := c.process(ctx, id)
		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.State == StateValidated {
			report.Succeeded++
			c.logger.Info("identifier validated", "id", id)
		} else {
			report.Failed++
			c.logger.Warn("identifier failed", "id", id, "stage", outcome.LastState, "reason", outcome.Reason)
		}

		// Pace only between generation calls, never after the last
		// identifier.
		if paced && i < len(ids)-1 && c.cfg.Pacing > 0 {
			c.logger.Debug("pacing before next generation call", "delay", c.cfg.Pacing)
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(c.cfg.Pacing):
			}
		}
	}

	c.logger.Info("batch complete",
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"success_rate", fmt.Sprintf("%.1f%%", report.SuccessRate()*100),
	)
	return report, nil
}

// process runs one identifier through the state machine. The returned
// bool reports whether a generation call was made (and pacing applies).
func (c *Controller) process(ctx context.Context, id string) (Outcome, bool) {
	state := StatePending

	fail := func(reason string, raw string, err error) Outcome {
		if serr := c.cfg.Errors.Append(id, reason, raw); serr != nil {
			c.logger.Error("failed to append error entry", "id", id, "error", serr)
		}
		return Outcome{ID: id, State: StateFailed, LastState: state, Err: err, Reason: reason}
	}

	// GROUPED: the identifier must exist in the mapping.
	assets, ok := c.cfg.Mapping.Assets(id)
	if !ok {
		err := fmt.Errorf("%w: %s", mapping.ErrUnknownIdentifier, id)
		return fail(err.Error(), "", err), false
	}
	state = StateGrouped

	// PARTITIONED: split into a non-empty input prefix and output suffix.
	part, err := partition.Split(assets, c.cfg.Strategy)
	if err != nil {
		return fail(err.Error(), "", err), false
	}
	state = StatePartitioned
	c.logger.Info("partitioned assets", "id", id,
		"input_assets", len(part.Input), "output_assets", len(part.Output))

	// REQUESTED: one generation call; any client failure is terminal for
	// this identifier.
	req := c.cfg.Builder.Build(part, id)
	result, err := c.cfg.Client.Generate(ctx, &providers.GenerationRequest{
		Model:     c.cfg.Model,
		System:    req.System,
		Prompt:    req.Instructions,
		ImageURLs: req.InputAssetURLs,
		MaxTokens: c.cfg.MaxTokens,
		ForceJSON: true,
	})
	if err != nil {
		return fail(err.Error(), "", err), true
	}
	state = StateRequested

	// VALIDATED: schema, cardinality, and tag checks against the
	// partition.
	rec, err := qa.Validate(result.Content, part)
	if err != nil {
		raw := result.Content
		var verr *qa.ValidationError
		if errors.As(err, &verr) {
			raw = verr.Raw
		}
		return fail(err.Error(), raw, err), true
	}

	if err := c.cfg.Records.Append(rec); err != nil {
		return fail(fmt.Sprintf("failed to persist record: %v", err), result.Content, err), true
	}
	state = StateValidated

	return Outcome{ID: id, State: StateValidated, LastState: state}, true
}

// RunFailed re-processes the identifiers previously recorded in the error
// log. New failures append to the same log; already-persisted records are
// never touched.
func (c *Controller) RunFailed(ctx context.Context, errorLogPath string) (*Report, error) {
	ids, err := store.ReadFailedIDs(errorLogPath)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		c.logger.Info("no failed identifiers to resume", "error_log", errorLogPath)
		return &Report{}, nil
	}
	c.logger.Info("resuming failed identifiers", "count", len(ids))
	return c.Run(ctx, ids)
}
