package pipeline

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/shize-zhang/chemqa/internal/qa"
	"github.com/shize-zhang/chemqa/internal/store"
)

// Problem describes one record that failed the offline audit.
type Problem struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

// CheckResult summarizes an offline audit of a record store.
type CheckResult struct {
	Total    int       `json:"total"`
	Valid    int       `json:"valid"`
	Problems []Problem `json:"problems,omitempty"`
}

// OK reports whether every record passed.
func (r *CheckResult) OK() bool {
	return len(r.Problems) == 0
}

// Check audits every record in a store file offline: schema conformance,
// modal key shape, and tag presence and isolation derived from each
// record's own modal keys. No partition context is needed.
func Check(path string, logger *slog.Logger) (*CheckResult, error) {
	if logger == nil {
		logger = slog.Default()
	}

	records, err := store.ReadRecordsFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record store: %w", err)
	}

	result := &CheckResult{Total: len(records)}
	for i, raw := range records {
		rec, err := qa.Audit(raw)
		if err != nil {
			result.Problems = append(result.Problems, Problem{
				Index:  i,
				ID:     peekID(raw),
				Reason: err.Error(),
			})
			logger.Warn("record failed audit", "index", i, "error", err)
			continue
		}
		result.Valid++
		logger.Debug("record passed audit", "index", i, "id", rec.ID)
	}

	logger.Info("audit complete", "total", result.Total, "valid", result.Valid, "problems", len(result.Problems))
	return result, nil
}

// peekID extracts the id field for diagnostics without assuming the rest
// of the record decodes.
func peekID(raw json.RawMessage) string {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	return probe.ID
}
