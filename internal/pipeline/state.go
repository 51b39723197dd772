package pipeline

// State tracks an identifier's progress through the synthesis pipeline.
type State string

const (
	StatePending     State = "PENDING"
	StateGrouped     State = "GROUPED"
	StatePartitioned State = "PARTITIONED"
	StateRequested   State = "REQUESTED"
	StateValidated   State = "VALIDATED"
	StateFailed      State = "FAILED"
)

// Outcome is the final result for one identifier.
type Outcome struct {
	ID string `json:"id"`
	// State is the terminal state, VALIDATED or FAILED.
	State State `json:"state"`
	// LastState is the furthest non-terminal state reached before
	// failure; equals VALIDATED on success.
	LastState State  `json:"last_state"`
	Err       error  `json:"-"`
	Reason    string `json:"reason,omitempty"`
}

// Report aggregates a batch run.
type Report struct {
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Outcomes  []Outcome `json:"outcomes"`
}

// Total returns the number of identifiers processed.
func (r *Report) Total() int {
	return r.Succeeded + r.Failed
}

// SuccessRate returns the fraction of identifiers that validated, in
// [0, 1]. Zero when nothing was processed.
func (r *Report) SuccessRate() float64 {
	if r.Total() == 0 {
		return 0
	}
	return float64(r.Succeeded) / float64(r.Total())
}
