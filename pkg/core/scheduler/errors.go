package scheduler

import "fmt"

// ValidationError indicates that scheduling inputs or configuration were
// rejected before any slot generation began.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ScoringError wraps a failure of the scoring model, either an error from the
// model itself or a probability outside [0,1]. It aborts the whole candidate
// build so that a partially scored candidate set never reaches the allocator.
type ScoringError struct {
	Err error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring failed: %v", e.Err)
}

func (e *ScoringError) Unwrap() error {
	return e.Err
}

// EmptyReason distinguishes why a schedule came back with no entries. Both are
// normal terminal states, not errors, but downstream messaging differs.
type EmptyReason string

const (
	// ReasonNone is set when the schedule has at least one entry.
	ReasonNone EmptyReason = ""

	// ReasonNoCandidates means availability never intersected: no candidate
	// was generated at all.
	ReasonNoCandidates EmptyReason = "no_candidates"

	// ReasonAllConflicting means candidates existed but every one of them
	// lost to a conflict or a capacity limit.
	ReasonAllConflicting EmptyReason = "all_conflicting"
)
