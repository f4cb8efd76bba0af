package planner

import (
	"errors"
	"fmt"
)

// Caller errors. These are surfaced directly; the fallback path never papers
// over them.
var (
	ErrInvalidDuration = errors.New("plan duration must be between 1 and 90 days")
	ErrInvalidDayIndex = errors.New("day index is outside the plan")
	ErrInvalidSlot     = errors.New("unknown meal slot")
	ErrPlanNotFound    = errors.New("plan not found")
)

// SanitizeError reports that a model response could not be coerced into
// parseable JSON. It carries both parse errors and a truncated snippet of the
// offending text for diagnostics. It is a signal to the orchestrator to fall
// back, never a user-facing error.
type SanitizeError struct {
	StrictErr error
	RepairErr error
	Snippet   string
}

func (e *SanitizeError) Error() string {
	return fmt.Sprintf("response is not valid JSON (strict: %v; after repair: %v): %q", e.StrictErr, e.RepairErr, e.Snippet)
}

// ValidationError reports the first structural rule a parsed candidate
// violated. Like SanitizeError it routes the orchestrator to the fallback.
type ValidationError struct {
	Rule   string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("plan candidate failed %s: %s", e.Rule, e.Detail)
}

// PersistenceError wraps a storage-layer failure. Lifecycle correctness is
// never allowed to silently degrade, so these always reach the caller.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
