package order

import (
	"errors"
	"fmt"
)

// State is the lifecycle of one submission.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrNoData is reported when the order service answers without a payload.
var ErrNoData = errors.New("order service returned no data")

// SubmissionError wraps the reason an order could not be created.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit order: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
