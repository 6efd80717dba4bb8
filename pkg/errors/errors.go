package errors

import "fmt"

// ErrNotFound indicates a missing resource
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation carries every field-level failure of a form at once
type ErrValidation struct {
	Fields map[string]string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// ErrInvalidStateTransition indicates an illegal checkout state change
type ErrInvalidStateTransition struct {
	From interface{}
	To   interface{}
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %v to %v", e.From, e.To)
}

// ErrSubmissionInFlight indicates a submit while another one is outstanding
type ErrSubmissionInFlight struct{}

func (e *ErrSubmissionInFlight) Error() string {
	return "a submission is already in flight"
}

// ErrBackend carries the remote service's message for a failed call
type ErrBackend struct {
	StatusCode int
	Message    string
}

func (e *ErrBackend) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend error: status %d", e.StatusCode)
}
