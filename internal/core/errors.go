package core

import "fmt"

// ValidationError reports a malformed request parameter (unparseable month
// key, non-positive months count). It is surfaced to the caller as a
// rejected request.
type ValidationError struct {
	msg string
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.msg }

// NotFoundError reports a missing resource. Absence of a budget record is a
// valid state and is degraded, not propagated; absence of a transaction on
// delete is not.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// UpstreamError wraps a transaction store failure. It is propagated to the
// caller unchanged; the engine performs no retry or partial-result
// fabrication.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
