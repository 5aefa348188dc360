// Package service orchestrates query execution: definition resolution,
// parameter validation, SQL interpolation, and result shaping.
package service

import "errors"

// Error kinds reported to callers. These codes are stable and can be relied
// upon by clients.
const (
	KindNotFound             = "NOT_FOUND"
	KindInvalidParameters    = "INVALID_PARAMETERS"
	KindConfigurationError   = "CONFIGURATION_ERROR"
	KindQueryExecutionFailed = "QUERY_EXECUTION_FAILED"
)

// Error is a structured, machine-readable failure. A single bad request
// produces one of these; it never crashes the service or corrupts registry
// or catalog state.
type Error struct {
	Kind   string
	Detail string
}

func (e *Error) Error() string {
	return e.Kind + ": " + e.Detail
}

// NewError returns a structured error with the given kind and detail.
func NewError(kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// AsError extracts a structured Error from err, if it carries one.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
