package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrMissingEmployeeID = errors.New("employee_id is required")
	ErrMissingAction     = errors.New("type is required")
	ErrInvalidAction     = errors.New("type must be \"Time In\" or \"Time Out\"")
	ErrMissingGPS        = errors.New("GPS coordinates are required for attendance")
	ErrMissingBase       = errors.New("No registered coordinates found for this employee. Please contact admin.")
)

// Sentinel errors for entity lookups.
var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrAttendanceNotFound = errors.New("attendance not found")
	ErrAuditNotFound      = errors.New("audit log not found")
)

// ErrDuplicateKey indicates a unique constraint violation (maps to HTTP 409 Conflict).
var ErrDuplicateKey = errors.New("duplicate key")

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf("%s exceeds maximum length of %d", field, maxLen)}
}

// ValidationError reports malformed or incomplete input (HTTP 400).
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}

	return "invalid " + e.Field
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NotFoundError reports a lookup that matched nothing. The message names the
// identifier that was searched for.
type NotFoundError struct {
	Resource string
	ID       string
	Err      error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// ConflictError reports an ambiguous or duplicate identifier (HTTP 409).
type ConflictError struct {
	Resource string
	ID       string
	Message  string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("%s %s is not unique", e.Resource, e.ID)
}

func (e *ConflictError) Unwrap() error { return ErrDuplicateKey }

// TimeWindowError is returned when a strict scan arrives outside the allowed
// window for its action.
type TimeWindowError struct {
	Action  Action
	Message string
}

func (e *TimeWindowError) Error() string { return e.Message }

// GeofenceError is returned when a strict scan is farther from the registered
// location than the allowed radius.
type GeofenceError struct {
	Distance      int
	AllowedRadius int
}

func (e *GeofenceError) Error() string {
	return "Your out of range on your registered coordinates"
}

// PersistenceError wraps a storage failure. Retryable is set for timeouts and
// transient connection failures.
type PersistenceError struct {
	Op        string
	Err       error
	Retryable bool
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
