package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// APIError represents a structured error response from the kiosk API.
// Distance and AllowedRadius are set on geofence rejections.
type APIError struct {
	StatusCode    int    `json:"-"`
	Code          string `json:"code"`
	Message       string `json:"message"`
	RequestID     string `json:"request_id,omitempty"`
	Distance      *int   `json:"distance,omitempty"`
	AllowedRadius *int   `json:"allowedRadius,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("kiosk: %d %s: %s (request_id=%s)", e.StatusCode, e.Code, e.Message, e.RequestID)
	}
	return fmt.Sprintf("kiosk: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

func asAPIError(err error) (*APIError, bool) {
	var e *APIError
	ok := errors.As(err, &e)
	return e, ok
}

func hasStatus(err error, status int) bool {
	e, ok := asAPIError(err)
	return ok && e.StatusCode == status
}

// IsNotFound returns true if the error is a 404 not found.
func IsNotFound(err error) bool { return hasStatus(err, 404) }

// IsConflict returns true if the error is a 409 conflict (duplicate key).
func IsConflict(err error) bool { return hasStatus(err, 409) }

// IsRateLimited returns true if the error is a 429 rate limit.
func IsRateLimited(err error) bool { return hasStatus(err, 429) }

// IsUnauthorized returns true if the token was missing or rejected.
func IsUnauthorized(err error) bool { return hasStatus(err, 401) }

// IsOutsideWindow returns true if a clock-in was rejected by the time window.
func IsOutsideWindow(err error) bool {
	e, ok := asAPIError(err)
	return ok && e.Code == "time_window"
}

// IsGeofence returns true if a clock-in was rejected for being out of range.
func IsGeofence(err error) bool {
	e, ok := asAPIError(err)
	return ok && e.Code == "geofence"
}

// parseAPIError attempts to decode a JSON error body; falls back to raw text.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = "unknown"
		apiErr.Message = string(body)
	}
	return apiErr
}
