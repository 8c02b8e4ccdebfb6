package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches any 401 from the API. Callers tear the session
	// down when they see it, whichever call produced it.
	ErrUnauthorized = errors.New("backend: unauthorized")
	ErrForbidden    = errors.New("backend: forbidden")
	ErrNotFound     = errors.New("backend: not found")
	ErrConflict     = errors.New("backend: conflict")
)

// APIError is a failed call the API answered. StatusCode is the HTTP status;
// Message and Errors come from the response envelope when it had one.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Errors     []string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend: %s %s: %d", e.Method, e.Path, e.StatusCode)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0 when the API was
// never reached.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Message returns the API's own message for err, or "" if there is none.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// Details returns the per-field errors the API attached to err.
func Details(err error) []string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Errors
	}
	return nil
}
