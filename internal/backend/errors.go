package backend

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnavailable indicates the backend could not be reached.
	ErrUnavailable = errors.New("onboarding backend unavailable")

	// ErrTimeout indicates the call exceeded the configured timeout.
	ErrTimeout = errors.New("onboarding backend request timed out")

	// ErrStatus indicates the backend answered with a failure.
	ErrStatus = errors.New("onboarding backend rejected the request")

	// ErrMissingIdentity indicates a call that needs user_id and user_type
	// was made without them.
	ErrMissingIdentity = errors.New("user ID and user type are required")

	// ErrInvalidResponse indicates a body that could not be decoded.
	ErrInvalidResponse = errors.New("invalid backend response")

	// ErrUnknownQuery indicates an option query with no endpoint.
	ErrUnknownQuery = errors.New("unknown option query")
)

// APIError is a failure reported by the backend itself.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return ErrStatus }

// ValidationError is a save rejected for field-level reasons.
type ValidationError struct {
	APIError
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.APIError.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s - validation errors: %s", e.APIError.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return &e.APIError }
