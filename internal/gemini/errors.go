package gemini

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned before any network call when no API key is set.
	ErrNotConfigured = errors.New("gemini API key is not configured")
	// ErrUnexpectedShape is returned when a 2xx response has no candidate text.
	ErrUnexpectedShape = errors.New("unexpected response shape from gemini")
)

// UpstreamRejectedError is a non-2xx answer from the API.
type UpstreamRejectedError struct {
	StatusCode int
	Body       string
	Message    string
}

func (e *UpstreamRejectedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gemini API request failed with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gemini API request failed with status %d: %s", e.StatusCode, e.Body)
}

// TransportError covers refused connections, DNS failures and timeouts.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gemini request failed: %v", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}
