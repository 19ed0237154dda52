// Package apperror defines the error taxonomy surfaced by the HTTP layer.
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an error for status-code mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUpstream
	KindNotFound
	KindGating
)

// GenericUpstreamMessage is returned to callers instead of upstream detail.
const GenericUpstreamMessage = "Failed to get response from AI service"

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Upstream wraps a generative API or downstream service failure. The cause
// is kept for logging only.
func Upstream(cause error) *Error {
	return &Error{Kind: KindUpstream, Message: GenericUpstreamMessage, Err: cause}
}

func UpstreamMessage(message string, cause error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: cause}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Gating(message string) *Error {
	return &Error{Kind: KindGating, Message: message}
}

// Status maps err onto an HTTP status code and a caller-safe message.
func Status(err error) (int, string) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, "Internal server error"
	}

	switch appErr.Kind {
	case KindValidation, KindGating:
		return http.StatusBadRequest, appErr.Message
	case KindNotFound:
		return http.StatusNotFound, appErr.Message
	case KindUpstream:
		return http.StatusInternalServerError, appErr.Message
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
