// Package apperr classifies request failures so the HTTP layer can map them
// to status codes without inspecting error strings.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind is a machine-readable failure classification.
type Kind string

const (
	// KindValidation - input exceeds a hard limit; not retryable without
	// modifying the input.
	KindValidation Kind = "VALIDATION_FAILED"
	// KindRateLimited - request budget exhausted for the current window;
	// retryable after the window resets.
	KindRateLimited Kind = "RATE_LIMITED"
	// KindUpstream - an external engine errored or returned an unusable
	// payload; fatal for the request that needed it.
	KindUpstream Kind = "UPSTREAM_FAILURE"
	// KindBadRequest - structurally invalid request (missing file, bad JSON).
	KindBadRequest Kind = "BAD_REQUEST"
)

// Error is the unified application error type.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	// RetryAfter is how long the caller should wait before retrying.
	// Set for rate-limit failures, zero otherwise.
	RetryAfter time.Duration `json:"-"`
	// Details carries relevant numbers (measured value, limit, reset time).
	Details map[string]any `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// HTTPStatus returns the status code the HTTP layer should respond with.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether retrying the identical request can succeed.
func (e *Error) Retryable() bool {
	return e.Kind == KindRateLimited || e.Kind == KindUpstream
}

// WithDetail sets one detail key and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Validation creates a hard-limit rejection carrying the measured value and
// the limit it exceeded.
func Validation(message string, measured, limit any) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: message,
		Details: map[string]any{"measured": measured, "limit": limit},
	}
}

// RateLimited creates a window-exhausted rejection.
func RateLimited(message string, retryAfter time.Duration, resetTime time.Time) *Error {
	return &Error{
		Kind:       KindRateLimited,
		Message:    message,
		RetryAfter: retryAfter,
		Details:    map[string]any{"resetTime": resetTime.UnixMilli()},
	}
}

// Upstream wraps an external engine failure.
func Upstream(service string, cause error) *Error {
	return &Error{
		Kind:    KindUpstream,
		Message: fmt.Sprintf("%s request failed", service),
		Details: map[string]any{"service": service},
		Cause:   cause,
	}
}

// BadRequest creates a structurally-invalid-request rejection.
func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

// From extracts an *Error from err, wrapping unclassified errors as an
// upstream failure of the named service.
func From(err error, service string) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Upstream(service, err)
}
