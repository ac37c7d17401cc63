// Package apperr defines the error kinds the service distinguishes and their
// HTTP status mapping. Handlers wrap lower-level failures into one of these
// four kinds; everything else surfaces as a plain 500.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// KindValidation marks missing or malformed request input.
	KindValidation Kind = iota
	// KindNotFound marks a referenced asset or template that does not exist.
	KindNotFound
	// KindUpstream marks a third-party provider failure.
	KindUpstream
	// KindTranscode marks a local codec failure.
	KindTranscode
)

// Error is the unified application error type.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// HTTPStatus returns the status code a handler should respond with.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Validation creates a user-correctable input error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NotFound creates an error for an absent resource.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

// Upstream wraps a third-party provider failure. Not locally recoverable.
func Upstream(msg string, cause error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Cause: cause}
}

// Transcode wraps a codec failure. Terminal for the attempt, no retry.
func Transcode(msg string, cause error) *Error {
	return &Error{Kind: KindTranscode, Message: msg, Cause: cause}
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// StatusFor returns the HTTP status for any error, defaulting to 500.
func StatusFor(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.HTTPStatus()
	}
	return http.StatusInternalServerError
}
