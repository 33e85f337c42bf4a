// Package errs defines the error kinds surfaced by the blog API and their
// mapping onto HTTP status codes.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error by how it is reported to the caller.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// InternalMessage is the only message a client ever sees for KindInternal.
const InternalMessage = "Internal server error"

// Error is a business-rule failure with a client-facing message. Cause holds
// the underlying error for logging and is never sent to the client.
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

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports kind equality so errors.Is(err, errs.ErrNotFound) works for
// any not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// StatusCode maps the kind onto its HTTP status. Duplicate titles are
// reported as 400, matching the API's existing clients.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Public returns the message safe to show to a client.
func (e *Error) Public() string {
	if e.Kind == KindInternal || e.Message == "" {
		return InternalMessage
	}
	return e.Message
}

// Kind sentinels for errors.Is.
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrInternal     = &Error{Kind: KindInternal}
)

func Validation(msg string) *Error   { return &Error{Kind: KindValidation, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }

// Internal wraps an unexpected failure. The cause is kept for logging only.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: InternalMessage, Cause: cause}
}

// From converts any error into an *Error. Errors that are not already
// classified become internal errors.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
