// Package apperr defines the application error taxonomy.
//
// Every error that crosses a service boundary is an *Error carrying a Kind.
// The HTTP layer maps each kind to exactly one status code, so services never
// touch status codes and controllers never inspect error strings:
//
//	if user == nil {
//		return apperr.NotFound("User not found")
//	}
//
//	// controller side
//	response.Error(w, err) // picks 404 from the kind
//
// Wrapping preserves the kind through errors.Is / errors.As:
//
//	return apperr.Wrap(apperr.KindUpstream, "payment gateway", err)
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into one of a closed set of categories.
type Kind int

const (
	// KindUnexpected is the fallback for programmer errors and unknown
	// failures. Rendered as a generic 500 in production.
	KindUnexpected Kind = iota
	// KindValidation covers malformed or semantically invalid input. 422.
	KindValidation
	// KindBadRequest covers malformed identifiers and enum values. 400.
	KindBadRequest
	// KindUnauthenticated covers missing, invalid, or expired credentials. 401.
	KindUnauthenticated
	// KindForbidden covers authenticated callers lacking permission. 403.
	KindForbidden
	// KindNotFound covers well-formed lookups with no matching document. 404.
	KindNotFound
	// KindConflict covers uniqueness violations such as duplicate slugs. 409.
	KindConflict
	// KindTooLarge covers payloads over a size ceiling. 413.
	KindTooLarge
	// KindUpstream covers failures of an external dependency where no local
	// state changed. 502.
	KindUpstream
	// KindPartialFailure covers the checkout case where the charge was
	// captured but the order insert failed. Also 502, but with a distinct
	// body so callers and operators can tell the two apart.
	KindPartialFailure
)

// Error is the concrete error type carried across layers.
type Error struct {
	Kind    Kind
	Message string // safe to show to the client
	Err     error  // wrapped cause, internal only
	Fields  map[string]string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match on kind: errors.Is(err, &Error{Kind: KindNotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// ─── Constructors ─────────────────────────────────────────────────────────────

// New builds an *Error of the given kind with a client-safe message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap attaches a cause to a new *Error.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// Validation builds a 422-class error, optionally carrying per-field messages.
func Validation(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func BadRequest(msg string) *Error      { return New(KindBadRequest, msg) }
func Unauthenticated(msg string) *Error { return New(KindUnauthenticated, msg) }
func Forbidden(msg string) *Error       { return New(KindForbidden, msg) }
func NotFound(msg string) *Error        { return New(KindNotFound, msg) }
func Conflict(msg string) *Error        { return New(KindConflict, msg) }
func TooLarge(msg string) *Error        { return New(KindTooLarge, msg) }

// Upstream wraps a dependency failure where no local state changed.
func Upstream(msg string, err error) *Error { return Wrap(KindUpstream, msg, err) }

// PartialFailure wraps the captured-but-unpersisted checkout failure.
func PartialFailure(msg string, err error) *Error { return Wrap(KindPartialFailure, msg, err) }

// Unexpected wraps anything that should not happen.
func Unexpected(err error) *Error {
	return &Error{Kind: KindUnexpected, Message: "Something went wrong", Err: err}
}

// ─── Inspection ───────────────────────────────────────────────────────────────

// KindOf extracts the kind from any error chain. Non-taxonomy errors report
// KindUnexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// FieldsOf returns the per-field validation messages, if any.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// Status maps a kind to its HTTP status code. The mapping is total and
// deterministic; there is exactly one status per kind.
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindUpstream, KindPartialFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
