package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error so handlers can map it to an HTTP
// status without inspecting message strings.
type Kind string

const (
	KindUnauthorized            Kind = "UNAUTHORIZED"
	KindForbidden               Kind = "FORBIDDEN"
	KindNotFound                Kind = "NOT_FOUND"
	KindValidation              Kind = "VALIDATION_ERROR"
	KindGenerationEmpty         Kind = "GENERATION_EMPTY"
	KindGenerationInvalidFormat Kind = "GENERATION_INVALID_FORMAT"
	KindInvalidTransition       Kind = "INVALID_TRANSITION"
	KindInternal                Kind = "INTERNAL"
)

// Error is a structured application error: a kind plus a caller-facing
// message. Detail carries diagnostics (e.g. the raw text-service output) that
// are safe to return but not part of the message.
type Error struct {
	Kind    Kind
	Message string
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an application error of a given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an application error wrapping an underlying cause
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithDetail attaches diagnostic detail to the error
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

// KindOf extracts the kind from err, or KindInternal for anything that is not
// an application error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the HTTP status code it should be reported with
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindInvalidTransition:
		return http.StatusBadRequest
	case KindGenerationEmpty, KindGenerationInvalidFormat:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-facing message for err, hiding internals for
// unexpected errors.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Something went wrong"
}

// Detail returns the diagnostic detail attached to err, if any
func Detail(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Detail
	}
	return ""
}
