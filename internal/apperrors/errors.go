// Package apperrors defines the business error taxonomy surfaced by the
// service layer. Handlers map kinds to HTTP status codes; anything that is
// not an *Error is treated as an unexpected internal failure.
package apperrors

import "errors"

type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindForbidden         Kind = "FORBIDDEN"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindInvalidState      Kind = "INVALID_STATE"
	KindPaymentIncomplete Kind = "PAYMENT_INCOMPLETE"
	KindInvalidAmount     Kind = "INVALID_AMOUNT"
	KindMalformedCode     Kind = "MALFORMED_CODE"
	KindInvalidInput      Kind = "INVALID_INPUT"
	KindDuplicate         Kind = "DUPLICATE"
	KindUnauthorized      Kind = "UNAUTHORIZED"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error // Optional wrapped cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, apperrors.E(kind, "")) style matching by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Message == "" || t.Message == e.Message)
}

// E builds a business error of the given kind.
func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds a business error that carries an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err if it is a business error, or "" otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is a business error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
