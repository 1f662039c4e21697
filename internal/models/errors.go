package models

import "errors"

// ErrorKind classifies every failure a session or cart operation can surface.
// Collaborator failures are always converted to one of these kinds before they
// cross a component boundary.
type ErrorKind string

const (
	// KindUnauthenticated marks an operation attempted with no session.
	KindUnauthenticated ErrorKind = "unauthenticated"
	// KindInvalidCredentials marks a rejected sign-in.
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	// KindEmailUnconfirmed marks a sign-in before the address was confirmed.
	KindEmailUnconfirmed ErrorKind = "email_unconfirmed"
	// KindValidation marks locally rejected input, e.g. a password policy
	// violation or a missing size selection.
	KindValidation ErrorKind = "validation"
	// KindRemoteFailure wraps a network or store error, with the
	// collaborator's message passed through.
	KindRemoteFailure ErrorKind = "remote_failure"
	// KindInvalidResetLink marks a password-reset link missing its tokens.
	KindInvalidResetLink ErrorKind = "invalid_reset_link"
)

// Error is a classified error carrying a human-readable message.
type Error struct {
	// Kind is the taxonomy bucket for this failure.
	Kind ErrorKind
	// Message is safe to surface to the user.
	Message string
	// cause is the underlying collaborator error, if any.
	cause error
}

// E builds a classified error wrapping cause. cause may be nil.
func E(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.cause }

// KindOf returns the classification of err, or "" when err is not a
// classified error.
func KindOf(err error) ErrorKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
