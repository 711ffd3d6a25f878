package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so transports can map them to a stable status.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindAuthentication ErrorKind = "authentication"
	KindAuthorization  ErrorKind = "authorization"
	KindNotFound       ErrorKind = "not_found"
	KindConflict       ErrorKind = "conflict"
	KindUnavailable    ErrorKind = "unavailable"
	KindInternal       ErrorKind = "internal"
)

// Error is the application error carried from services to the HTTP layer.
// Reason is short and machine readable, Message is safe to show to users.
type Error struct {
	Kind    ErrorKind
	Reason  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches errors of the same kind and reason so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Reason == e.Reason
}

var (
	ErrInvalidAmount      = &Error{Kind: KindValidation, Reason: "validation_failed", Message: "amount must be a positive decimal"}
	ErrUnauthenticated    = &Error{Kind: KindAuthentication, Reason: "unauthenticated", Message: "missing or invalid token"}
	ErrTokenExpired       = &Error{Kind: KindAuthentication, Reason: "token_expired", Message: "token expired"}
	ErrInvalidCredentials = &Error{Kind: KindAuthentication, Reason: "invalid_credentials", Message: "invalid credentials"}
	ErrForbidden          = &Error{Kind: KindAuthorization, Reason: "forbidden", Message: "not authorized"}
	ErrNotFound           = &Error{Kind: KindNotFound, Reason: "not_found", Message: "resource not found"}
	ErrEmailTaken         = &Error{Kind: KindConflict, Reason: "email_taken", Message: "user already exists"}
	ErrExportUnavailable  = &Error{Kind: KindUnavailable, Reason: "export_unavailable", Message: "statement storage is not configured"}
)

// Validation builds a validation error with a custom message.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Reason: "validation_failed", Message: msg}
}

// Internal wraps an unexpected failure. The cause is kept for logs only.
func Internal(err error) error {
	return &Error{Kind: KindInternal, Reason: "internal_error", Message: "internal server error", Err: err}
}

// KindOf reports the classification of err; unclassified errors are internal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
