package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed operation so callers can decide how to notify the user.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindAuthentication    ErrorKind = "authentication"
	KindConflict          ErrorKind = "conflict"
	KindNotAuthenticated  ErrorKind = "not_authenticated"
	KindForbidden         ErrorKind = "forbidden"
	KindNotFound          ErrorKind = "not_found"
	KindEventFull         ErrorKind = "event_full"
	KindAlreadyRegistered ErrorKind = "already_registered"
	KindNotRegistered     ErrorKind = "not_registered"
	KindInFlight          ErrorKind = "in_flight"
	KindBackend           ErrorKind = "backend"
	KindNotImplemented    ErrorKind = "not_implemented"
)

// Error is the failure half of every mutating operation's result.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind, so errors.Is(err, ErrEventFull) holds for any event_full error.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidation         = &Error{Kind: KindValidation, Message: "invalid input"}
	ErrInvalidCredentials = &Error{Kind: KindAuthentication, Message: "invalid credentials"}
	ErrEmailInUse         = &Error{Kind: KindConflict, Message: "email already exists"}
	ErrNotAuthenticated   = &Error{Kind: KindNotAuthenticated, Message: "not signed in"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "not allowed for this role"}
	ErrEventNotFound      = &Error{Kind: KindNotFound, Message: "event not found"}
	ErrEventFull          = &Error{Kind: KindEventFull, Message: "event is full"}
	ErrAlreadyRegistered  = &Error{Kind: KindAlreadyRegistered, Message: "already registered for this event"}
	ErrNotRegistered      = &Error{Kind: KindNotRegistered, Message: "not registered for this event"}
	ErrInFlight           = &Error{Kind: KindInFlight, Message: "request already in progress"}
	ErrBackend            = &Error{Kind: KindBackend, Message: "backend request failed"}
	ErrNotImplemented     = &Error{Kind: KindNotImplemented, Message: "coming soon"}
)

// NewError builds an error of the given kind.
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validationf builds a validation error with a formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// BackendError wraps a transport or server failure.
func BackendError(op string, err error) *Error {
	return &Error{Kind: KindBackend, Message: op + " failed", Err: err}
}

// KindOf returns the kind of err, or KindBackend for untyped errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindBackend
}
