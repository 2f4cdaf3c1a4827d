package domain

import "errors"

// Failure kinds. Every error returned by a core service matches exactly one
// of these with errors.Is.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("access forbidden")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrOperationFailed = errors.New("operation failed")
	ErrTooManyAttempts = errors.New("too many attempts")
)

// Error pairs a failure kind with a message that is safe to show to the caller.
// Err keeps the underlying cause for logging; it is never rendered.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

var (
	ErrInvalidToken       = &Error{Kind: ErrUnauthenticated, Message: "invalid token"}
	ErrInvalidCredentials = &Error{Kind: ErrUnauthenticated, Message: "invalid credentials"}
	ErrAccountNotFound    = &Error{Kind: ErrNotFound, Message: "user not found"}
	ErrTaskNotFound       = &Error{Kind: ErrNotFound, Message: "task not found"}
	ErrEmailTaken         = &Error{Kind: ErrConflict, Message: "email already registered"}
	ErrNotAccountOwner    = &Error{Kind: ErrForbidden, Message: "you are not allowed to change this user"}
	ErrNotTaskOwner       = &Error{Kind: ErrForbidden, Message: "you are not allowed to change this task"}
	ErrLoginLocked        = &Error{Kind: ErrTooManyAttempts, Message: "too many failed login attempts, try again later"}
)

// Invalid builds a validation error with the given message.
func Invalid(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

// Failed wraps an unexpected infrastructure error. msg is what the caller sees.
func Failed(msg string, err error) error {
	return &Error{Kind: ErrOperationFailed, Message: msg, Err: err}
}
