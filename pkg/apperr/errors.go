package apperr

import (
	"errors"
	"fmt"
)

// Errors shared by the services and mapped onto HTTP statuses by Respond.
var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCollection  = errors.New("invalid collection")
)

// Error carries a client facing message on top of one of the sentinels above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Validation builds an ErrValidation with a formatted message.
func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds an ErrConflict with the given message.
func Conflict(message string) error {
	return &Error{Kind: ErrConflict, Message: message}
}

// NotFound builds an ErrNotFound naming the missing resource.
func NotFound(resource string) error {
	return &Error{Kind: ErrNotFound, Message: resource + " not found"}
}

// InvalidCollection builds an ErrInvalidCollection for name.
func InvalidCollection(name string) error {
	return &Error{Kind: ErrInvalidCollection, Message: fmt.Sprintf("Invalid collection: %s", name)}
}
