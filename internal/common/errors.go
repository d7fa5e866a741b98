package common

import (
	"errors"
	"fmt"
)

// ErrKind classifies a service-layer failure. Handlers map kinds to HTTP
// status codes in one place; anything unclassified is treated as internal.
type ErrKind int

const (
	KindInternal ErrKind = iota
	KindInvalidInput
	KindNotFound
	KindForbidden
	KindConflict
	KindExternal
)

func (k ErrKind) String() string {
	switch k {
	case KindInvalidInput:
		return "INVALID_INPUT"
	case KindNotFound:
		return "NOT_FOUND"
	case KindForbidden:
		return "FORBIDDEN"
	case KindConflict:
		return "CONFLICT"
	case KindExternal:
		return "EXTERNAL_SERVICE_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// AppError is a tagged error carrying a kind and a caller-facing message.
type AppError struct {
	Kind    ErrKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewInvalidInput(message string) *AppError {
	return &AppError{Kind: KindInvalidInput, Message: message}
}

func NewNotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func NewForbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

func NewConflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func NewExternal(message string, err error) *AppError {
	return &AppError{Kind: KindExternal, Message: message, Err: err}
}

func NewInternal(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain. Unclassified errors are
// internal, never anything more specific.
func KindOf(err error) ErrKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-facing message for an error. Internal details
// of unclassified errors are not leaked to clients.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
