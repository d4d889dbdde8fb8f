package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeConfig       ErrorCode = "CONFIG"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrUserNotFound    = NewError(ErrCodeNotFound, "user not found")
	ErrProductNotFound = NewError(ErrCodeNotFound, "product not found")
	ErrSessionNotFound = NewError(ErrCodeNotFound, "session not found")
	ErrEmailTaken      = NewError(ErrCodeConflict, "email already registered")
	ErrInvalidPayload  = NewError(ErrCodeInvalid, "invalid payload")

	// ErrInvalidCredentials covers unknown email, password-less accounts and
	// wrong passwords alike so responses cannot be used for enumeration.
	ErrInvalidCredentials = NewError(ErrCodeUnauthorized, "invalid email or password")

	// ErrUnauthenticated is returned when no identity resolves for a request.
	ErrUnauthenticated = NewError(ErrCodeUnauthorized, "authentication required")

	// ErrForbidden is returned when an authenticated identity lacks a
	// permitted role. The required role set is recorded in the audit trail,
	// not in the response.
	ErrForbidden = NewError(ErrCodeForbidden, "access denied")

	// ErrEmptyRoleSet flags a guard call with no permitted roles. This is a
	// programming error and never degrades to allow-all.
	ErrEmptyRoleSet = NewError(ErrCodeConfig, "authorization guard called with empty role set")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
