package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies failures for the HTTP envelope
type ErrorCode string

const (
	ErrCodeInvalidIdentifier ErrorCode = "INVALID_IDENTIFIER"
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden         ErrorCode = "FORBIDDEN"
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeConflict          ErrorCode = "CONFLICT"
	ErrCodeDependencyFailure ErrorCode = "DEPENDENCY_FAILURE"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// AppError carries a code, an HTTP status and optional detail lines.
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Errors     []string
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError with the same code, so errors.Is(err, ErrNotFound("")) works.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func NewAppError(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

func ErrInvalidIdentifier(field string) *AppError {
	return NewAppError(ErrCodeInvalidIdentifier, fmt.Sprintf("Invalid %s", field), http.StatusBadRequest)
}

func ErrValidation(message string, details ...string) *AppError {
	e := NewAppError(ErrCodeValidationFailed, message, http.StatusBadRequest)
	e.Errors = details
	return e
}

func ErrUnauthorized(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

func ErrForbidden(message string) *AppError {
	return NewAppError(ErrCodeForbidden, message, http.StatusForbidden)
}

func ErrNotFound(resource string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func ErrConflict(message string) *AppError {
	return NewAppError(ErrCodeConflict, message, http.StatusConflict)
}

func ErrDependency(message string, cause error) *AppError {
	e := NewAppError(ErrCodeDependencyFailure, message, http.StatusBadGateway)
	e.Cause = cause
	return e
}

func ErrInternal(message string, cause error) *AppError {
	e := NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
	e.Cause = cause
	return e
}

// AsAppError extracts the first AppError in the wrap chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
