package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents application error codes surfaced at the HTTP edge.
type ErrorCode string

const (
	ErrCodeInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeRateLimit          ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
	ErrCodeCatalogDown        ErrorCode = "CATALOG_UNAVAILABLE"
	ErrCodeSessionStoreDown   ErrorCode = "SESSION_STORE_UNAVAILABLE"
	ErrCodeEntitlementDown    ErrorCode = "ENTITLEMENT_UNAVAILABLE"
	ErrCodeStoreInconsistency ErrorCode = "STORE_INCONSISTENCY"
)

// AppError carries an error code, user-safe message and HTTP status.
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
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

// New creates a new application error.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an existing error with an application error.
func Wrap(err error, code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Cause:      err,
	}
}

// Common constructors.

func NewInvalidInput(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

func NewNotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func NewUnauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

func NewForbidden(message string) *AppError {
	return New(ErrCodeForbidden, message, http.StatusForbidden)
}

func NewRateLimit() *AppError {
	return New(ErrCodeRateLimit, "rate limit exceeded", http.StatusTooManyRequests)
}

func NewInternal(message string) *AppError {
	return New(ErrCodeInternal, message, http.StatusInternalServerError)
}

func NewCatalogUnavailable(err error) *AppError {
	return Wrap(err, ErrCodeCatalogDown, "content catalog temporarily unavailable", http.StatusServiceUnavailable)
}

func NewSessionStoreUnavailable(err error) *AppError {
	return Wrap(err, ErrCodeSessionStoreDown, "session store temporarily unavailable", http.StatusServiceUnavailable)
}

func NewEntitlementUnavailable(err error) *AppError {
	return Wrap(err, ErrCodeEntitlementDown, "entitlement service temporarily unavailable", http.StatusServiceUnavailable)
}

func NewStoreInconsistency(err error) *AppError {
	return Wrap(err, ErrCodeStoreInconsistency, "store consistency error", http.StatusInternalServerError)
}

// GetAppError extracts an AppError from an error chain, or nil.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
