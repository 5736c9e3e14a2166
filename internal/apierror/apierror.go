// Package apierror defines the client-facing error taxonomy. Every error a handler
// renders is either an *APIError or gets converted into an internal one.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies the kind of failure independently of its message.
type Code string

const (
	CodeValidationFailed   Code = "validation_failed"
	CodeDuplicateEmail     Code = "duplicate_email"
	CodeDuplicateToken     Code = "duplicate_token"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeExpiredToken       Code = "expired_token"
	CodeInvalidToken       Code = "invalid_token"
	CodeMissingToken       Code = "missing_token"
	CodeMalformedHeader    Code = "malformed_header"
	CodeUnauthenticated    Code = "unauthenticated"
	CodeForbidden          Code = "forbidden"
	CodeUserNotFound       Code = "user_not_found"
	CodeNotFound           Code = "not_found"
	CodeInsufficientStock  Code = "insufficient_stock"
	CodeTooManyRequests    Code = "too_many_requests"
	CodeInternal           Code = "internal"
)

// APIError is an error with an HTTP status and a message safe to show to clients.
type APIError struct {
	Code    Code
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches any *APIError with the same code.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// From returns err as an *APIError, converting unknown errors into an internal one.
func From(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewErrInternalServerError(err)
}

// Sentinels usable as errors.Is targets.
var (
	ErrValidationFailed   = &APIError{Code: CodeValidationFailed, Status: http.StatusBadRequest}
	ErrDuplicateEmail     = &APIError{Code: CodeDuplicateEmail, Status: http.StatusBadRequest}
	ErrDuplicateToken     = &APIError{Code: CodeDuplicateToken, Status: http.StatusConflict}
	ErrInvalidCredentials = &APIError{Code: CodeInvalidCredentials, Status: http.StatusUnauthorized}
	ErrExpiredToken       = &APIError{Code: CodeExpiredToken, Status: http.StatusUnauthorized}
	ErrInvalidToken       = &APIError{Code: CodeInvalidToken, Status: http.StatusUnauthorized}
	ErrMissingToken       = &APIError{Code: CodeMissingToken, Status: http.StatusUnauthorized}
	ErrMalformedHeader    = &APIError{Code: CodeMalformedHeader, Status: http.StatusUnauthorized}
	ErrUnauthenticated    = &APIError{Code: CodeUnauthenticated, Status: http.StatusUnauthorized}
	ErrForbidden          = &APIError{Code: CodeForbidden, Status: http.StatusForbidden}
	ErrUserNotFound       = &APIError{Code: CodeUserNotFound, Status: http.StatusUnauthorized}
	ErrNotFound           = &APIError{Code: CodeNotFound, Status: http.StatusNotFound}
	ErrInsufficientStock  = &APIError{Code: CodeInsufficientStock, Status: http.StatusBadRequest}
	ErrTooManyRequests    = &APIError{Code: CodeTooManyRequests, Status: http.StatusTooManyRequests}
	ErrInternal           = &APIError{Code: CodeInternal, Status: http.StatusInternalServerError}
)

func newErr(proto *APIError, message string, err error) *APIError {
	return &APIError{Code: proto.Code, Status: proto.Status, Message: message, Err: err}
}
