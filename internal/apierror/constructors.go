package apierror

import (
	"fmt"
	"strings"
)

// InvalidCredentialsMessage is shared by every login failure so callers cannot
// tell an unknown email from a wrong password.
const InvalidCredentialsMessage = "Invalid email or password"

func NewErrValidation(message string) *APIError {
	return newErr(ErrValidationFailed, message, nil)
}

func NewErrEmailIsTaken(email string) *APIError {
	return newErr(ErrDuplicateEmail, "User with this email already exists", fmt.Errorf("email %q", email))
}

func NewErrDuplicateToken() *APIError {
	return newErr(ErrDuplicateToken, "Refresh token already issued", nil)
}

func NewErrInvalidCredentials() *APIError {
	return newErr(ErrInvalidCredentials, InvalidCredentialsMessage, nil)
}

// NewErrExpiredToken reports an expired token; kind is "access" or "refresh".
func NewErrExpiredToken(kind string) *APIError {
	return newErr(ErrExpiredToken, fmt.Sprintf("%s token has expired", capitalize(kind)), nil)
}

// NewErrInvalidToken reports a token that failed verification or lookup.
func NewErrInvalidToken(kind string) *APIError {
	return newErr(ErrInvalidToken, fmt.Sprintf("Invalid %s token", kind), nil)
}

func NewErrMissingAuthorizationToken() *APIError {
	return newErr(ErrMissingToken, "Access token is required", nil)
}

func NewErrMalformedAuthorizationHeader() *APIError {
	return newErr(ErrMalformedHeader, "Invalid authorization header format. Use: Bearer <token>", nil)
}

func NewErrUnauthenticated() *APIError {
	return newErr(ErrUnauthenticated, "Authentication required", nil)
}

// NewErrForbidden names every role that would have been let through.
func NewErrForbidden(roles ...string) *APIError {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, capitalize(r))
	}
	if len(names) == 0 {
		return newErr(ErrForbidden, "Access denied", nil)
	}
	return newErr(ErrForbidden, fmt.Sprintf("Access denied. %s privileges required", strings.Join(names, " or ")), nil)
}

func NewErrUserNotFound() *APIError {
	return newErr(ErrUserNotFound, "User not found", nil)
}

func NewErrNotFound(what string) *APIError {
	return newErr(ErrNotFound, fmt.Sprintf("%s not found", capitalize(what)), nil)
}

func NewErrInsufficientStock(available int) *APIError {
	return newErr(ErrInsufficientStock, fmt.Sprintf("Insufficient quantity. Only %d available", available), nil)
}

func NewErrTooManyRequests() *APIError {
	return newErr(ErrTooManyRequests, "Too many requests, please try again later", nil)
}

func NewErrInternalServerError(err error) *APIError {
	return newErr(ErrInternal, "Internal server error", err)
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
