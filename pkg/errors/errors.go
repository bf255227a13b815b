// Package errors defines custom error types and error handling utilities for the coursehub service.
// Every error that reaches the HTTP boundary carries a machine-readable code and an HTTP status.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/turtacn/coursehub/pkg/constants"
)

// ================================================================================
// Base Error Interface
// ================================================================================

// AppError represents a structured error with additional metadata
type AppError interface {
	error

	// Code returns the machine-readable error code
	Code() constants.ErrorCode

	// HTTPStatus returns the HTTP status code
	HTTPStatus() int

	// Description returns a client-safe description
	Description() string

	// Unwrap returns the underlying error for error chain support
	Unwrap() error

	// WithCause adds a cause error to the error chain
	WithCause(cause error) AppError

	// WithMetadata adds additional context metadata
	WithMetadata(key string, value interface{}) AppError

	// Metadata returns all metadata
	Metadata() map[string]interface{}
}

// baseError is the internal implementation of AppError
type baseError struct {
	code        constants.ErrorCode
	httpStatus  int
	description string
	cause       error
	metadata    map[string]interface{}
}

// Error implements the error interface. The cause is deliberately left out so
// parser and driver messages never end up in client-facing text.
func (e *baseError) Error() string {
	return fmt.Sprintf("%s: %s", e.code, e.description)
}

func (e *baseError) Code() constants.ErrorCode { return e.code }

func (e *baseError) HTTPStatus() int { return e.httpStatus }

func (e *baseError) Description() string { return e.description }

func (e *baseError) Unwrap() error { return e.cause }

func (e *baseError) WithCause(cause error) AppError {
	e.cause = cause
	return e
}

func (e *baseError) WithMetadata(key string, value interface{}) AppError {
	if e.metadata == nil {
		e.metadata = make(map[string]interface{})
	}
	e.metadata[key] = value
	return e
}

func (e *baseError) Metadata() map[string]interface{} {
	return e.metadata
}

// NewError creates a new AppError with the specified parameters
func NewError(code constants.ErrorCode, httpStatus int, description string) AppError {
	return &baseError{
		code:        code,
		httpStatus:  httpStatus,
		description: description,
	}
}

// ================================================================================
// Authentication & Authorization Errors
// ================================================================================

// ErrUnauthenticated is returned for bad signatures and missing required claims.
func ErrUnauthenticated(description string) AppError {
	return NewError(constants.ErrCodeUnauthenticated, http.StatusUnauthorized, description)
}

// ErrTokenExpired is returned for a correctly signed token whose expiry has passed.
func ErrTokenExpired() AppError {
	return NewError(constants.ErrCodeTokenExpired, constants.StatusTokenExpired, "Token has expired")
}

// ErrForbidden is returned when the caller is authenticated but not privileged.
func ErrForbidden(description string) AppError {
	return NewError(constants.ErrCodeForbidden, http.StatusForbidden, description)
}

// ErrMalformedRequest is returned when a header or body cannot be parsed.
func ErrMalformedRequest(description string) AppError {
	return NewError(constants.ErrCodeMalformedRequest, http.StatusBadRequest, description)
}

// ErrSignatureInvalid is the single failure kind of a signing backend decode.
func ErrSignatureInvalid() AppError {
	return NewError(constants.ErrCodeSignatureInvalid, http.StatusUnauthorized, "Token signature verification failed")
}

// ErrInvalidCredentials is returned by login for unknown users and wrong passwords alike.
func ErrInvalidCredentials() AppError {
	return NewError(constants.ErrCodeInvalidCredentials, http.StatusNotFound, "Invalid Credentials")
}

// ErrRequestCanceled is returned when the request context ends before a decision is made.
func ErrRequestCanceled(cause error) AppError {
	return NewError(constants.ErrCodeRequestCanceled, http.StatusRequestTimeout, "Request was canceled").WithCause(cause)
}

// ================================================================================
// General Errors
// ================================================================================

// ErrInvalidRequest creates an invalid_request error
func ErrInvalidRequest(description string) AppError {
	return NewError(constants.ErrCodeInvalidRequest, http.StatusUnprocessableEntity, description)
}

// ErrNotFound creates a not_found error for a resource id.
func ErrNotFound(resource, id string) AppError {
	return NewError(constants.ErrCodeNotFound, http.StatusNotFound,
		fmt.Sprintf("Could not find %s with ID: %s", resource, id)).
		WithMetadata("resource", resource)
}

// ErrConflict creates a conflict error. The original API answered 400 here.
func ErrConflict(description string) AppError {
	return NewError(constants.ErrCodeConflict, http.StatusBadRequest, description)
}

// ErrRateLimitExceeded creates a rate limit exceeded error
func ErrRateLimitExceeded(scope string, limit int) AppError {
	return NewError(constants.ErrCodeRateLimitExceeded, http.StatusTooManyRequests,
		"Rate limit exceeded. Please try again later.").
		WithMetadata("scope", scope).
		WithMetadata("limit", limit)
}

// ErrServerError creates a server_error error
func ErrServerError(description string) AppError {
	return NewError(constants.ErrCodeServerError, http.StatusInternalServerError, description)
}

// ErrDatabaseOperation wraps a persistence failure.
func ErrDatabaseOperation(cause error) AppError {
	return ErrServerError("database operation failed").WithCause(cause)
}

// ================================================================================
// Error Validation Utilities
// ================================================================================

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (AppError, bool) {
	var appErr AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err's chain holds an AppError with the given code.
func IsCode(err error, code constants.ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code() == code
}

// Is and As re-export the standard helpers so callers need only one errors import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }

// New mirrors errors.New.
func New(text string) error { return stderrors.New(text) }

// ================================================================================
// Error Response Builder
// ================================================================================

// ErrorResponse represents the JSON structure for error responses
type ErrorResponse struct {
	Error            string                 `json:"error"`
	ErrorDescription string                 `json:"error_description"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

// ToErrorResponse converts an AppError to an ErrorResponse
func ToErrorResponse(err AppError) *ErrorResponse {
	return &ErrorResponse{
		Error:            string(err.Code()),
		ErrorDescription: err.Description(),
		Metadata:         err.Metadata(),
	}
}

// ToGenericErrorResponse converts any error to an ErrorResponse
func ToGenericErrorResponse(err error) (int, *ErrorResponse) {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus(), ToErrorResponse(appErr)
	}

	return http.StatusInternalServerError, &ErrorResponse{
		Error:            string(constants.ErrCodeServerError),
		ErrorDescription: "An unexpected error occurred",
	}
}

// ShouldLogError determines if an error should be logged at error level
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus() >= http.StatusInternalServerError
	}
	return true
}
