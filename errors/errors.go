// Package errors provides the platform's error types.
package errors

import (
	"errors"
	"fmt"
)

// Standard error codes.
const (
	CodeInternal         = "INTERNAL_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeBadRequest       = "BAD_REQUEST"
	CodeValidation       = "VALIDATION_ERROR"
	CodeTimeout          = "TIMEOUT"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"
	CodeRateLimited      = "RATE_LIMITED"
	CodeOutOfServiceArea = "OUT_OF_SERVICE_AREA"
	CodeInvalidTrip      = "INVALID_TRIP"
)

// AppError represents an application error with code and message.
type AppError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches another error by code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetails adds details to the error.
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// New creates a new AppError.
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with an AppError.
func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors.

// Internal creates an internal error.
func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

// InternalWrap wraps an error as an internal error.
func InternalWrap(err error, message string) *AppError {
	return Wrap(err, CodeInternal, message)
}

// NotFound creates a not found error.
func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

// BadRequest creates a bad request error.
func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

// Validation creates a validation error.
func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

// ValidationWithDetails creates a validation error with field details.
func ValidationWithDetails(message string, details map[string]string) *AppError {
	return New(CodeValidation, message).WithDetails(details)
}

// Timeout creates a timeout error.
func Timeout(message string) *AppError {
	return New(CodeTimeout, message)
}

// Unavailable creates a service unavailable error.
func Unavailable(message string) *AppError {
	return New(CodeUnavailable, message)
}

// RateLimited creates a rate limited error.
func RateLimited(message string) *AppError {
	return New(CodeRateLimited, message)
}

// OutOfServiceArea indicates a trip endpoint that resolves to no pricing
// zone. The endpoint is "pickup" or "dropoff"; the offending coordinate goes
// into Details so booking flows can show which end of the trip is the
// problem.
func OutOfServiceArea(endpoint string, lat, lng float64) *AppError {
	return New(CodeOutOfServiceArea,
		fmt.Sprintf("%s is outside the priced service area", endpoint)).
		WithDetails(map[string]string{
			"endpoint": endpoint,
			"lat":      fmt.Sprintf("%f", lat),
			"lng":      fmt.Sprintf("%f", lng),
		})
}

// InvalidTrip indicates trip details that cannot be priced, such as a
// negative distance or a non-finite coordinate.
func InvalidTrip(message string) *AppError {
	return New(CodeInvalidTrip, message)
}

// Predicates.

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return Code(err) == CodeNotFound
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return Code(err) == CodeValidation
}

// IsOutOfServiceArea checks if the error is an out-of-service-area error.
func IsOutOfServiceArea(err error) bool {
	return Code(err) == CodeOutOfServiceArea
}

// IsInvalidTrip checks if the error is an invalid-trip error.
func IsInvalidTrip(err error) bool {
	return Code(err) == CodeInvalidTrip
}

// IsRateLimited checks if the error is a rate limited error.
func IsRateLimited(err error) bool {
	return Code(err) == CodeRateLimited
}

// Code returns the error code or empty string.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
