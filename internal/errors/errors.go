package errors

import (
	"fmt"
	"net/http"
)

// APIError is the error every handler responds with. It serializes to
// {"error": message, "code": code, "details": ...}.
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"error"`
	Field   string    `json:"field,omitempty"`
	Details any       `json:"details,omitempty"`
	Status  int       `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newAPIError(code ErrorCode, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Status:  code.StatusCode(),
	}
}

// NotFound creates a NOT_FOUND error
func NotFound(resource string) *APIError {
	return newAPIError(ErrNotFound, fmt.Sprintf("%s not found", resource))
}

// Unauthorized creates an UNAUTHORIZED error
func Unauthorized(message string) *APIError {
	return newAPIError(ErrUnauthorized, message)
}

// Forbidden creates a FORBIDDEN error
func Forbidden(message string) *APIError {
	return newAPIError(ErrForbidden, message)
}

// Conflict creates a CONFLICT error
func Conflict(message string) *APIError {
	return newAPIError(ErrConflict, message)
}

// BadRequest creates a BAD_REQUEST error
func BadRequest(message string) *APIError {
	return newAPIError(ErrBadRequest, message)
}

// ValidationError creates a BAD_REQUEST error tied to one input field
func ValidationError(field, message string) *APIError {
	err := newAPIError(ErrBadRequest, message)
	err.Field = field
	return err
}

// PayloadTooLarge creates a PAYLOAD_TOO_LARGE error
func PayloadTooLarge(message string) *APIError {
	return newAPIError(ErrPayloadTooBig, message)
}

// ServerError creates a SERVER_ERROR. The message is what the client sees,
// so callers pass a generic one and log the cause separately.
func ServerError(message string) *APIError {
	if message == "" {
		message = "internal server error"
	}
	return newAPIError(ErrServerError, message)
}

// RateLimited creates a RATE_LIMITED error
func RateLimited(message string) *APIError {
	if message == "" {
		message = "rate limit exceeded"
	}
	return newAPIError(ErrRateLimited, message)
}

// ServiceUnavailable creates a SERVICE_UNAVAILABLE error
func ServiceUnavailable(service string) *APIError {
	return &APIError{
		Code:    ErrServiceUnavail,
		Message: fmt.Sprintf("%s is temporarily unavailable", service),
		Status:  http.StatusServiceUnavailable,
	}
}

// WithDetails adds additional details to an error
func (e *APIError) WithDetails(details any) *APIError {
	e.Details = details
	return e
}
