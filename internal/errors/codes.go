package errors

import "net/http"

// ErrorCode represents the type of error
type ErrorCode string

const (
	ErrBadRequest     ErrorCode = "BAD_REQUEST"
	ErrUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrForbidden      ErrorCode = "FORBIDDEN"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrConflict       ErrorCode = "CONFLICT"
	ErrPayloadTooBig  ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrRateLimited    ErrorCode = "RATE_LIMITED"
	ErrServerError    ErrorCode = "SERVER_ERROR"
	ErrServiceUnavail ErrorCode = "SERVICE_UNAVAILABLE"
)

// StatusCodeMap maps ErrorCode to HTTP status code
var StatusCodeMap = map[ErrorCode]int{
	ErrBadRequest:     http.StatusBadRequest,
	ErrUnauthorized:   http.StatusUnauthorized,
	ErrForbidden:      http.StatusForbidden,
	ErrNotFound:       http.StatusNotFound,
	ErrConflict:       http.StatusConflict,
	ErrPayloadTooBig:  http.StatusRequestEntityTooLarge,
	ErrRateLimited:    http.StatusTooManyRequests,
	ErrServerError:    http.StatusInternalServerError,
	ErrServiceUnavail: http.StatusServiceUnavailable,
}

// StatusCode returns the HTTP status code for this error code
func (e ErrorCode) StatusCode() int {
	if code, ok := StatusCodeMap[e]; ok {
		return code
	}
	return http.StatusInternalServerError
}
