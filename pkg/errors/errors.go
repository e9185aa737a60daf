// Package errors turns every client-side failure into one descriptor the
// presentation layer can render.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Kind categorizes a failure
type Kind string

const (
	KindNetwork      Kind = "NETWORK_ERROR"
	KindBadRequest   Kind = "BAD_REQUEST"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindServer       Kind = "SERVER_ERROR"
	KindUnknown      Kind = "UNKNOWN_ERROR"
)

var defaultMessages = map[Kind]string{
	KindNetwork:      "Could not reach the server. Check your connection.",
	KindBadRequest:   "The request was invalid.",
	KindUnauthorized: "You need to log in to do that.",
	KindForbidden:    "You are not allowed to do that.",
	KindNotFound:     "That no longer exists.",
	KindConflict:     "That was already done.",
	KindServer:       "The server had a problem. Try again later.",
	KindUnknown:      "Something went wrong.",
}

// DefaultMessage returns the message used when the server supplies none
func DefaultMessage(kind Kind) string {
	if msg, ok := defaultMessages[kind]; ok {
		return msg
	}
	return defaultMessages[KindUnknown]
}

// Error is a classified failure
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	// Code is the server's machine-readable code, when it sent one
	Code    string
	Details any
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error of the same kind, so callers can write
// errors.Is(err, &Error{Kind: KindConflict})
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Kind == e.Kind
}

// New creates a descriptor with the kind's default message
func New(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Message: DefaultMessage(kind), Cause: cause}
}

// KindForStatus maps an HTTP status onto a kind
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusBadRequest:
		return KindBadRequest
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status >= 500 && status <= 599:
		return KindServer
	default:
		return KindUnknown
	}
}

type errorBody struct {
	Error   any    `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details"`
}

// FromResponse classifies a non-2xx response. The body's "error" string
// replaces the default message when the body decodes and it is non-empty.
func FromResponse(status int, body []byte) *Error {
	e := New(KindForStatus(status), nil)
	e.StatusCode = status

	var parsed errorBody
	if len(body) == 0 || jsoniter.Unmarshal(body, &parsed) != nil {
		return e
	}
	if msg, ok := parsed.Error.(string); ok && strings.TrimSpace(msg) != "" {
		e.Message = msg
	}
	e.Code = parsed.Code
	e.Details = parsed.Details
	return e
}

// Network classifies a request that was never answered
func Network(cause error) *Error {
	return New(KindNetwork, cause)
}

// Classify maps any error onto a descriptor. Descriptors pass through,
// cancellation and deadlines are network failures, anything else is unknown.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Network(err)
	}
	return New(KindUnknown, err)
}

// Format renders err as one user-visible line
func Format(err error) string {
	e := Classify(err)
	if e == nil {
		return ""
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%s, HTTP %d)", e.Message, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Kind)
}

// IsKind reports whether err classifies as kind
func IsKind(err error, kind Kind) bool {
	e := Classify(err)
	return e != nil && e.Kind == kind
}
