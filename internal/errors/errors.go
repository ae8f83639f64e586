// Package errors provides error handling utilities.
package errors

import (
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInput indicates an input validation error
	TypeInput Type = "INPUT_ERROR"

	// TypeInvalidTerm indicates a billing term outside the accepted range
	TypeInvalidTerm Type = "INVALID_TERM"

	// TypeInvalidRate indicates an unusable rate card price
	TypeInvalidRate Type = "INVALID_RATE"

	// TypeInvalidRequestBody indicates a malformed gateway request body
	TypeInvalidRequestBody Type = "INVALID_REQUEST_BODY"

	// TypeMissingCredential indicates no credential source yielded a value.
	// Deployment-level; must not be retried automatically.
	TypeMissingCredential Type = "MISSING_CREDENTIAL"

	// TypeUpstreamParse indicates an unparsable upstream success body
	TypeUpstreamParse Type = "UPSTREAM_PARSE_ERROR"

	// TypeUpstream indicates an upstream network failure
	TypeUpstream Type = "UPSTREAM_ERROR"

	// TypeConfig indicates a configuration error. Fatal; the caller must
	// fix deployment config rather than retry.
	TypeConfig Type = "CONFIG_ERROR"

	// TypeProviderUnavailable indicates the payment API was unreachable
	// or answered 5xx. Caller-retriable.
	TypeProviderUnavailable Type = "PROVIDER_UNAVAILABLE"

	// TypeInvalidOrder indicates the payment provider rejected the order
	// with a 4xx. Must not be retried unmodified.
	TypeInvalidOrder Type = "INVALID_ORDER"

	// TypeNotFound indicates a resource not found error
	TypeNotFound Type = "NOT_FOUND"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// TypeOf returns the error's type, or TypeInternal for foreign errors.
func TypeOf(err error) Type {
	if e, ok := err.(*Error); ok {
		return e.Type
	}
	return TypeInternal
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// InvalidTerm creates an invalid billing term error
func InvalidTerm(term int) *Error {
	return Newf(TypeInvalidTerm, "invalid billing term: %d months", term)
}

// InvalidRate creates an invalid rate card price error
func InvalidRate(identifier, price string) *Error {
	return Newf(TypeInvalidRate, "invalid base price %s for %s", price, identifier)
}

// InvalidRequestBody creates a malformed body error
func InvalidRequestBody(cause error) *Error {
	return Wrap(TypeInvalidRequestBody, "request body is not valid JSON", cause)
}

// MissingCredential creates a missing credential error
func MissingCredential() *Error {
	return New(TypeMissingCredential, "no infrastructure credential available")
}

// UpstreamParse creates an unparsable upstream body error. The excerpt is
// expected to be bounded by the caller.
func UpstreamParse(excerpt string) *Error {
	return New(TypeUpstreamParse, "upstream returned unparsable body").
		WithContext("body_excerpt", excerpt)
}

// Upstream creates an upstream network error
func Upstream(message string, cause error) *Error {
	return Wrap(TypeUpstream, message, cause)
}

// Config creates a configuration error
func Config(message string) *Error {
	return New(TypeConfig, message)
}

// ProviderUnavailable creates a payment provider unavailability error
func ProviderUnavailable(message string, cause error) *Error {
	return Wrap(TypeProviderUnavailable, message, cause)
}

// InvalidOrder creates a rejected order error
func InvalidOrder(message string) *Error {
	return New(TypeInvalidOrder, message)
}

// NotFound creates a not found error
func NotFound(resourceType, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", resourceType, identifier)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
