package errors

import (
	"fmt"
	"time"
)

// MonitorError is the interface for all structured errors in hangwatch.
// It extends the standard error interface with the context needed to decide
// whether a failure is absorbed by logging or surfaced to the host.
type MonitorError interface {
	error

	// Code returns the specific error code identifying the failure type.
	Code() Code

	// Category returns the error category.
	Category() Category

	// Component returns the monitored component involved, if any.
	Component() string

	// Unwrap returns the underlying error, if any.
	Unwrap() error
}

// Error is the concrete implementation of MonitorError.
type Error struct {
	code      Code
	category  Category
	message   string
	cause     error
	component string
	timestamp time.Time
}

var _ MonitorError = (*Error)(nil)

// Error returns the error message.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Code returns the error code.
func (e *Error) Code() Code {
	return e.code
}

// Category returns the error category.
func (e *Error) Category() Category {
	return e.category
}

// Component returns the component identity string, if set.
func (e *Error) Component() string {
	return e.component
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Timestamp returns when the error occurred.
func (e *Error) Timestamp() time.Time {
	return e.timestamp
}

// Option is a functional option for configuring an Error.
type Option func(*Error)

// WithCategory overrides the code's default category.
func WithCategory(cat Category) Option {
	return func(e *Error) {
		e.category = cat
	}
}

// WithComponent records the monitored component the failure relates to.
func WithComponent(component string) Option {
	return func(e *Error) {
		e.component = component
	}
}

// WithCause sets the underlying cause.
func WithCause(cause error) Option {
	return func(e *Error) {
		e.cause = cause
	}
}

// New creates a new Error with the given code and message.
func New(code Code, message string, opts ...Option) *Error {
	e := &Error{
		code:      code,
		category:  code.DefaultCategory(),
		message:   message,
		timestamp: time.Now(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Newf creates a new Error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// FromCode creates an error with the default description for the code.
func FromCode(code Code, opts ...Option) *Error {
	return New(code, code.Description(), opts...)
}

// DeliveryFailed creates a delivery failure error for a component.
func DeliveryFailed(component string, cause error) *Error {
	return New(CodeDeliveryFailed, "alert delivery failed",
		WithComponent(component), WithCause(cause))
}

// SampleFailed creates a sampling failure error for a component.
func SampleFailed(component string, cause error) *Error {
	return New(CodeSampleFailed, "diagnostic sample failed",
		WithComponent(component), WithCause(cause))
}
