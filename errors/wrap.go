package errors

import (
	"errors"
	"fmt"
)

// Wrap wraps an error with additional context while preserving the error
// chain. If err is nil, Wrap returns nil. If err is already an *Error, its
// code, category and component are carried forward.
func Wrap(err error, message string, opts ...Option) *Error {
	if err == nil {
		return nil
	}

	var monErr *Error
	if errors.As(err, &monErr) {
		wrapped := &Error{
			code:      monErr.code,
			category:  monErr.category,
			message:   message,
			cause:     err,
			component: monErr.component,
		}
		for _, opt := range opts {
			opt(wrapped)
		}
		return wrapped
	}

	return New(CodeInternal, message, append(opts, WithCause(err))...)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps an error under a specific error code.
func WrapWithCode(err error, code Code, message string, opts ...Option) *Error {
	if err == nil {
		return nil
	}
	opts = append(opts, WithCause(err))
	return New(code, message, opts...)
}

// Is checks if any error in the chain has the given error code.
func Is(err error, code Code) bool {
	var monErr *Error
	if errors.As(err, &monErr) {
		return monErr.code == code
	}
	return false
}

// CodeOf extracts the error code from an error, if available.
// Returns empty string if no *Error is in the chain.
func CodeOf(err error) Code {
	var monErr *Error
	if errors.As(err, &monErr) {
		return monErr.code
	}
	return ""
}

// CategoryOf extracts the error category from an error, if available.
// Returns empty string if no *Error is in the chain.
func CategoryOf(err error) Category {
	var monErr *Error
	if errors.As(err, &monErr) {
		return monErr.category
	}
	return ""
}

// IsUsage checks if the error is a caller mistake.
func IsUsage(err error) bool {
	return CategoryOf(err) == CategoryUsage
}

// IsDelivery checks if the error is an alert delivery failure.
func IsDelivery(err error) bool {
	return CategoryOf(err) == CategoryDelivery
}

// IsSampling checks if the error is a diagnostic sampling failure.
func IsSampling(err error) bool {
	return CategoryOf(err) == CategorySampling
}

// IsLogOnly checks if the error belongs to a category the monitor loop
// absorbs by logging rather than surfacing.
func IsLogOnly(err error) bool {
	return CategoryOf(err).LogOnly()
}

// Cause returns the root cause of the error chain.
func Cause(err error) error {
	for {
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		inner := unwrapper.Unwrap()
		if inner == nil {
			return err
		}
		err = inner
	}
}

// Join combines multiple errors into a single error.
// Uses errors.Join from the standard library.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// RecoverPanic converts a recovered panic value into an Error.
func RecoverPanic(recovered interface{}) *Error {
	if recovered == nil {
		return nil
	}
	var message string
	switch v := recovered.(type) {
	case error:
		message = v.Error()
	case string:
		message = v
	default:
		message = fmt.Sprintf("%v", v)
	}
	return New(CodePanic, message)
}
