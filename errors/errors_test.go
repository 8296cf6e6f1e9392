package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

// --- Unit Tests ---

func TestCode_DefaultCategory(t *testing.T) {
	tests := []struct {
		code Code
		want Category
	}{
		{CodeInvalidConfig, CategoryUsage},
		{CodeInvalidTimeouts, CategoryUsage},
		{CodeAlreadyRegistered, CategoryUsage},
		{CodeMonitorClosed, CategoryUsage},
		{CodeSinkClosed, CategoryDelivery},
		{CodeSinkFull, CategoryDelivery},
		{CodeDeliveryFailed, CategoryDelivery},
		{CodeSerializeFailed, CategoryDelivery},
		{CodeSampleFailed, CategorySampling},
		{CodeSampleUnsupported, CategorySampling},
		{CodeStorageFailed, CategoryInternal},
		{CodePanic, CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.DefaultCategory(); got != tt.want {
				t.Errorf("DefaultCategory() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCategory_LogOnly(t *testing.T) {
	if !CategoryDelivery.LogOnly() {
		t.Error("delivery failures should be log-only")
	}
	if !CategorySampling.LogOnly() {
		t.Error("sampling failures should be log-only")
	}
	if CategoryUsage.LogOnly() {
		t.Error("usage errors must surface to the host")
	}
	if CategoryInternal.LogOnly() {
		t.Error("internal errors must surface to the host")
	}
}

func TestNew(t *testing.T) {
	err := New(CodeSampleFailed, "thread gone", WithComponent("gpu/compositor"))

	if err.Code() != CodeSampleFailed {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeSampleFailed)
	}
	if err.Category() != CategorySampling {
		t.Errorf("Category() = %v, want %v", err.Category(), CategorySampling)
	}
	if err.Component() != "gpu/compositor" {
		t.Errorf("Component() = %q, want gpu/compositor", err.Component())
	}
	if err.Error() != "thread gone" {
		t.Errorf("Error() = %q, want thread gone", err.Error())
	}
}

func TestFromCode(t *testing.T) {
	err := FromCode(CodeMonitorClosed)
	if err.Error() != CodeMonitorClosed.Description() {
		t.Errorf("Error() = %q, want %q", err.Error(), CodeMonitorClosed.Description())
	}
}

func TestError_WithCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := New(CodeDeliveryFailed, "publish alert", WithCause(cause))

	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be in the error chain")
	}
	if err.Error() != "publish alert: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
}

// --- Wrap Tests ---

func TestWrap_PreservesCode(t *testing.T) {
	inner := New(CodeSinkFull, "buffer exhausted")
	wrapped := Wrap(inner, "sending transient alert")

	if wrapped.Code() != CodeSinkFull {
		t.Errorf("Code() = %v, want %v", wrapped.Code(), CodeSinkFull)
	}
	if wrapped.Category() != CategoryDelivery {
		t.Errorf("Category() = %v, want %v", wrapped.Category(), CategoryDelivery)
	}
	if !stderrors.Is(wrapped, inner) {
		t.Error("expected inner error in chain")
	}
}

func TestWrap_UnknownErrorBecomesInternal(t *testing.T) {
	wrapped := Wrap(fmt.Errorf("boom"), "scanning table")
	if wrapped.Code() != CodeInternal {
		t.Errorf("Code() = %v, want %v", wrapped.Code(), CodeInternal)
	}
}

func TestWrap_Nil(t *testing.T) {
	if Wrap(nil, "no-op") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if WrapWithCode(nil, CodeDeliveryFailed, "no-op") != nil {
		t.Error("WrapWithCode(nil) should return nil")
	}
}

func TestWrapWithCode(t *testing.T) {
	err := WrapWithCode(fmt.Errorf("disk full"), CodeStorageFailed, "insert alert")
	if err.Code() != CodeStorageFailed {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeStorageFailed)
	}
}

func TestIs_And_CodeOf(t *testing.T) {
	err := FromCode(CodeAlreadyRegistered)
	deep := fmt.Errorf("registering handle: %w", err)

	if !Is(deep, CodeAlreadyRegistered) {
		t.Error("expected Is to find the code through the chain")
	}
	if CodeOf(deep) != CodeAlreadyRegistered {
		t.Errorf("CodeOf() = %v, want %v", CodeOf(deep), CodeAlreadyRegistered)
	}
	if Is(deep, CodeMonitorClosed) {
		t.Error("Is matched the wrong code")
	}
	if CodeOf(fmt.Errorf("plain")) != "" {
		t.Error("CodeOf(plain error) should be empty")
	}
}

func TestCategoryHelpers(t *testing.T) {
	if !IsDelivery(FromCode(CodeDeliveryFailed)) {
		t.Error("IsDelivery failed")
	}
	if !IsSampling(FromCode(CodeSampleFailed)) {
		t.Error("IsSampling failed")
	}
	if !IsUsage(FromCode(CodeInvalidTimeouts)) {
		t.Error("IsUsage failed")
	}
	if !IsLogOnly(FromCode(CodeSampleFailed)) {
		t.Error("sampling failures should be log-only")
	}
	if IsLogOnly(FromCode(CodeInvalidConfig)) {
		t.Error("usage errors should not be log-only")
	}
}

func TestCause(t *testing.T) {
	root := fmt.Errorf("root")
	err := Wrap(Wrap(root, "mid"), "outer")
	if Cause(err) != root {
		t.Errorf("Cause() = %v, want root", Cause(err))
	}
}

func TestRecoverPanic(t *testing.T) {
	tests := []struct {
		name      string
		recovered interface{}
		want      string
	}{
		{"error value", fmt.Errorf("bad state"), "bad state"},
		{"string value", "index out of range", "index out of range"},
		{"other value", 42, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RecoverPanic(tt.recovered)
			if err.Code() != CodePanic {
				t.Errorf("Code() = %v, want %v", err.Code(), CodePanic)
			}
			if err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
			}
		})
	}

	if RecoverPanic(nil) != nil {
		t.Error("RecoverPanic(nil) should return nil")
	}
}
