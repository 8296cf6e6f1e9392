package errors

// Category classifies failures by the stage of the monitoring pipeline
// they occur in.
type Category string

// Failure categories.
const (
	// CategoryUsage indicates the host misused the API.
	// Examples: missing sink, inverted timeouts, duplicate registration.
	CategoryUsage Category = "usage"

	// CategoryDelivery indicates an alert could not reach its sink.
	// Examples: closed transport, full buffer, unreachable consumer.
	CategoryDelivery Category = "delivery"

	// CategorySampling indicates diagnostic capture failed.
	// Examples: component thread gone, platform API error.
	CategorySampling Category = "sampling"

	// CategoryInternal indicates unexpected errors or bugs.
	CategoryInternal Category = "internal"
)

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// LogOnly returns true for categories the monitor loop absorbs by logging:
// delivery and sampling failures never stop detection and never surface to
// a monitored component.
func (c Category) LogOnly() bool {
	switch c {
	case CategoryDelivery, CategorySampling:
		return true
	default:
		return false
	}
}

// Code identifies specific failure types within categories.
type Code string

// Codes for common failure scenarios.
const (
	// Usage errors
	CodeInvalidConfig     Code = "INVALID_CONFIG"     // Bad monitor configuration
	CodeInvalidTimeouts   Code = "INVALID_TIMEOUTS"   // Timeout ordering violated
	CodeAlreadyRegistered Code = "ALREADY_REGISTERED" // Component id already live
	CodeMonitorClosed     Code = "MONITOR_CLOSED"     // Monitor already shut down

	// Delivery errors
	CodeSinkClosed      Code = "SINK_CLOSED"      // Sink no longer accepts alerts
	CodeSinkFull        Code = "SINK_FULL"        // Sink buffer exhausted
	CodeDeliveryFailed  Code = "DELIVERY_FAILED"  // Transport send failed
	CodeSerializeFailed Code = "SERIALIZE_FAILED" // Alert could not be encoded

	// Sampling errors
	CodeSampleFailed      Code = "SAMPLE_FAILED"      // Profile capture failed
	CodeSampleUnsupported Code = "SAMPLE_UNSUPPORTED" // Platform cannot sample

	// Internal errors
	CodeStorageFailed Code = "STORAGE_FAILED" // Journal write or query failed
	CodeInternal      Code = "INTERNAL"       // Unexpected internal error
	CodePanic         Code = "PANIC"          // Recovered from panic
)

// String returns the string representation of the code.
func (c Code) String() string {
	return string(c)
}

// DefaultCategory returns the category a code belongs to.
func (c Code) DefaultCategory() Category {
	switch c {
	case CodeInvalidConfig, CodeInvalidTimeouts, CodeAlreadyRegistered, CodeMonitorClosed:
		return CategoryUsage
	case CodeSinkClosed, CodeSinkFull, CodeDeliveryFailed, CodeSerializeFailed:
		return CategoryDelivery
	case CodeSampleFailed, CodeSampleUnsupported:
		return CategorySampling
	default:
		return CategoryInternal
	}
}

// Description returns a human-readable default message for the code.
func (c Code) Description() string {
	switch c {
	case CodeInvalidConfig:
		return "invalid configuration"
	case CodeInvalidTimeouts:
		return "transient timeout must be positive and below permanent timeout"
	case CodeAlreadyRegistered:
		return "component already registered"
	case CodeMonitorClosed:
		return "monitor closed"
	case CodeSinkClosed:
		return "sink closed"
	case CodeSinkFull:
		return "sink buffer full"
	case CodeDeliveryFailed:
		return "alert delivery failed"
	case CodeSerializeFailed:
		return "alert serialization failed"
	case CodeSampleFailed:
		return "diagnostic sample failed"
	case CodeSampleUnsupported:
		return "diagnostic sampling not supported on this platform"
	case CodeStorageFailed:
		return "journal storage failed"
	case CodePanic:
		return "recovered from panic"
	default:
		return "internal error"
	}
}
