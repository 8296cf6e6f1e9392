package hang

import (
	"errors"
	"time"

	"github.com/vigilkit/hangwatch/logging"
)

// Common errors.
var (
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrInvalidTimeouts   = errors.New("transient timeout must be positive and below permanent timeout")
	ErrAlreadyRegistered = errors.New("component already registered")
	ErrClosed            = errors.New("monitor closed")
	ErrSinkFull          = errors.New("sink buffer full")
)

// ComponentID identifies a monitored unit: an independently scheduled
// thread or process that opted into monitoring. Stable for the component's
// lifetime and usable as a map key.
type ComponentID struct {
	// Runner is the owning process or pipeline identity.
	Runner string `json:"runner"`

	// Kind is the component kind within the runner.
	Kind string `json:"kind"`
}

// String returns "runner/kind".
func (id ComponentID) String() string {
	return id.Runner + "/" + id.Kind
}

// Annotation is an opaque, component-supplied description of the task in
// progress. The monitor never inspects it, only carries it into alerts.
type Annotation string

// Profile is an opaque diagnostic blob captured by a Sampler at permanent
// escalation. Empty when sampling failed or no sampler is configured.
type Profile []byte

// Sink receives alerts from the monitor. Send must not block for long:
// the monitor treats the sink as asynchronous, logs failures, and never
// retries. Implementations must be safe for use from the monitor goroutine
// while the host reads results elsewhere.
type Sink interface {
	Send(*Alert) error
}

// Sampler captures a diagnostic profile of a hung component. Injected at
// Monitor construction; may be slow and may fail. The monitor serializes
// all invocations process-wide, so implementations need not be reentrant.
type Sampler interface {
	Sample(id ComponentID) (Profile, error)
}

// Config configures a Monitor.
type Config struct {
	// Sink receives every alert. Required.
	Sink Sink

	// Sampler captures a profile on permanent escalation.
	// Optional; when nil, permanent alerts carry an empty profile.
	Sampler Sampler

	// Logger for operational output.
	// Optional; defaults to logging.New().
	Logger *logging.Logger

	// TickFloor bounds how fast the scan loop may run regardless of the
	// smallest registered transient timeout.
	// Default: 10ms
	TickFloor time.Duration

	// MaxTick bounds how long the loop sleeps between scans when nothing
	// is registered or all timeouts are large.
	// Default: 1 second
	MaxTick time.Duration
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Sink == nil {
		return ErrInvalidConfig
	}
	if c.TickFloor < 0 || c.MaxTick < 0 {
		return ErrInvalidConfig
	}
	if c.TickFloor > 0 && c.MaxTick > 0 && c.TickFloor > c.MaxTick {
		return ErrInvalidConfig
	}
	return nil
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TickFloor: 10 * time.Millisecond,
		MaxTick:   time.Second,
	}
}
