// Package shutdown coordinates graceful teardown of a watchdog host.
//
// Components register a Handler; on shutdown, handlers run in phase order
// (lower phases first, same phase concurrently). The intended layout for a
// hang-monitoring host: phase 10 stops the workload, phase 20 closes the
// monitor so no alert outlives the stop, phase 30 flushes sinks and the
// journal, phase 40 drops the transport.
package shutdown

import (
	"context"
	"errors"
	"time"
)

// Common errors.
var (
	ErrAlreadyShutdown = errors.New("shutdown already initiated")
	ErrTimeout         = errors.New("shutdown timeout exceeded")
	ErrHandlerFailed   = errors.New("one or more handlers failed")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// Handler is implemented by components that need graceful shutdown.
// The context is cancelled when the shutdown deadline is reached.
type Handler interface {
	OnShutdown(ctx context.Context) error
}

// Func adapts a function to the Handler interface.
type Func func(ctx context.Context) error

// OnShutdown implements Handler.
func (f Func) OnShutdown(ctx context.Context) error {
	return f(ctx)
}

// Result records one handler's teardown outcome.
type Result struct {
	// Name the handler was registered under.
	Name string

	// Phase the handler ran in.
	Phase int

	// Duration the handler took.
	Duration time.Duration

	// Err returned by the handler, if any.
	Err error
}

// Config configures a Coordinator.
type Config struct {
	// DefaultTimeout bounds signal-triggered shutdowns and
	// ShutdownWithTimeout calls that pass zero.
	// Default: 30 seconds
	DefaultTimeout time.Duration

	// DefaultPhase is assigned to handlers registered without a phase.
	// Default: 100
	DefaultPhase int

	// ContinueOnError keeps running later phases after a handler fails.
	// Default: true
	ContinueOnError bool

	// OnProgress is called as each handler completes. Optional.
	OnProgress func(Result)
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.DefaultTimeout < 0 {
		return ErrInvalidConfig
	}
	return nil
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultTimeout:  30 * time.Second,
		DefaultPhase:    100,
		ContinueOnError: true,
	}
}

// registration pairs a handler with its metadata.
type registration struct {
	name    string
	handler Handler
	phase   int
}
