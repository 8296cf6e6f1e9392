// Package logging provides leveled key=value console logging for hangwatch.
// Alerts themselves travel through sinks; this package covers the monitor's
// own operational output (registrations, deliveries, sampling, shutdown).
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents log severity.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// levelPriority maps levels to numeric priority for filtering.
var levelPriority = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// Logger provides structured logging to stdout.
type Logger struct {
	mu        sync.Mutex
	output    io.Writer
	minLevel  Level
	component string
}

// New creates a new Logger.
func New() *Logger {
	return &Logger{
		output:   os.Stdout,
		minLevel: LevelInfo,
	}
}

// Discard creates a Logger that drops everything. Useful in tests.
func Discard() *Logger {
	return &Logger{
		output:   io.Discard,
		minLevel: LevelError,
	}
}

// WithComponent returns a new logger with the given component name.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		output:    l.output,
		minLevel:  l.minLevel,
		component: component,
	}
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.minLevel = level
}

// SetOutput sets the output writer (default: stdout).
func (l *Logger) SetOutput(w io.Writer) {
	l.output = w
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.log(LevelDebug, msg, fields...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.log(LevelInfo, msg, fields...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.log(LevelWarn, msg, fields...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.log(LevelError, msg, fields...)
}

// formatFields formats a map of fields as key=value pairs.
func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	var parts []string
	for k, v := range fields {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return " " + strings.Join(parts, " ")
}

// log writes a log entry: LEVEL TIMESTAMP [component] message key=value ...
func (l *Logger) log(level Level, msg string, fields ...map[string]interface{}) {
	if levelPriority[level] < levelPriority[l.minLevel] {
		return
	}

	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")

	var fieldStr string
	if len(fields) > 0 && fields[0] != nil {
		fieldStr = formatFields(fields[0])
	}

	var line string
	if l.component != "" {
		line = fmt.Sprintf("%-5s %s [%s] %s%s\n", level, timestamp, l.component, msg, fieldStr)
	} else {
		line = fmt.Sprintf("%-5s %s %s%s\n", level, timestamp, msg, fieldStr)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.output.Write([]byte(line))
}

// --- Monitor-derived logging methods ---
// Called by the monitor loop and sinks for real-time operational output.

// MonitorStarted logs monitor loop startup.
func (l *Logger) MonitorStarted() {
	l.Info("monitor_started")
}

// MonitorStopped logs monitor loop teardown.
func (l *Logger) MonitorStopped() {
	l.Info("monitor_stopped")
}

// Registered logs a new component registration.
func (l *Logger) Registered(component string, transient, permanent time.Duration) {
	l.Debug("component_registered", map[string]interface{}{
		"component": component,
		"transient": transient.String(),
		"permanent": permanent.String(),
	})
}

// Unregistered logs a component leaving the table.
func (l *Logger) Unregistered(component string) {
	l.Debug("component_unregistered", map[string]interface{}{
		"component": component,
	})
}

// AlertEmitted logs a delivered alert.
func (l *Logger) AlertEmitted(severity, component string, elapsed time.Duration) {
	l.Info("alert_emitted", map[string]interface{}{
		"severity":  severity,
		"component": component,
		"elapsed":   elapsed.String(),
	})
}

// DeliveryFailed logs a sink delivery failure. Delivery failures are
// absorbed here; the loop continues unaffected.
func (l *Logger) DeliveryFailed(component string, err error) {
	l.Warn("alert_delivery_failed", map[string]interface{}{
		"component": component,
		"error":     err.Error(),
	})
}

// SampleCaptured logs a successful diagnostic capture.
func (l *Logger) SampleCaptured(component string, size int, duration time.Duration) {
	l.Debug("sample_captured", map[string]interface{}{
		"component": component,
		"bytes":     size,
		"duration":  duration.String(),
	})
}

// SampleFailed logs a diagnostic capture failure. The permanent alert is
// still emitted with an empty profile.
func (l *Logger) SampleFailed(component string, err error) {
	l.Warn("sample_failed", map[string]interface{}{
		"component": component,
		"error":     err.Error(),
	})
}

// ScanRecovered logs a panic recovered inside the scan loop.
func (l *Logger) ScanRecovered(err error) {
	l.Error("scan_recovered", map[string]interface{}{
		"error": err.Error(),
	})
}
