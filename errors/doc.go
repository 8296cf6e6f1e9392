// Package errors provides a structured error taxonomy for hangwatch.
// It defines codes and categories that distinguish failures the monitor
// loop absorbs (alert delivery, diagnostic sampling) from failures that
// surface to the host (API misuse, storage errors).
//
// # Categories
//
//   - Usage: the host misused the API (missing sink, inverted timeouts)
//   - Delivery: an alert could not reach its sink
//   - Sampling: diagnostic capture failed
//   - Internal: unexpected errors indicating bugs
//
// Delivery and sampling failures are LogOnly: the monitor logs them and
// keeps detecting. No error in this package ever reaches a monitored
// component; the monitor is purely observational.
//
// # Usage
//
// Create a new error:
//
//	err := errors.New(errors.CodeSampleFailed, "thread exited during capture")
//
// Wrap an external failure under a code:
//
//	err := errors.WrapWithCode(natsErr, errors.CodeDeliveryFailed, "publish alert")
//
// Check how to handle an error:
//
//	if errors.IsLogOnly(err) {
//	    log.DeliveryFailed(component, err)
//	}
package errors
