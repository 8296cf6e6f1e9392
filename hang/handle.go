package hang

import (
	"sync/atomic"
	"time"
)

// Handle is the client-facing side of one registration. Each monitored
// component holds exactly one handle and reports through it. All methods
// are safe for concurrent use and never block on the monitor loop beyond
// the table's short critical section.
//
// Close is mandatory at every exit path of the component (defer it at
// acquisition); Go has no destructor to do it implicitly.
type Handle struct {
	mon    *Monitor
	id     ComponentID
	closed atomic.Bool
}

// ID returns the component identity this handle reports for.
func (h *Handle) ID() ComponentID {
	return h.id
}

// NotifyActivity reports progress on a task. It moves the component to
// Running, records the annotation, and resets any escalation, starting a
// fresh hang episode. Cheap enough for hot paths.
func (h *Handle) NotifyActivity(annotation Annotation) {
	if h.closed.Load() {
		return
	}
	h.mon.table.markActivity(h.id, annotation, time.Now())
}

// NotifyWait reports that the component has no outstanding task. All
// alerting is suppressed until the next NotifyActivity, regardless of
// elapsed time.
func (h *Handle) NotifyWait() {
	if h.closed.Load() {
		return
	}
	h.mon.table.markWait(h.id)
}

// Close removes the registration. Idempotent: closing twice, or after the
// owning monitor has shut down, is a no-op. After Close returns, no new
// alert for this component is produced once any scan already in flight
// completes; a sample already started may still deliver one stale alert.
func (h *Handle) Close() error {
	if h.closed.Swap(true) {
		return nil
	}
	h.mon.unregister(h.id)
	return nil
}
