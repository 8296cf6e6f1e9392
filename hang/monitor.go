package hang

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	herr "github.com/vigilkit/hangwatch/errors"
	"github.com/vigilkit/hangwatch/logging"
)

// samplingMu serializes diagnostic sampling across every Monitor in the
// process. Stack-walking another thread relies on non-reentrant OS
// facilities; concurrent captures could corrupt them. This bounds the
// throughput of permanent alerts under many simultaneous hangs, which is
// acceptable: hangs are rare and sampling is diagnostic, not latency
// critical.
var samplingMu sync.Mutex

// Monitor owns the registration table and the background scan loop.
// Create one with New and release it with Close. Multiple independent
// monitors can coexist in one process; nothing here is a singleton except
// the sampling lock.
type Monitor struct {
	sink      Sink
	sampler   Sampler
	log       *logging.Logger
	tickFloor time.Duration
	maxTick   time.Duration

	table *table

	wake   chan struct{}
	stopCh chan struct{}
	doneCh chan struct{}
	closed atomic.Bool
}

// New creates a Monitor and starts its scan loop.
func New(cfg Config) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tickFloor := cfg.TickFloor
	if tickFloor <= 0 {
		tickFloor = DefaultConfig().TickFloor
	}
	maxTick := cfg.MaxTick
	if maxTick <= 0 {
		maxTick = DefaultConfig().MaxTick
	}
	log := cfg.Logger
	if log == nil {
		log = logging.New()
	}

	m := &Monitor{
		sink:      cfg.Sink,
		sampler:   cfg.Sampler,
		log:       log.WithComponent("hang-monitor"),
		tickFloor: tickFloor,
		maxTick:   maxTick,
		table:     newTable(),
		wake:      make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}

	go m.run()
	m.log.MonitorStarted()
	return m, nil
}

// Register adds a component to the table and returns its handle. The
// component starts Idle; no alert is produced until its first
// NotifyActivity. Requires 0 < transient < permanent.
func (m *Monitor) Register(id ComponentID, transient, permanent time.Duration) (*Handle, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	if transient <= 0 || permanent <= transient {
		return nil, ErrInvalidTimeouts
	}

	if err := m.table.insert(id, transient, permanent); err != nil {
		return nil, err
	}
	// Re-check after the insert: a Close racing in may have cleared the
	// table already, which would leave this record orphaned.
	if m.closed.Load() {
		m.table.remove(id)
		return nil, ErrClosed
	}
	m.log.Registered(id.String(), transient, permanent)
	m.poke()

	return &Handle{mon: m, id: id}, nil
}

// Len returns the number of live registrations.
func (m *Monitor) Len() int {
	return m.table.size()
}

// unregister removes a record on behalf of its handle.
func (m *Monitor) unregister(id ComponentID) {
	if m.table.remove(id) {
		m.log.Unregistered(id.String())
		m.poke()
	}
}

// poke re-arms the loop so it recomputes its cadence.
func (m *Monitor) poke() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// cadence is half the smallest registered transient timeout, clamped to
// [tickFloor, maxTick]. Recomputed whenever registrations change. Alerts
// may therefore be observed up to one tick late.
func (m *Monitor) cadence() time.Duration {
	min, ok := m.table.minTransient()
	if !ok {
		return m.maxTick
	}
	tick := min / 2
	if tick < m.tickFloor {
		tick = m.tickFloor
	}
	if tick > m.maxTick {
		tick = m.maxTick
	}
	return tick
}

// run is the monitor loop. One per Monitor, joined by Close.
func (m *Monitor) run() {
	defer close(m.doneCh)

	for {
		timer := time.NewTimer(m.cadence())
		select {
		case <-m.stopCh:
			timer.Stop()
			return
		case <-m.wake:
			timer.Stop()
		case <-timer.C:
			m.scan()
		}
	}
}

// scan performs one escalation pass. A panic from a sink or sampler is
// recovered and logged so one bad interaction cannot disable future hang
// detection.
func (m *Monitor) scan() {
	defer func() {
		if r := recover(); r != nil {
			m.log.ScanRecovered(herr.RecoverPanic(r))
		}
	}()

	for _, d := range m.table.collectDue(time.Now()) {
		if m.stopping() {
			return
		}
		if d.transient {
			m.emit(newAlert(d.id, SeverityTransient, d.annotation, nil, d.elapsed))
		}
		if d.permanent {
			profile := m.capture(d.id)
			if m.stopping() {
				return
			}
			m.emit(newAlert(d.id, SeverityPermanent, d.annotation, profile, d.elapsed))
		}
	}
}

// stopping reports whether shutdown has been signalled. Checked before
// every emission so no alert goes out after the stop signal is observed.
func (m *Monitor) stopping() bool {
	select {
	case <-m.stopCh:
		return true
	default:
		return false
	}
}

// capture runs the sampler under the process-wide sampling lock. Failure
// is logged and yields an empty profile; the permanent alert is emitted
// regardless, because its existence outweighs the diagnostic payload.
func (m *Monitor) capture(id ComponentID) Profile {
	if m.sampler == nil {
		return nil
	}

	samplingMu.Lock()
	defer samplingMu.Unlock()

	start := time.Now()
	profile, err := m.sampler.Sample(id)
	if err != nil {
		m.log.SampleFailed(id.String(), herr.SampleFailed(id.String(), err))
		return nil
	}
	m.log.SampleCaptured(id.String(), len(profile), time.Since(start))
	return profile
}

// emit hands an alert to the sink. Delivery failure is logged and
// dropped, never retried, never fatal to the loop.
func (m *Monitor) emit(a *Alert) {
	if err := m.sink.Send(a); err != nil {
		m.log.DeliveryFailed(a.Component.String(), herr.DeliveryFailed(a.Component.String(), err))
		return
	}
	m.log.AlertEmitted(string(a.Severity), a.Component.String(), a.Elapsed)
}

// Close stops the scan loop, joins it, and drops every registration.
// After Close returns no further alert is emitted, including alerts that
// were already due. Idempotent. Handles may still be closed safely
// afterwards.
func (m *Monitor) Close() error {
	if m.closed.Swap(true) {
		return nil
	}

	close(m.stopCh)
	<-m.doneCh

	m.table.clear()
	m.log.MonitorStopped()
	return nil
}

// OnShutdown implements the shutdown coordinator's Handler interface.
func (m *Monitor) OnShutdown(ctx context.Context) error {
	return m.Close()
}
