package hang

import (
	"sync"
	"time"
)

// activityState tracks whether a component has an outstanding task.
type activityState uint8

const (
	activityIdle activityState = iota
	activityRunning
)

// escalationState only advances forward within one running episode and
// resets to escalationNone on every NotifyActivity.
type escalationState uint8

const (
	escalationNone escalationState = iota
	escalationTransientSent
	escalationPermanentSent
)

// record is the per-component registration entry, owned jointly by the
// component's handle and the monitor loop.
type record struct {
	id               ComponentID
	transientTimeout time.Duration
	permanentTimeout time.Duration

	activity     activityState
	annotation   Annotation
	lastActivity time.Time
	escalation   escalationState
}

// table is the registration table: the only mutable state shared between
// component goroutines and the monitor loop. All access is under mu and
// critical sections stay short, so handle operations remain hot-path cheap
// and writes are immediately visible to the next scan.
type table struct {
	mu      sync.Mutex
	records map[ComponentID]*record
}

func newTable() *table {
	return &table{records: make(map[ComponentID]*record)}
}

// insert adds a registration in the Idle state.
func (t *table) insert(id ComponentID, transient, permanent time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.records[id]; exists {
		return ErrAlreadyRegistered
	}
	t.records[id] = &record{
		id:               id,
		transientTimeout: transient,
		permanentTimeout: permanent,
		activity:         activityIdle,
	}
	return nil
}

// remove deletes a registration. Reports whether it existed.
func (t *table) remove(id ComponentID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.records[id]; !exists {
		return false
	}
	delete(t.records, id)
	return true
}

// markActivity starts or refreshes a running episode, collapsing any
// escalation back to none. No-op for removed registrations.
func (t *table) markActivity(id ComponentID, annotation Annotation, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, exists := t.records[id]
	if !exists {
		return
	}
	rec.activity = activityRunning
	rec.annotation = annotation
	rec.lastActivity = now
	rec.escalation = escalationNone
}

// markWait signals no outstanding task; suppresses all alerting until the
// next markActivity. No-op for removed registrations.
func (t *table) markWait(id ComponentID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, exists := t.records[id]
	if !exists {
		return
	}
	rec.activity = activityIdle
	rec.escalation = escalationNone
}

// minTransient returns the smallest registered transient timeout.
// ok is false when the table is empty.
func (t *table) minTransient() (min time.Duration, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, rec := range t.records {
		if !ok || rec.transientTimeout < min {
			min = rec.transientTimeout
			ok = true
		}
	}
	return min, ok
}

// size returns the number of live registrations.
func (t *table) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

// clear drops every registration.
func (t *table) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = make(map[ComponentID]*record)
}

// due describes the alerts owed to one component, gathered in one pass.
// When both stages are owed the transient alert is emitted first.
type due struct {
	id         ComponentID
	annotation Annotation
	elapsed    time.Duration
	transient  bool
	permanent  bool
}

// collectDue advances escalation state for every running record past its
// thresholds and returns what must be emitted. State advances before
// emission so a NotifyActivity racing with delivery still resets cleanly;
// the already-collected alert may go out anyway (bounded stale-alert race,
// at most one per escalation stage). Idle records are skipped entirely.
func (t *table) collectDue(now time.Time) []due {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []due
	for _, rec := range t.records {
		if rec.activity != activityRunning {
			continue
		}
		elapsed := now.Sub(rec.lastActivity)
		d := due{id: rec.id, annotation: rec.annotation, elapsed: elapsed}

		if elapsed >= rec.transientTimeout && rec.escalation == escalationNone {
			d.transient = true
			rec.escalation = escalationTransientSent
		}
		if elapsed >= rec.permanentTimeout && rec.escalation != escalationPermanentSent {
			d.permanent = true
			rec.escalation = escalationPermanentSent
		}

		if d.transient || d.permanent {
			out = append(out, d)
		}
	}
	return out
}
