// Package hang provides hang (watchdog) monitoring for independently
// scheduled components.
//
// # Overview
//
// Components opt into monitoring through a Handle and report activity as
// they make progress. A background loop owned by the Monitor scans the
// shared registration table on a fixed cadence and escalates silence in
// two stages: a cheap transient alert when the short timeout elapses, and
// a permanent alert carrying a diagnostic profile when the long timeout
// elapses. The monitor only observes; it never repairs, kills, or restarts
// a component.
//
// # Architecture
//
//	┌───────────┐ NotifyActivity ┌─────────────┐   scan    ┌─────────────┐
//	│ Component │ ─────────────> │ Registration│ <──────── │   Monitor   │
//	│ (Handle)  │   NotifyWait   │    Table    │           │    Loop     │
//	└───────────┘                └─────────────┘           └──────┬──────┘
//	                                                              │ emit
//	                             ┌─────────────┐   Permanent   ┌──▼──────┐
//	                             │   Sampler   │ <──────────── │  Sink   │
//	                             └─────────────┘   (profile)   └─────────┘
//
// # Usage
//
// Monitoring a worker:
//
//	sink := hang.NewChanSink(64)
//	mon, _ := hang.New(hang.Config{Sink: sink, Sampler: sampler.NewGoroutine()})
//	defer mon.Close()
//
//	h, _ := mon.Register(hang.ComponentID{Runner: "render", Kind: "compositor"},
//	    100*time.Millisecond, 5*time.Second)
//	defer h.Close()
//
//	for task := range tasks {
//	    h.NotifyActivity(hang.Annotation(task.Name))
//	    process(task)
//	}
//	h.NotifyWait()
//
// # Usage contract
//
// Go has no deterministic destructors, so Handle.Close is mandatory at
// every exit path of a monitored component (defer it at acquisition).
// A handle that is garbage collected without Close keeps its registration
// alive and will keep alerting.
//
// # Escalation state machine
//
// Per component: Unregistered → Idle ⇄ Running → Running+TransientSent →
// Running+PermanentSent. NotifyActivity collapses any escalation suffix
// back to plain Running and starts a fresh episode; Close moves any state
// to the terminal Unregistered. While Idle, no alert is ever produced.
//
// # Sampling serialization
//
// Stack sampling typically relies on non-reentrant OS facilities, so all
// sampler invocations are serialized behind one process-wide lock shared
// by every Monitor in the process. Sampling failures are logged and the
// permanent alert is emitted with an empty profile; the alert's existence
// outweighs its payload.
//
// # Recommendations
//
//   - Keep transient timeouts well above the expected reporting interval
//   - Treat alerts as diagnostics, not control signals
//   - Consume ChanSink promptly or size its buffer for alert bursts
package hang
