package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/vigilkit/hangwatch/hang"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "alerts.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testAlert(id string, comp hang.ComponentID, sev hang.Severity, at time.Time) *hang.Alert {
	return &hang.Alert{
		ID:         id,
		Component:  comp,
		Severity:   sev,
		Annotation: "processing batch",
		Profile:    hang.Profile("stack dump"),
		Elapsed:    42 * time.Second,
		EmittedAt:  at,
	}
}

// --- Unit Tests ---

func TestStore_SendAndRecent(t *testing.T) {
	s := openTestStore(t)

	comp := hang.ComponentID{Runner: "worker-1", Kind: "decoder"}
	base := time.Now().UTC().Truncate(time.Millisecond)

	for i, sev := range []hang.Severity{hang.SeverityTransient, hang.SeverityPermanent} {
		a := testAlert(string(rune('a'+i)), comp, sev, base.Add(time.Duration(i)*time.Second))
		if err := s.Send(a); err != nil {
			t.Fatalf("Send %d: %v", i, err)
		}
	}

	got, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent = %d alerts, want 2", len(got))
	}
	// Newest first.
	if got[0].Severity != hang.SeverityPermanent {
		t.Errorf("got[0].Severity = %q, want permanent", got[0].Severity)
	}

	a := got[0]
	if a.Component != comp {
		t.Errorf("Component = %v, want %v", a.Component, comp)
	}
	if a.Annotation != "processing batch" {
		t.Errorf("Annotation = %q", a.Annotation)
	}
	if string(a.Profile) != "stack dump" {
		t.Errorf("Profile = %q", a.Profile)
	}
	if a.Elapsed != 42*time.Second {
		t.Errorf("Elapsed = %v", a.Elapsed)
	}
	if !a.EmittedAt.Equal(base.Add(time.Second)) {
		t.Errorf("EmittedAt = %v, want %v", a.EmittedAt, base.Add(time.Second))
	}
}

func TestStore_RecentOrdersSubsecondTimestamps(t *testing.T) {
	s := openTestStore(t)
	comp := hang.ComponentID{Runner: "r", Kind: "k"}

	// .1s formats shorter than .15s; string ordering would invert these.
	base := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	if err := s.Send(testAlert("older", comp, hang.SeverityTransient, base.Add(100*time.Millisecond))); err != nil {
		t.Fatalf("Send older: %v", err)
	}
	if err := s.Send(testAlert("newer", comp, hang.SeverityTransient, base.Add(150*time.Millisecond))); err != nil {
		t.Fatalf("Send newer: %v", err)
	}

	got, err := s.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent = %d alerts, want 2", len(got))
	}
	if got[0].ID != "newer" {
		t.Errorf("Recent[0] = %q, want newer", got[0].ID)
	}

	byComp, err := s.ByComponent(comp)
	if err != nil {
		t.Fatalf("ByComponent: %v", err)
	}
	if byComp[0].ID != "newer" {
		t.Errorf("ByComponent[0] = %q, want newer", byComp[0].ID)
	}
}

func TestStore_RecentLimit(t *testing.T) {
	s := openTestStore(t)
	comp := hang.ComponentID{Runner: "r", Kind: "k"}
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		a := testAlert(string(rune('a'+i)), comp, hang.SeverityTransient, base.Add(time.Duration(i)*time.Second))
		if err := s.Send(a); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}

	got, err := s.Recent(3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("Recent(3) = %d alerts", len(got))
	}
}

func TestStore_ByComponent(t *testing.T) {
	s := openTestStore(t)
	now := time.Now().UTC()

	target := hang.ComponentID{Runner: "gpu", Kind: "raster"}
	other := hang.ComponentID{Runner: "gpu", Kind: "compositor"}

	s.Send(testAlert("1", target, hang.SeverityTransient, now))
	s.Send(testAlert("2", other, hang.SeverityTransient, now))
	s.Send(testAlert("3", target, hang.SeverityPermanent, now.Add(time.Second)))

	got, err := s.ByComponent(target)
	if err != nil {
		t.Fatalf("ByComponent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ByComponent = %d alerts, want 2", len(got))
	}
	for _, a := range got {
		if a.Component != target {
			t.Errorf("alert for %v leaked into %v query", a.Component, target)
		}
	}
}

func TestStore_CountBySeverity(t *testing.T) {
	s := openTestStore(t)
	comp := hang.ComponentID{Runner: "r", Kind: "k"}
	now := time.Now().UTC()

	s.Send(testAlert("1", comp, hang.SeverityTransient, now))
	s.Send(testAlert("2", comp, hang.SeverityTransient, now))
	s.Send(testAlert("3", comp, hang.SeverityPermanent, now))

	counts, err := s.CountBySeverity()
	if err != nil {
		t.Fatalf("CountBySeverity: %v", err)
	}
	if counts[hang.SeverityTransient] != 2 {
		t.Errorf("transient count = %d, want 2", counts[hang.SeverityTransient])
	}
	if counts[hang.SeverityPermanent] != 1 {
		t.Errorf("permanent count = %d, want 1", counts[hang.SeverityPermanent])
	}
}

func TestStore_DuplicateID(t *testing.T) {
	s := openTestStore(t)
	comp := hang.ComponentID{Runner: "r", Kind: "k"}
	a := testAlert("same-id", comp, hang.SeverityTransient, time.Now().UTC())

	if err := s.Send(a); err != nil {
		t.Fatalf("first Send: %v", err)
	}
	if err := s.Send(a); err == nil {
		t.Error("duplicate alert id accepted, want error")
	}
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	comp := hang.ComponentID{Runner: "r", Kind: "k"}
	if err := s.Send(testAlert("1", comp, hang.SeverityPermanent, time.Now().UTC())); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, err := s2.Recent(10)
	if err != nil {
		t.Fatalf("Recent after reopen: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("alerts after reopen = %d, want 1", len(got))
	}
}
