// Package journal persists hang alerts to SQLite.
//
// The Store implements hang.Sink, so it can sit directly behind a monitor
// (typically inside a hang.MultiSink next to a live delivery path). Every
// alert is durable across host restarts, which matters for hang forensics:
// the process that hung is often the process that gets killed next.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	herr "github.com/vigilkit/hangwatch/errors"
	"github.com/vigilkit/hangwatch/hang"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS alerts (
	id          TEXT PRIMARY KEY,
	runner      TEXT NOT NULL,
	kind        TEXT NOT NULL,
	severity    TEXT NOT NULL,
	annotation  TEXT NOT NULL,
	profile     BLOB,
	elapsed_ns  INTEGER NOT NULL,
	emitted_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_alerts_component ON alerts(runner, kind);
CREATE INDEX IF NOT EXISTS idx_alerts_emitted ON alerts(emitted_at);
`

// Store is a durable alert journal backed by SQLite.
type Store struct {
	db *sql.DB
}

var _ hang.Sink = (*Store)(nil)

// Open creates or opens a journal at path. The parent directory is created
// if missing. WAL mode keeps writers from blocking concurrent readers.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	// modernc's driver serializes per connection; one writer avoids
	// SQLITE_BUSY churn entirely.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating journal schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Send implements hang.Sink by inserting the alert.
func (s *Store) Send(a *hang.Alert) error {
	_, err := s.db.Exec(
		`INSERT INTO alerts (id, runner, kind, severity, annotation, profile, elapsed_ns, emitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.Component.Runner,
		a.Component.Kind,
		string(a.Severity),
		string(a.Annotation),
		[]byte(a.Profile),
		a.Elapsed.Nanoseconds(),
		// Unix nanoseconds: integers order correctly, string timestamps
		// with trimmed fractional zeros do not.
		a.EmittedAt.UnixNano(),
	)
	if err != nil {
		return herr.WrapWithCode(err, herr.CodeStorageFailed, "journal alert",
			herr.WithComponent(a.Component.String()))
	}
	return nil
}

// Recent returns the latest n alerts, newest first.
func (s *Store) Recent(n int) ([]*hang.Alert, error) {
	rows, err := s.db.Query(
		`SELECT id, runner, kind, severity, annotation, profile, elapsed_ns, emitted_at
		 FROM alerts ORDER BY emitted_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, herr.WrapWithCode(err, herr.CodeStorageFailed, "query recent alerts")
	}
	defer rows.Close()
	return scanAlerts(rows)
}

// ByComponent returns every alert recorded for one component, newest first.
func (s *Store) ByComponent(id hang.ComponentID) ([]*hang.Alert, error) {
	rows, err := s.db.Query(
		`SELECT id, runner, kind, severity, annotation, profile, elapsed_ns, emitted_at
		 FROM alerts WHERE runner = ? AND kind = ? ORDER BY emitted_at DESC`,
		id.Runner, id.Kind)
	if err != nil {
		return nil, herr.WrapWithCode(err, herr.CodeStorageFailed, "query component alerts",
			herr.WithComponent(id.String()))
	}
	defer rows.Close()
	return scanAlerts(rows)
}

// CountBySeverity returns alert totals keyed by severity.
func (s *Store) CountBySeverity() (map[hang.Severity]int, error) {
	rows, err := s.db.Query(`SELECT severity, COUNT(*) FROM alerts GROUP BY severity`)
	if err != nil {
		return nil, herr.WrapWithCode(err, herr.CodeStorageFailed, "count alerts")
	}
	defer rows.Close()

	counts := make(map[hang.Severity]int)
	for rows.Next() {
		var sev string
		var n int
		if err := rows.Scan(&sev, &n); err != nil {
			return nil, herr.WrapWithCode(err, herr.CodeStorageFailed, "scan alert counts")
		}
		counts[hang.Severity(sev)] = n
	}
	return counts, rows.Err()
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanAlerts(rows *sql.Rows) ([]*hang.Alert, error) {
	var out []*hang.Alert
	for rows.Next() {
		var (
			a         hang.Alert
			severity  string
			anno      string
			profile   []byte
			elapsedNs int64
			emittedNs int64
		)
		if err := rows.Scan(&a.ID, &a.Component.Runner, &a.Component.Kind,
			&severity, &anno, &profile, &elapsedNs, &emittedNs); err != nil {
			return nil, herr.WrapWithCode(err, herr.CodeStorageFailed, "scan alert row")
		}
		a.Severity = hang.Severity(severity)
		a.Annotation = hang.Annotation(anno)
		a.Profile = hang.Profile(profile)
		a.Elapsed = time.Duration(elapsedNs)
		a.EmittedAt = time.Unix(0, emittedNs).UTC()
		out = append(out, &a)
	}
	return out, rows.Err()
}
