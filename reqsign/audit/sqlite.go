package audit

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder writes Events to a reqsign_audit_log table via the pure-Go
// modernc.org/sqlite driver, the embedded-deployment counterpart to
// PostgresRecorder, grounded on internal/repository/sqlite.DB's driver
// selection.
type SQLiteRecorder struct {
	db *sql.DB
}

// OpenSQLiteRecorder opens (or creates) a SQLite database file at path and
// ensures the audit schema exists. Use ":memory:" for a throwaway store.
func OpenSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("audit: open sqlite: %w", err)
	}
	r := &SQLiteRecorder{db: db}
	if err := r.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRecorder) ensureSchema() error {
	_, err := r.db.Exec(`
CREATE TABLE IF NOT EXISTS reqsign_audit_log (
	id           TEXT PRIMARY KEY,
	cloud        TEXT NOT NULL,
	provider     TEXT NOT NULL,
	identity     TEXT NOT NULL DEFAULT '',
	expires_at   DATETIME,
	loaded_at    DATETIME NOT NULL,
	succeeded    INTEGER NOT NULL,
	failure_note TEXT NOT NULL DEFAULT ''
)`)
	if err != nil {
		return fmt.Errorf("audit: create schema: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) Record(ctx context.Context, e Event) error {
	succeeded := 0
	if e.Succeeded {
		succeeded = 1
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO reqsign_audit_log (id, cloud, provider, identity, expires_at, loaded_at, succeeded, failure_note)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.Cloud, e.Provider, e.Identity, e.ExpiresAt, e.LoadedAt, succeeded, e.FailureNote)
	if err != nil {
		return fmt.Errorf("audit: insert event: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) Close() error { return r.db.Close() }
