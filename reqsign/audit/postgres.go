package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRecorder writes Events to a reqsign_audit_log table, grounded on
// the same pgxpool usage as internal/repository/postgres.DB.
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

// NewPostgresRecorder wraps an already-connected pool. It does not own the
// pool's lifecycle; Close is a no-op, matching the teacher's convention of
// closing the shared pool once at process shutdown rather than per-recorder.
func NewPostgresRecorder(pool *pgxpool.Pool) *PostgresRecorder {
	return &PostgresRecorder{pool: pool}
}

// EnsureSchema creates the audit table if it does not already exist.
func (r *PostgresRecorder) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS reqsign_audit_log (
	id           UUID PRIMARY KEY,
	cloud        TEXT NOT NULL,
	provider     TEXT NOT NULL,
	identity     TEXT NOT NULL DEFAULT '',
	expires_at   TIMESTAMPTZ,
	loaded_at    TIMESTAMPTZ NOT NULL,
	succeeded    BOOLEAN NOT NULL,
	failure_note TEXT NOT NULL DEFAULT ''
)`)
	if err != nil {
		return fmt.Errorf("audit: create schema: %w", err)
	}
	return nil
}

func (r *PostgresRecorder) Record(ctx context.Context, e Event) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO reqsign_audit_log (id, cloud, provider, identity, expires_at, loaded_at, succeeded, failure_note)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.Cloud, e.Provider, e.Identity, e.ExpiresAt, e.LoadedAt, e.Succeeded, e.FailureNote)
	if err != nil {
		return fmt.Errorf("audit: insert event: %w", err)
	}
	return nil
}

func (r *PostgresRecorder) Close() error { return nil }
