package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRecorderRoundTripsEvent(t *testing.T) {
	r, err := OpenSQLiteRecorder(":memory:")
	require.NoError(t, err)
	defer r.Close()

	exp := time.Now().Add(time.Hour).UTC()
	evt := Event{
		ID:        uuid.New(),
		Cloud:     "azure",
		Provider:  "client_secret",
		Identity:  "app@example.com",
		ExpiresAt: &exp,
		LoadedAt:  time.Now().UTC(),
		Succeeded: true,
	}
	require.NoError(t, r.Record(context.Background(), evt))

	var count int
	row := r.db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM reqsign_audit_log WHERE id = ?`, evt.ID.String())
	require.NoError(t, row.Scan(&count))
	require.Equal(t, 1, count)
}

func TestSQLiteRecorderRecordsFailure(t *testing.T) {
	r, err := OpenSQLiteRecorder(":memory:")
	require.NoError(t, err)
	defer r.Close()

	evt := Event{
		ID:          uuid.New(),
		Cloud:       "google",
		Provider:    "env",
		LoadedAt:    time.Now().UTC(),
		Succeeded:   false,
		FailureNote: "file not found",
	}
	require.NoError(t, r.Record(context.Background(), evt))

	var succeeded int
	var note string
	row := r.db.QueryRowContext(context.Background(), `SELECT succeeded, failure_note FROM reqsign_audit_log WHERE id = ?`, evt.ID.String())
	require.NoError(t, row.Scan(&succeeded, &note))
	require.Equal(t, 0, succeeded)
	require.Equal(t, "file not found", note)
}
