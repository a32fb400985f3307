package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeCredential struct {
	id  string
	exp time.Time
}

func TestWrapRecordsSuccessfulLoad(t *testing.T) {
	var recorded []Event
	rec := recorderFunc(func(ctx context.Context, e Event) error {
		recorded = append(recorded, e)
		return nil
	})

	provide := func(ctx context.Context) (*fakeCredential, error) {
		return &fakeCredential{id: "AKID", exp: time.Unix(1000, 0)}, nil
	}
	describe := func(c *fakeCredential) (string, *time.Time) {
		exp := c.exp
		return c.id, &exp
	}

	wrapped := Wrap(rec, "aws", "static", provide, describe)
	cred, err := wrapped(context.Background())
	require.NoError(t, err)
	require.Equal(t, "AKID", cred.id)

	require.Len(t, recorded, 1)
	require.True(t, recorded[0].Succeeded)
	require.Equal(t, "aws", recorded[0].Cloud)
	require.Equal(t, "static", recorded[0].Provider)
	require.Equal(t, "AKID", recorded[0].Identity)
	require.NotNil(t, recorded[0].ExpiresAt)
}

func TestWrapRecordsFailedLoad(t *testing.T) {
	var recorded []Event
	rec := recorderFunc(func(ctx context.Context, e Event) error {
		recorded = append(recorded, e)
		return nil
	})

	provide := func(ctx context.Context) (*fakeCredential, error) {
		return nil, errors.New("network unreachable")
	}
	describe := func(c *fakeCredential) (string, *time.Time) { return "", nil }

	wrapped := Wrap(rec, "aws", "imds", provide, describe)
	_, err := wrapped(context.Background())
	require.Error(t, err)

	require.Len(t, recorded, 1)
	require.False(t, recorded[0].Succeeded)
	require.Equal(t, "network unreachable", recorded[0].FailureNote)
}

func TestNopRecorderDiscardsEvents(t *testing.T) {
	var r NopRecorder
	require.NoError(t, r.Record(context.Background(), Event{}))
	require.NoError(t, r.Close())
}

type recorderFunc func(ctx context.Context, e Event) error

func (f recorderFunc) Record(ctx context.Context, e Event) error { return f(ctx, e) }
func (f recorderFunc) Close() error                               { return nil }
