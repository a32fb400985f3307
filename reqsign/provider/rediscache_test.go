package provider

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type testCred struct {
	Token     string
	ExpiresAt *time.Time
}

func (c testCred) Expiry() *time.Time { return c.ExpiresAt }

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	srv := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: srv.Addr()})
}

func TestRedisCacheFetchesOnceAndReusesValue(t *testing.T) {
	client := newTestClient(t)
	cache := NewRedisCache[testCred](client, "reqsign:test", time.Minute)

	calls := 0
	fetch := func(ctx context.Context) (*testCred, error) {
		calls++
		exp := time.Now().Add(time.Hour)
		return &testCred{Token: "tok-1", ExpiresAt: &exp}, nil
	}

	cred, err := cache.Load(context.Background(), time.Now(), fetch)
	require.NoError(t, err)
	require.Equal(t, "tok-1", cred.Token)

	cred2, err := cache.Load(context.Background(), time.Now(), fetch)
	require.NoError(t, err)
	require.Equal(t, "tok-1", cred2.Token)
	require.Equal(t, 1, calls)
}

func TestRedisCacheRefreshesAfterExpiry(t *testing.T) {
	client := newTestClient(t)
	cache := NewRedisCache[testCred](client, "reqsign:test", time.Minute)

	past := time.Now().Add(-time.Hour)
	stale := testCred{Token: "stale", ExpiresAt: &past}
	cred, err := cache.Load(context.Background(), time.Now().Add(-2*time.Hour), func(ctx context.Context) (*testCred, error) {
		return &stale, nil
	})
	require.NoError(t, err)
	require.Equal(t, "stale", cred.Token)

	fresh := time.Now().Add(time.Hour)
	cred2, err := cache.Load(context.Background(), time.Now(), func(ctx context.Context) (*testCred, error) {
		return &testCred{Token: "fresh", ExpiresAt: &fresh}, nil
	})
	require.NoError(t, err)
	require.Equal(t, "fresh", cred2.Token)
}

func TestRedisCacheNeverExpiringCredentialIsReused(t *testing.T) {
	client := newTestClient(t)
	cache := NewRedisCache[testCred](client, "reqsign:test", time.Minute)

	calls := 0
	fetch := func(ctx context.Context) (*testCred, error) {
		calls++
		return &testCred{Token: "static"}, nil
	}

	for i := 0; i < 3; i++ {
		cred, err := cache.Load(context.Background(), time.Now(), fetch)
		require.NoError(t, err)
		require.Equal(t, "static", cred.Token)
	}
	require.Equal(t, 1, calls)
}

func TestRedisCachePropagatesFetchError(t *testing.T) {
	client := newTestClient(t)
	cache := NewRedisCache[testCred](client, "reqsign:test", time.Minute)

	_, err := cache.Load(context.Background(), time.Now(), func(ctx context.Context) (*testCred, error) {
		return nil, context.DeadlineExceeded
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
