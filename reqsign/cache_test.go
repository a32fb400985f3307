package reqsign

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeCred struct {
	Token string
	Exp   *time.Time
}

func (c fakeCred) Expiry() *time.Time { return c.Exp }

func TestMemoryCacheReusesUnexpiredCredential(t *testing.T) {
	cache := NewMemoryCache[fakeCred](time.Minute)
	var calls int32
	fetch := func(ctx context.Context) (*fakeCred, error) {
		atomic.AddInt32(&calls, 1)
		exp := time.Now().Add(time.Hour)
		return &fakeCred{Token: "t1", Exp: &exp}, nil
	}

	cred, err := cache.Load(context.Background(), time.Now(), fetch)
	require.NoError(t, err)
	require.Equal(t, "t1", cred.Token)

	cred2, err := cache.Load(context.Background(), time.Now(), fetch)
	require.NoError(t, err)
	require.Equal(t, "t1", cred2.Token)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMemoryCacheRefreshesWithinSkewWindow(t *testing.T) {
	cache := NewMemoryCache[fakeCred](2 * time.Minute)
	exp := time.Now().Add(time.Minute)
	cache.value.Store(&fakeCred{Token: "stale", Exp: &exp})

	var calls int32
	fetch := func(ctx context.Context) (*fakeCred, error) {
		atomic.AddInt32(&calls, 1)
		newExp := time.Now().Add(time.Hour)
		return &fakeCred{Token: "fresh", Exp: &newExp}, nil
	}

	cred, err := cache.Load(context.Background(), time.Now(), fetch)
	require.NoError(t, err)
	require.Equal(t, "fresh", cred.Token)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMemoryCacheConcurrentLoadsSingleFlight(t *testing.T) {
	cache := NewMemoryCache[fakeCred](time.Minute)
	var calls int32
	var wg sync.WaitGroup
	fetch := func(ctx context.Context) (*fakeCred, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		exp := time.Now().Add(time.Hour)
		return &fakeCred{Token: "t1", Exp: &exp}, nil
	}

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Load(context.Background(), time.Now(), fetch)
			require.NoError(t, err)
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMemoryCacheEvictsExpiredEntryOnFetchFailure(t *testing.T) {
	cache := NewMemoryCache[fakeCred](time.Minute)
	past := time.Now().Add(-time.Hour)
	cache.value.Store(&fakeCred{Token: "old", Exp: &past})

	fetchErr := errors.New("upstream unavailable")
	_, err := cache.Load(context.Background(), time.Now(), func(ctx context.Context) (*fakeCred, error) {
		return nil, fetchErr
	})
	require.ErrorIs(t, err, fetchErr)
	require.Nil(t, cache.value.Load())
}

func TestMemoryCacheNeverExpiringCredentialNeverRefetches(t *testing.T) {
	cache := NewMemoryCache[fakeCred](time.Minute)
	var calls int32
	fetch := func(ctx context.Context) (*fakeCred, error) {
		atomic.AddInt32(&calls, 1)
		return &fakeCred{Token: "forever"}, nil
	}

	for i := 0; i < 5; i++ {
		_, err := cache.Load(context.Background(), time.Now(), fetch)
		require.NoError(t, err)
	}
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
