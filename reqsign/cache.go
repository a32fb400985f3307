package reqsign

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Expirer is implemented by every provider-specific Credential type. A nil
// Expiry means the credential never expires (e.g. static long-lived keys).
type Expirer interface {
	Expiry() *time.Time
}

// Fetcher loads a fresh credential when the cache is stale.
type Fetcher[C any] func(ctx context.Context) (*C, error)

// Cache is the pluggable storage contract behind a Signer's credential
// cache. The default is MemoryCache; reqsign/provider.RedisCache satisfies
// the same contract for sharing one cached credential across a fleet of
// signer processes.
type Cache[C Expirer] interface {
	Load(ctx context.Context, now time.Time, fetch Fetcher[C]) (*C, error)
}

// MemoryCache holds the last successful credential behind an
// atomic.Pointer (swap-only, no field-level mutation, per spec's
// concurrency model) and serializes concurrent refreshes through a
// single-flight gate so at most one provider call is in flight at a time.
// It is the in-process default Cache implementation.
type MemoryCache[C Expirer] struct {
	value atomic.Pointer[C]
	group singleflight.Group
	skew  time.Duration
}

// NewMemoryCache builds a MemoryCache with the given freshness skew.
func NewMemoryCache[C Expirer](skew time.Duration) *MemoryCache[C] {
	return &MemoryCache[C]{skew: skew}
}

// SetSkew updates the freshness skew margin.
func (c *MemoryCache[C]) SetSkew(skew time.Duration) { c.skew = skew }

// fresh reports whether the currently cached credential (if any) is usable
// at the given instant, honoring the configured skew margin.
func (c *MemoryCache[C]) fresh(now time.Time) (*C, bool) {
	cred := c.value.Load()
	if cred == nil {
		return nil, false
	}
	exp := (*cred).Expiry()
	if exp == nil {
		return cred, true
	}
	return cred, now.Add(c.skew).Before(*exp)
}

// Load returns a fresh credential, refreshing via fetch at most once per
// concurrent window of staleness. Concurrent callers that arrive while a
// refresh is in flight all observe the same resulting credential or error.
func (c *MemoryCache[C]) Load(ctx context.Context, now time.Time, fetch Fetcher[C]) (*C, error) {
	if cred, ok := c.fresh(now); ok {
		return cred, nil
	}

	v, err, _ := c.group.Do("credential", func() (interface{}, error) {
		// Re-check freshness: another goroutine may have already refreshed
		// while we were waiting to enter the single-flight section.
		if cred, ok := c.fresh(time.Now()); ok {
			return cred, nil
		}

		cred, ferr := fetch(ctx)
		if ferr != nil {
			// Only evict the stale entry on failure; a cached credential
			// that is still fresh (e.g. a concurrent caller raced us into
			// staleness territory by a hair) must survive a failed
			// refresh attempt.
			if stale := c.value.Load(); stale != nil {
				if exp := (*stale).Expiry(); exp != nil && !now.Before(*exp) {
					c.value.Store(nil)
				}
			}
			return nil, ferr
		}

		c.value.Store(cred)
		return cred, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*C), nil
}
