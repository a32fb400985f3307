package provider

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prn-tf/reqsign-go/reqsign"
)

// RedisCache implements reqsign.Cache[C] on top of a Redis key, so a fleet
// of signer processes can share one refreshed credential instead of each
// hitting the upstream credential source independently. It satisfies the
// same contract as reqsign.MemoryCache and can be passed to
// reqsign.WithCache.
//
// Credentials are stored JSON-encoded under Key with a TTL computed from
// the credential's own expiry, so a stale entry expires out of Redis on
// its own even if no process refreshes it. SetNX is used to elect a single
// refresher among concurrent processes; losers poll briefly for the
// winner's write rather than issuing their own upstream call.
type RedisCache[C reqsign.Expirer] struct {
	client redis.Cmdable
	key    string
	skew   time.Duration

	// lockTTL bounds how long a refresher may hold the SetNX lock before
	// another process is allowed to take over, guarding against a crashed
	// refresher wedging every other process indefinitely.
	lockTTL time.Duration

	// pollInterval and pollTimeout bound how long a losing process waits
	// for the elected refresher to publish a new value.
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// RedisCacheOption configures a RedisCache at construction time.
type RedisCacheOption[C reqsign.Expirer] func(*RedisCache[C])

// WithLockTTL overrides the default refresh-lock TTL.
func WithLockTTL[C reqsign.Expirer](ttl time.Duration) RedisCacheOption[C] {
	return func(c *RedisCache[C]) { c.lockTTL = ttl }
}

// WithPoll overrides the default poll interval and timeout a losing
// process uses while waiting for the elected refresher.
func WithPoll[C reqsign.Expirer](interval, timeout time.Duration) RedisCacheOption[C] {
	return func(c *RedisCache[C]) {
		c.pollInterval = interval
		c.pollTimeout = timeout
	}
}

// NewRedisCache builds a RedisCache storing its credential under key.
// client may be a *redis.Client, *redis.ClusterClient or any other
// redis.Cmdable, which includes miniredis-backed clients in tests.
func NewRedisCache[C reqsign.Expirer](client redis.Cmdable, key string, skew time.Duration, opts ...RedisCacheOption[C]) *RedisCache[C] {
	c := &RedisCache[C]{
		client:       client,
		key:          key,
		skew:         skew,
		lockTTL:      10 * time.Second,
		pollInterval: 50 * time.Millisecond,
		pollTimeout:  5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetSkew updates the freshness skew margin.
func (c *RedisCache[C]) SetSkew(skew time.Duration) { c.skew = skew }

func (c *RedisCache[C]) lockKey() string { return c.key + ":lock" }

func (c *RedisCache[C]) readFresh(ctx context.Context, now time.Time) (*C, bool) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		return nil, false
	}
	var cred C
	if err := json.Unmarshal(raw, &cred); err != nil {
		return nil, false
	}
	exp := cred.Expiry()
	if exp == nil {
		return &cred, true
	}
	return &cred, now.Add(c.skew).Before(*exp)
}

// Load implements reqsign.Cache.
func (c *RedisCache[C]) Load(ctx context.Context, now time.Time, fetch reqsign.Fetcher[C]) (*C, error) {
	if cred, ok := c.readFresh(ctx, now); ok {
		return cred, nil
	}

	acquired, err := c.client.SetNX(ctx, c.lockKey(), "1", c.lockTTL).Result()
	if err != nil {
		return nil, reqsign.WithSource(reqsign.NewCredentialLoad("redis cache: acquiring refresh lock failed"), err)
	}
	if !acquired {
		return c.waitForRefresh(ctx, now)
	}
	defer c.client.Del(ctx, c.lockKey())

	// Another process may have refreshed between our first read and
	// winning the lock.
	if cred, ok := c.readFresh(ctx, now); ok {
		return cred, nil
	}

	cred, ferr := fetch(ctx)
	if ferr != nil {
		return nil, ferr
	}

	raw, merr := json.Marshal(cred)
	if merr != nil {
		return nil, reqsign.WithSource(reqsign.NewUnexpected("redis cache: encoding credential failed"), merr)
	}
	ttl := c.ttlFor(cred, now)
	if err := c.client.Set(ctx, c.key, raw, ttl).Err(); err != nil {
		return nil, reqsign.WithSource(reqsign.NewCredentialLoad("redis cache: writing credential failed"), err)
	}
	return cred, nil
}

// ttlFor computes a Redis TTL from a credential's expiry, falling back to
// zero (no expiry) for credentials that never expire.
func (c *RedisCache[C]) ttlFor(cred *C, now time.Time) time.Duration {
	exp := (*cred).Expiry()
	if exp == nil {
		return 0
	}
	ttl := exp.Sub(now)
	if ttl <= 0 {
		return time.Second
	}
	return ttl
}

// waitForRefresh polls for the elected refresher's write. It never fetches
// itself: if the refresher has not published a fresh entry once
// pollTimeout has passed, it returns an error, so a caller is not blocked
// forever by a refresher that died holding the lock.
func (c *RedisCache[C]) waitForRefresh(ctx context.Context, now time.Time) (*C, error) {
	deadline := now.Add(c.pollTimeout)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			if cred, ok := c.readFresh(ctx, time.Now()); ok {
				return cred, nil
			}
			if time.Now().After(deadline) {
				return nil, errors.New("redis cache: timed out waiting for concurrent refresh")
			}
		}
	}
}

var _ reqsign.Cache[staticExpirer] = (*RedisCache[staticExpirer])(nil)

// staticExpirer is a zero-size type used only to pin the interface
// assertion above to a concrete type parameter.
type staticExpirer struct{}

func (staticExpirer) Expiry() *time.Time { return nil }
