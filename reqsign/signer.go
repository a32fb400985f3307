package reqsign

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultSkew is the recommended safety margin subtracted from a
// credential's expiry before the kernel considers it stale (spec: "skew
// (recommended 2 minutes)").
const DefaultSkew = 2 * time.Minute

// CredentialProviderFunc asynchronously yields a provider-specific
// credential, or (nil, nil) when the source is not configured.
type CredentialProviderFunc[C any] func(ctx context.Context, rc *Context) (*C, error)

// RequestSignerFunc mutates head in place using cred. expiresIn nil means
// header-signing mode; a non-nil duration means presign/query-signing mode.
// now is the Context's injected clock value for this Sign call, so the
// signature is reproducible under a frozen clock through the public API,
// not just through package-internal test helpers.
type RequestSignerFunc[C any] func(head *RequestHead, cred *C, expiresIn *time.Duration, now time.Time) error

// Signer is the stateful facade described as "L3, the kernel": it holds a
// Context, a credential provider and a request signer, and resolves a
// fresh-enough credential (with caching and single-flight refresh) before
// delegating to the request signer. A single Signer is safe to share across
// concurrently-signing callers.
type Signer[C Expirer] struct {
	ctx     *Context
	provide CredentialProviderFunc[C]
	sign    RequestSignerFunc[C]
	cache   Cache[C]
	logger  zerolog.Logger
	metrics MetricsRecorder
	cloud   string
}

// MetricsRecorder observes credential loads and signing calls. It is
// consumed optionally: NewSigner installs a no-op recorder so instruments
// are entirely opt-in. reqsign/obsmetrics implements this against
// Prometheus.
type MetricsRecorder interface {
	// CredentialLoad is called once per resolved credential, whether it
	// came from cache or from a fresh provider call, and whether the
	// provider call succeeded or failed.
	CredentialLoad(cloud string, cacheHit bool, err error)
	// SignDuration is called once per Sign call that reaches the request
	// signer, after it returns (success or failure).
	SignDuration(cloud string, d time.Duration, err error)
}

type nopMetrics struct{}

func (nopMetrics) CredentialLoad(string, bool, error)      {}
func (nopMetrics) SignDuration(string, time.Duration, error) {}

// Option configures a Signer at construction time.
type Option[C Expirer] func(*Signer[C])

// skewSetter is implemented by cache backends that support adjusting their
// freshness margin after construction, notably MemoryCache.
type skewSetter interface {
	SetSkew(time.Duration)
}

// WithSkew overrides DefaultSkew on the Signer's cache, if the cache
// backend in use supports it (the built-in MemoryCache does). It has no
// effect on a cache installed via WithCache that doesn't implement skew
// adjustment; such backends manage their own freshness policy.
func WithSkew[C Expirer](skew time.Duration) Option[C] {
	return func(s *Signer[C]) {
		if ss, ok := s.cache.(skewSetter); ok {
			ss.SetSkew(skew)
		}
	}
}

// WithCache replaces the Signer's default in-process MemoryCache with any
// other Cache implementation, e.g. reqsign/provider.RedisCache for sharing
// one cached credential across a fleet of signer processes.
func WithCache[C Expirer](cache Cache[C]) Option[C] {
	return func(s *Signer[C]) { s.cache = cache }
}

// WithLogger attaches a zerolog.Logger the Signer sub-scopes with
// Str("component", "reqsign.Signer"), matching the teacher's per-service
// logger convention.
func WithLogger[C Expirer](logger zerolog.Logger) Option[C] {
	return func(s *Signer[C]) { s.logger = logger.With().Str("component", "reqsign.Signer").Logger() }
}

// WithMetrics attaches a MetricsRecorder. cloud labels every recorded
// metric, e.g. "aws", "azure", "google".
func WithMetrics[C Expirer](cloud string, m MetricsRecorder) Option[C] {
	return func(s *Signer[C]) {
		s.cloud = cloud
		s.metrics = m
	}
}

// NewSigner builds a Signer over the given Context, credential provider and
// request signer.
func NewSigner[C Expirer](rc *Context, provide CredentialProviderFunc[C], sign RequestSignerFunc[C], opts ...Option[C]) *Signer[C] {
	s := &Signer[C]{
		ctx:     rc,
		provide: provide,
		sign:    sign,
		cache:   NewMemoryCache[C](DefaultSkew),
		logger:  zerolog.Nop(),
		metrics: nopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sign resolves a fresh-enough credential (refreshing through the provider
// chain at most once under contention) and mutates head into its
// authenticated form. On any failure head is left completely unmodified:
// the request signer always computes into a local clone that is only
// swapped onto head once signing succeeds.
//
// expiresIn nil requests header signing; a non-nil duration requests
// presign/query-signing mode. Re-presigning a head that already carries
// signing query parameters from a prior call is not special-cased -- the
// new parameters are simply appended/overwritten per the provider's own
// rules, and callers that need idempotent re-presign must strip old
// parameters themselves first.
func (s *Signer[C]) Sign(ctx context.Context, head *RequestHead, expiresIn *time.Duration) error {
	cacheHit := true
	cred, err := s.cache.Load(ctx, s.ctx.Now(), func(ctx context.Context) (*C, error) {
		cacheHit = false
		cred, err := s.provide(ctx, s.ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("credential provider failed")
			if rerr, ok := err.(*Error); ok {
				return nil, rerr
			}
			return nil, WithSource(NewCredentialLoad("credential provider returned an error"), err)
		}
		if cred == nil {
			return nil, NewCredentialMissing("no credential provider in the chain is configured")
		}
		s.logger.Debug().Msg("loaded fresh credential")
		return cred, nil
	})
	s.metrics.CredentialLoad(s.cloud, cacheHit, err)
	if err != nil {
		return err
	}

	start := s.ctx.Now()
	clone := head.Clone()
	signErr := s.sign(clone, cred, expiresIn, start)
	s.metrics.SignDuration(s.cloud, s.ctx.Now().Sub(start), signErr)
	if signErr != nil {
		if rerr, ok := signErr.(*Error); ok {
			return rerr
		}
		return WithSource(NewRequestInvalid("request signer failed"), signErr)
	}
	head.assign(clone)
	return nil
}
