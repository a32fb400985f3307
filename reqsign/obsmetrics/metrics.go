// Package obsmetrics implements reqsign.MetricsRecorder against
// Prometheus, the way the teacher instruments its own services (see
// internal/metrics, wired into cmd/alexander-server's HTTP server).
package obsmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is a reqsign.MetricsRecorder backed by a set of Prometheus
// collectors registered against a single registerer.
type Recorder struct {
	credentialLoadsTotal *prometheus.CounterVec
	credentialLoadErrors *prometheus.CounterVec
	signDuration         *prometheus.HistogramVec
	signErrorsTotal      *prometheus.CounterVec
}

// New registers the collectors against reg and returns a Recorder. Passing
// prometheus.DefaultRegisterer matches the teacher's default wiring; a
// dedicated registry is preferable in tests to avoid collector collisions
// across packages.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		credentialLoadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reqsign",
			Name:      "credential_loads_total",
			Help:      "Number of credential resolutions, labeled by cloud and cache hit/miss.",
		}, []string{"cloud", "cache"}),
		credentialLoadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reqsign",
			Name:      "credential_load_errors_total",
			Help:      "Number of credential resolutions that returned an error.",
		}, []string{"cloud"}),
		signDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "reqsign",
			Name:      "sign_duration_seconds",
			Help:      "Time spent in the request signer, labeled by cloud.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"cloud"}),
		signErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reqsign",
			Name:      "sign_errors_total",
			Help:      "Number of Sign calls that returned an error.",
		}, []string{"cloud"}),
	}
	reg.MustRegister(r.credentialLoadsTotal, r.credentialLoadErrors, r.signDuration, r.signErrorsTotal)
	return r
}

// CredentialLoad implements reqsign.MetricsRecorder.
func (r *Recorder) CredentialLoad(cloud string, cacheHit bool, err error) {
	cache := "miss"
	if cacheHit {
		cache = "hit"
	}
	r.credentialLoadsTotal.WithLabelValues(cloud, cache).Inc()
	if err != nil {
		r.credentialLoadErrors.WithLabelValues(cloud).Inc()
	}
}

// SignDuration implements reqsign.MetricsRecorder.
func (r *Recorder) SignDuration(cloud string, d time.Duration, err error) {
	r.signDuration.WithLabelValues(cloud).Observe(d.Seconds())
	if err != nil {
		r.signErrorsTotal.WithLabelValues(cloud).Inc()
	}
}
