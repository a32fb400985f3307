package obsmetrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCredentialLoadIncrementsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.CredentialLoad("aws", true, nil)
	r.CredentialLoad("aws", false, errors.New("boom"))

	require.Equal(t, float64(1), testutil.ToFloat64(r.credentialLoadsTotal.WithLabelValues("aws", "hit")))
	require.Equal(t, float64(1), testutil.ToFloat64(r.credentialLoadsTotal.WithLabelValues("aws", "miss")))
	require.Equal(t, float64(1), testutil.ToFloat64(r.credentialLoadErrors.WithLabelValues("aws")))
}

func TestSignDurationObservesAndCountsErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.SignDuration("azure", 10*time.Millisecond, nil)
	r.SignDuration("azure", 5*time.Millisecond, errors.New("bad request"))

	require.Equal(t, float64(1), testutil.ToFloat64(r.signErrorsTotal.WithLabelValues("azure")))

	count := testutil.CollectAndCount(r.signDuration)
	require.Equal(t, 1, count)
}
