package main

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/reqsign-go/reqsign"
	"github.com/prn-tf/reqsign-go/reqsign/audit"
	"github.com/prn-tf/reqsign-go/reqsign/obsmetrics"
)

func TestBuildSignerSupportsEveryCloud(t *testing.T) {
	rc := reqsign.NewOSContext()
	metrics := obsmetrics.New(prometheus.NewRegistry())
	logger := zerolog.Nop()

	for _, cloud := range []string{"aws", "azure", "google", "oracle", "aliyun", "tencent"} {
		cfg := &Config{Cloud: cloud}
		signer, err := buildSigner(cfg, rc, logger, metrics, audit.NopRecorder{})
		require.NoError(t, err, cloud)
		require.NotNil(t, signer, cloud)
	}
}

func TestBuildSignerRejectsUnknownCloud(t *testing.T) {
	rc := reqsign.NewOSContext()
	metrics := obsmetrics.New(prometheus.NewRegistry())
	cfg := &Config{Cloud: "not-a-cloud"}
	_, err := buildSigner(cfg, rc, zerolog.Nop(), metrics, audit.NopRecorder{})
	require.Error(t, err)
}
