package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/reqsign-go/reqsign"
	"github.com/prn-tf/reqsign-go/reqsign/aliyun"
	"github.com/prn-tf/reqsign-go/reqsign/audit"
	"github.com/prn-tf/reqsign-go/reqsign/awsv4"
	"github.com/prn-tf/reqsign-go/reqsign/azurestorage"
	"github.com/prn-tf/reqsign-go/reqsign/google"
	"github.com/prn-tf/reqsign-go/reqsign/obsmetrics"
	"github.com/prn-tf/reqsign-go/reqsign/oracle"
	"github.com/prn-tf/reqsign-go/reqsign/provider"
	"github.com/prn-tf/reqsign-go/reqsign/tencent"
)

// unifiedSigner is the shape every reqsign.Signer[C] satisfies regardless
// of its credential type C, letting main wire up whichever cloud the
// config names behind one interface.
type unifiedSigner interface {
	Sign(ctx context.Context, head *reqsign.RequestHead, expiresIn *time.Duration) error
}

// buildSigner constructs the Signer for cfg.Cloud, wiring in metrics and an
// audit recorder when configured.
func buildSigner(cfg *Config, rc *reqsign.Context, logger zerolog.Logger, metrics *obsmetrics.Recorder, rec audit.Recorder) (unifiedSigner, error) {
	switch cfg.Cloud {
	case "aws":
		return wireAWS(cfg, rc, logger, metrics, rec), nil
	case "azure":
		return wireAzure(cfg, rc, logger, metrics, rec), nil
	case "google":
		return wireGoogle(cfg, rc, logger, metrics, rec), nil
	case "oracle":
		return wireOracle(cfg, rc, logger, metrics, rec), nil
	case "aliyun":
		return wireAliyun(cfg, rc, logger, metrics, rec), nil
	case "tencent":
		return wireTencent(cfg, rc, logger, metrics, rec), nil
	default:
		return nil, fmt.Errorf("unknown cloud %q", cfg.Cloud)
	}
}

// audited wraps base so every resolved credential is also recorded through
// rec (a no-op when the audit backend is disabled). It lets one generic
// helper cover all six credential types instead of one wrapper per cloud.
func audited[C any](rec audit.Recorder, cloud, name string, base reqsign.CredentialProviderFunc[C], describe func(*C) (string, *time.Time)) reqsign.CredentialProviderFunc[C] {
	return func(ctx context.Context, rc2 *reqsign.Context) (*C, error) {
		inner := func(ctx context.Context) (*C, error) { return base(ctx, rc2) }
		return audit.Wrap(rec, cloud, name, inner, describe)(ctx)
	}
}

func wireAWS(cfg *Config, rc *reqsign.Context, logger zerolog.Logger, metrics *obsmetrics.Recorder, rec audit.Recorder) *reqsign.Signer[awsv4.Credential] {
	base := provider.Chain(awsv4.EnvProvider(), awsv4.ProfileProvider(), awsv4.IMDSProvider())
	if cfg.AWS.UseAssumeRole && cfg.AWS.RoleARN != "" {
		base = awsv4.AssumeRoleProvider(base, awsv4.AssumeRoleOptions{
			RoleARN:  cfg.AWS.RoleARN,
			Duration: cfg.AWS.RoleSessionTTL,
		})
	}
	base = audited(rec, "aws", "chain", base, func(c *awsv4.Credential) (string, *time.Time) {
		return c.AccessKeyID, c.ExpiresAt
	})
	sign := awsv4.New(cfg.AWS.Region, cfg.AWS.Service).SignFunc()
	return reqsign.NewSigner(rc, base, sign,
		reqsign.WithLogger[awsv4.Credential](logger),
		reqsign.WithMetrics[awsv4.Credential]("aws", metrics))
}

func wireAzure(cfg *Config, rc *reqsign.Context, logger zerolog.Logger, metrics *obsmetrics.Recorder, rec audit.Recorder) *reqsign.Signer[azurestorage.Credential] {
	base := provider.Chain(azurestorage.EnvProvider(), azurestorage.ClientSecretProvider(azurestorage.ClientSecretOptions{}), azurestorage.IMDSProvider())
	base = audited(rec, "azure", "chain", base, func(c *azurestorage.Credential) (string, *time.Time) {
		return c.AccountName, c.ExpiresAt
	})
	mode := azurestorage.ModeSharedKey
	if cfg.Azure.Mode == "bearer" {
		mode = azurestorage.ModeBearer
	}
	sign := azurestorage.New(mode).SignFunc()
	return reqsign.NewSigner(rc, base, sign,
		reqsign.WithLogger[azurestorage.Credential](logger),
		reqsign.WithMetrics[azurestorage.Credential]("azure", metrics))
}

func wireGoogle(cfg *Config, rc *reqsign.Context, logger zerolog.Logger, metrics *obsmetrics.Recorder, rec audit.Recorder) *reqsign.Signer[google.Credential] {
	base := google.EnvProvider()
	mode := google.ModeSignedURL
	if cfg.Google.Mode == "bearer" {
		mode = google.ModeBearer
		base = google.BearerTokenProvider(base)
	}
	base = audited(rec, "google", "chain", base, func(c *google.Credential) (string, *time.Time) {
		return c.ClientEmail, c.ExpiresAt
	})
	sign := google.New(mode).SignFunc()
	return reqsign.NewSigner(rc, base, sign,
		reqsign.WithLogger[google.Credential](logger),
		reqsign.WithMetrics[google.Credential]("google", metrics))
}

func wireOracle(cfg *Config, rc *reqsign.Context, logger zerolog.Logger, metrics *obsmetrics.Recorder, rec audit.Recorder) *reqsign.Signer[oracle.Credential] {
	base := audited(rec, "oracle", "env", oracle.EnvProvider(), func(c *oracle.Credential) (string, *time.Time) {
		return c.User, c.ExpiresAt
	})
	sign := oracle.New().SignFunc()
	return reqsign.NewSigner(rc, base, sign,
		reqsign.WithLogger[oracle.Credential](logger),
		reqsign.WithMetrics[oracle.Credential]("oracle", metrics))
}

func wireAliyun(cfg *Config, rc *reqsign.Context, logger zerolog.Logger, metrics *obsmetrics.Recorder, rec audit.Recorder) *reqsign.Signer[aliyun.Credential] {
	base := aliyun.DefaultChain()
	if cfg.Aliyun.UseAssumeRole && cfg.Aliyun.RoleARN != "" {
		base = aliyun.AssumeRoleProvider(base, aliyun.AssumeRoleOptions{RoleARN: cfg.Aliyun.RoleARN})
	}
	base = audited(rec, "aliyun", "chain", base, func(c *aliyun.Credential) (string, *time.Time) {
		return c.AccessKeyID, c.ExpiresAt
	})
	sign := aliyun.New(cfg.Aliyun.Region).SignFunc()
	return reqsign.NewSigner(rc, base, sign,
		reqsign.WithLogger[aliyun.Credential](logger),
		reqsign.WithMetrics[aliyun.Credential]("aliyun", metrics))
}

func wireTencent(cfg *Config, rc *reqsign.Context, logger zerolog.Logger, metrics *obsmetrics.Recorder, rec audit.Recorder) *reqsign.Signer[tencent.Credential] {
	base := audited(rec, "tencent", "env", tencent.EnvProvider(), func(c *tencent.Credential) (string, *time.Time) {
		return c.SecretID, c.ExpiresAt
	})
	sign := tencent.New().SignFunc()
	return reqsign.NewSigner(rc, base, sign,
		reqsign.WithLogger[tencent.Credential](logger),
		reqsign.WithMetrics[tencent.Credential]("tencent", metrics))
}
