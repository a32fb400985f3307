package aliyun

import (
	"context"
	"net/url"

	"github.com/prn-tf/reqsign-go/reqsign"
)

// OIDCProvider exchanges a Kubernetes/workload OIDC token for temporary
// STS credentials via AssumeRoleWithOIDC. Reads ALIBABA_CLOUD_ROLE_ARN,
// ALIBABA_CLOUD_OIDC_PROVIDER_ARN, and ALIBABA_CLOUD_OIDC_TOKEN_FILE.
// AssumeRoleWithOIDC is unsigned -- the OIDC token itself is the proof of
// identity -- so no access-key secret is involved.
func OIDCProvider() reqsign.CredentialProviderFunc[Credential] {
	return func(ctx context.Context, rc *reqsign.Context) (*Credential, error) {
		roleARN, ok := rc.EnvVar(envRoleARN)
		if !ok || roleARN == "" {
			return nil, nil
		}
		providerARN, ok := rc.EnvVar(envOIDCProviderARN)
		if !ok || providerARN == "" {
			return nil, nil
		}
		tokenFile, ok := rc.EnvVar(envOIDCTokenFile)
		if !ok || tokenFile == "" {
			return nil, nil
		}

		expanded, ok := rc.ExpandHomeDir(tokenFile)
		if !ok {
			return nil, reqsign.NewConfigInvalid("aliyun: could not expand home directory in ALIBABA_CLOUD_OIDC_TOKEN_FILE")
		}
		token, err := rc.FileRead(ctx, expanded)
		if err != nil {
			return nil, reqsign.WithSource(reqsign.NewCredentialLoad("aliyun: reading ALIBABA_CLOUD_OIDC_TOKEN_FILE failed"), err)
		}

		params := url.Values{}
		params.Set("Action", "AssumeRoleWithOIDC")
		params.Set("RoleArn", roleARN)
		params.Set("OIDCProviderArn", providerARN)
		params.Set("OIDCToken", string(token))
		params.Set("RoleSessionName", defaultRoleSessionName)
		params.Set("DurationSeconds", durationSeconds(defaultDuration))

		resp, err := stsCall(ctx, rc, stsEndpoint(rc), params, "")
		if err != nil {
			return nil, err
		}
		return credentialFromSTS(resp), nil
	}
}
