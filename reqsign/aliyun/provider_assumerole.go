package aliyun

import (
	"context"
	"net/url"
	"time"

	"github.com/prn-tf/reqsign-go/reqsign"
)

// AssumeRoleOptions configures AssumeRoleProvider.
type AssumeRoleOptions struct {
	RoleARN         string
	RoleSessionName string
	Duration        time.Duration
}

// AssumeRoleProvider calls base for a long-lived credential, then exchanges
// it for temporary STS credentials scoped to RoleARN.
func AssumeRoleProvider(base reqsign.CredentialProviderFunc[Credential], opts AssumeRoleOptions) reqsign.CredentialProviderFunc[Credential] {
	sessionName := opts.RoleSessionName
	if sessionName == "" {
		sessionName = defaultRoleSessionName
	}
	duration := opts.Duration
	if duration <= 0 {
		duration = defaultDuration
	}

	return func(ctx context.Context, rc *reqsign.Context) (*Credential, error) {
		baseCred, err := base(ctx, rc)
		if err != nil || baseCred == nil {
			return nil, err
		}

		params := url.Values{}
		params.Set("Action", "AssumeRole")
		params.Set("AccessKeyId", baseCred.AccessKeyID)
		params.Set("RoleArn", opts.RoleARN)
		params.Set("RoleSessionName", sessionName)
		params.Set("DurationSeconds", durationSeconds(duration))
		if baseCred.hasToken() {
			params.Set("SecurityToken", baseCred.SecurityToken)
		}

		resp, err := stsCall(ctx, rc, stsEndpoint(rc), params, baseCred.AccessKeySecret)
		if err != nil {
			return nil, err
		}
		return credentialFromSTS(resp), nil
	}
}
