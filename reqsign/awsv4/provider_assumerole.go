package awsv4

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prn-tf/reqsign-go/reqsign"
)

type stsAssumeRoleResponse struct {
	XMLName xml.Name `xml:"AssumeRoleResponse"`
	Result  struct {
		Credentials struct {
			AccessKeyID     string `xml:"AccessKeyId"`
			SecretAccessKey string `xml:"SecretAccessKey"`
			SessionToken    string `xml:"SessionToken"`
			Expiration      string `xml:"Expiration"`
		} `xml:"Credentials"`
	} `xml:"AssumeRoleResult"`
}

type stsAssumeRoleWithWebIdentityResponse struct {
	XMLName xml.Name `xml:"AssumeRoleWithWebIdentityResponse"`
	Result  struct {
		Credentials struct {
			AccessKeyID     string `xml:"AccessKeyId"`
			SecretAccessKey string `xml:"SecretAccessKey"`
			SessionToken    string `xml:"SessionToken"`
			Expiration      string `xml:"Expiration"`
		} `xml:"Credentials"`
	} `xml:"AssumeRoleWithWebIdentityResult"`
}

// AssumeRoleOptions configures AssumeRoleProvider.
type AssumeRoleOptions struct {
	RoleARN         string
	RoleSessionName string
	ExternalID      string
	Duration        time.Duration
	// STSRegion selects the regional STS endpoint; empty uses the legacy
	// global endpoint (sts.amazonaws.com), matching AWS_STS_REGIONAL_ENDPOINTS
	// defaulting to "legacy".
	STSRegion string
}

func (o AssumeRoleOptions) stsEndpoint() string {
	if o.STSRegion == "" {
		return "https://sts.amazonaws.com/"
	}
	return fmt.Sprintf("https://sts.%s.amazonaws.com/", o.STSRegion)
}

// AssumeRoleProvider wraps a base provider (typically EnvProvider,
// ProfileProvider, or a Chain of both) and exchanges its long-lived
// credential for a temporary one via STS AssumeRole. The returned
// credential's Expiry matches the STS response, so the kernel's cache
// refreshes it automatically once it nears expiry.
func AssumeRoleProvider(base reqsign.CredentialProviderFunc[Credential], opts AssumeRoleOptions) reqsign.CredentialProviderFunc[Credential] {
	return func(ctx context.Context, rc *reqsign.Context) (*Credential, error) {
		baseCred, err := base(ctx, rc)
		if err != nil {
			return nil, err
		}
		if baseCred == nil {
			return nil, nil
		}
		if opts.RoleARN == "" {
			return nil, nil
		}

		sessionName := opts.RoleSessionName
		if sessionName == "" {
			sessionName = DefaultRoleSessionName
		}
		duration := opts.Duration
		if duration == 0 {
			duration = DefaultDuration
		}

		values := url.Values{}
		values.Set("Action", "AssumeRole")
		values.Set("Version", "2011-06-15")
		values.Set("RoleArn", opts.RoleARN)
		values.Set("RoleSessionName", sessionName)
		values.Set("DurationSeconds", strconv.Itoa(int(duration/time.Second)))
		if opts.ExternalID != "" {
			values.Set("ExternalId", opts.ExternalID)
		}

		body, err := stsCall(ctx, rc, *baseCred, opts, values)
		if err != nil {
			return nil, err
		}

		var parsed stsAssumeRoleResponse
		if err := xml.Unmarshal(body, &parsed); err != nil {
			return nil, reqsign.WithSource(reqsign.NewCredentialLoad("awsv4: malformed AssumeRole response"), err)
		}

		cred := &Credential{
			AccessKeyID:     parsed.Result.Credentials.AccessKeyID,
			SecretAccessKey: parsed.Result.Credentials.SecretAccessKey,
			SessionToken:    parsed.Result.Credentials.SessionToken,
		}
		if t, err := time.Parse(time.RFC3339, parsed.Result.Credentials.Expiration); err == nil {
			cred.ExpiresAt = &t
		}
		return cred, nil
	}
}

// WebIdentityProvider reads the OIDC token from AWS_WEB_IDENTITY_TOKEN_FILE
// and exchanges it via STS AssumeRoleWithWebIdentity. Returns (nil, nil)
// when the token file env var or AWS_ROLE_ARN is not set.
func WebIdentityProvider() reqsign.CredentialProviderFunc[Credential] {
	return func(ctx context.Context, rc *reqsign.Context) (*Credential, error) {
		tokenFile, ok := rc.EnvVar(envWebIdentityFile)
		if !ok || tokenFile == "" {
			return nil, nil
		}
		roleARN, ok := rc.EnvVar(envRoleARN)
		if !ok || roleARN == "" {
			return nil, nil
		}
		sessionName := DefaultRoleSessionName
		if v, ok := rc.EnvVar(envRoleSessionName); ok && v != "" {
			sessionName = v
		}

		expanded, ok := rc.ExpandHomeDir(tokenFile)
		if !ok {
			return nil, reqsign.NewConfigInvalid("awsv4: could not expand web identity token file path")
		}
		tokenBytes, err := rc.FileRead(ctx, expanded)
		if err != nil {
			return nil, reqsign.WithSource(reqsign.NewCredentialLoad("awsv4: failed to read web identity token file"), err)
		}

		values := url.Values{}
		values.Set("Action", "AssumeRoleWithWebIdentity")
		values.Set("Version", "2011-06-15")
		values.Set("RoleArn", roleARN)
		values.Set("RoleSessionName", sessionName)
		values.Set("WebIdentityToken", strings.TrimSpace(string(tokenBytes)))
		values.Set("DurationSeconds", strconv.Itoa(int(DefaultDuration/time.Second)))

		endpoint := AssumeRoleOptions{}.stsEndpoint()
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := rc.HTTPSend(ctx, req)
		if err != nil {
			return nil, reqsign.WithSource(reqsign.NewCredentialLoad("awsv4: AssumeRoleWithWebIdentity request failed"), err)
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, reqsign.NewCredentialLoad("awsv4: AssumeRoleWithWebIdentity returned a non-200 status")
		}

		var parsed stsAssumeRoleWithWebIdentityResponse
		if err := xml.Unmarshal(body, &parsed); err != nil {
			return nil, reqsign.WithSource(reqsign.NewCredentialLoad("awsv4: malformed AssumeRoleWithWebIdentity response"), err)
		}

		cred := &Credential{
			AccessKeyID:     parsed.Result.Credentials.AccessKeyID,
			SecretAccessKey: parsed.Result.Credentials.SecretAccessKey,
			SessionToken:    parsed.Result.Credentials.SessionToken,
		}
		if t, err := time.Parse(time.RFC3339, parsed.Result.Credentials.Expiration); err == nil {
			cred.ExpiresAt = &t
		}
		return cred, nil
	}
}

// stsCall signs and sends the STS AssumeRole request using the SigV4
// signer over the base credential, since STS itself requires SigV4 auth.
func stsCall(ctx context.Context, rc *reqsign.Context, baseCred Credential, opts AssumeRoleOptions, values url.Values) ([]byte, error) {
	region := opts.STSRegion
	if region == "" {
		region = "us-east-1"
	}
	endpoint := opts.stsEndpoint()

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	head := reqsign.NewRequestHead(http.MethodPost, u.Scheme, u.Host, u.Path)
	head.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	body := values.Encode()
	head.Header.Set(headerContentSHA256, sha256Hex([]byte(body)))

	signer := New(region, "sts")
	if err := signer.sign(head, &baseCred, nil, rc.Now().UTC()); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	for name, vals := range head.Header {
		for _, v := range vals {
			req.Header.Add(name, v)
		}
	}

	resp, err := rc.HTTPSend(ctx, req)
	if err != nil {
		return nil, reqsign.WithSource(reqsign.NewCredentialLoad("awsv4: AssumeRole request failed"), err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, reqsign.NewCredentialLoad("awsv4: AssumeRole returned a non-200 status")
	}
	return respBody, nil
}
