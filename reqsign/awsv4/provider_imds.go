package awsv4

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prn-tf/reqsign-go/reqsign"
)

const (
	imdsEndpoint   = "http://169.254.169.254"
	imdsTokenPath  = "/latest/api/token"
	imdsRolePath   = "/latest/meta-data/iam/security-credentials/"
	imdsTokenTTL   = "21600"
	imdsHTTPBudget = 1 * time.Second
)

type imdsCredentialResponse struct {
	AccessKeyID     string `json:"AccessKeyId"`
	SecretAccessKey string `json:"SecretAccessKey"`
	Token           string `json:"Token"`
	Expiration      string `json:"Expiration"`
}

// IMDSProvider fetches the role credential attached to the current EC2
// instance via the IMDSv2 token dance: a PUT to mint a short-lived token,
// then a GET with that token to read the active role's credentials.
// Returns (nil, nil) when AWS_EC2_METADATA_DISABLED=true, or when the
// metadata endpoint is unreachable within the strict per-call timeout
// (absence of IMDS is a normal "not running on EC2" outcome, not an
// error).
func IMDSProvider() reqsign.CredentialProviderFunc[Credential] {
	return func(ctx context.Context, rc *reqsign.Context) (*Credential, error) {
		if metadataDisabled(rc) {
			return nil, nil
		}

		cctx, cancel := context.WithTimeout(ctx, imdsHTTPBudget)
		defer cancel()
		token, err := imdsFetchToken(cctx, rc)
		if err != nil {
			return nil, nil
		}

		cctx2, cancel2 := context.WithTimeout(ctx, imdsHTTPBudget)
		defer cancel2()
		role, err := imdsFetchRoleName(cctx2, rc, token)
		if err != nil || role == "" {
			return nil, nil
		}

		cctx3, cancel3 := context.WithTimeout(ctx, imdsHTTPBudget)
		defer cancel3()
		resp, err := imdsFetchCredential(cctx3, rc, token, role)
		if err != nil {
			return nil, nil
		}

		cred := &Credential{
			AccessKeyID:     resp.AccessKeyID,
			SecretAccessKey: resp.SecretAccessKey,
			SessionToken:    resp.Token,
		}
		if resp.Expiration != "" {
			if t, err := time.Parse(time.RFC3339, resp.Expiration); err == nil {
				cred.ExpiresAt = &t
			}
		}
		return cred, nil
	}
}

func imdsFetchToken(ctx context.Context, rc *reqsign.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, imdsEndpoint+imdsTokenPath, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("X-aws-ec2-metadata-token-ttl-seconds", imdsTokenTTL)

	resp, err := rc.HTTPSend(ctx, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", reqsign.NewCredentialLoad("awsv4: imds token request failed")
	}
	return string(body), nil
}

func imdsFetchRoleName(ctx context.Context, rc *reqsign.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imdsEndpoint+imdsRolePath, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("X-aws-ec2-metadata-token", token)

	resp, err := rc.HTTPSend(ctx, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", reqsign.NewCredentialLoad("awsv4: imds role listing failed")
	}
	return strings.TrimSpace(string(body)), nil
}

func imdsFetchCredential(ctx context.Context, rc *reqsign.Context, token, role string) (*imdsCredentialResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imdsEndpoint+imdsRolePath+role, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-aws-ec2-metadata-token", token)

	resp, err := rc.HTTPSend(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, reqsign.NewCredentialLoad("awsv4: imds credential fetch failed")
	}

	var out imdsCredentialResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, reqsign.WithSource(reqsign.NewCredentialLoad("awsv4: imds credential response was not valid JSON"), err)
	}
	return &out, nil
}
