package azurestorage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prn-tf/reqsign-go/reqsign"
)

const (
	imdsTokenURL   = "http://169.254.169.254/metadata/identity/oauth2/token"
	imdsAPIVersion = "2018-02-01"
	imdsHTTPBudget = 1 * time.Second
)

type imdsTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresOn   string `json:"expires_on"`
}

// IMDSProvider fetches a Bearer token scoped to Azure Storage from the
// instance metadata service available to a VM or App Service with a
// managed identity assigned. Returns (nil, nil) when IMDS is unreachable
// within the strict per-call timeout, since absence of IMDS is a normal
// "not running on Azure compute" outcome rather than an error.
func IMDSProvider() reqsign.CredentialProviderFunc[Credential] {
	return func(ctx context.Context, rc *reqsign.Context) (*Credential, error) {
		cctx, cancel := context.WithTimeout(ctx, imdsHTTPBudget)
		defer cancel()

		q := url.Values{}
		q.Set("api-version", imdsAPIVersion)
		q.Set("resource", storageScope[:len(storageScope)-len("/.default")])

		req, err := http.NewRequestWithContext(cctx, http.MethodGet, imdsTokenURL+"?"+q.Encode(), nil)
		if err != nil {
			return nil, nil
		}
		req.Header.Set("Metadata", "true")

		resp, err := rc.HTTPSend(cctx, req)
		if err != nil {
			return nil, nil
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil || resp.StatusCode != http.StatusOK {
			return nil, nil
		}

		var parsed imdsTokenResponse
		if err := json.Unmarshal(body, &parsed); err != nil || parsed.AccessToken == "" {
			return nil, nil
		}

		cred := &Credential{BearerToken: parsed.AccessToken}
		if parsed.ExpiresOn != "" {
			if secs, err := strconv.ParseInt(parsed.ExpiresOn, 10, 64); err == nil {
				t := time.Unix(secs, 0).UTC()
				cred.ExpiresAt = &t
			}
		}
		return cred, nil
	}
}
