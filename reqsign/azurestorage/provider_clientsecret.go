package azurestorage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prn-tf/reqsign-go/reqsign"
)

const storageScope = "https://storage.azure.com/.default"

type aadTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// ClientSecretOptions configures ClientSecretProvider explicitly; any
// empty field falls back to its AZURE_* environment variable.
type ClientSecretOptions struct {
	TenantID      string
	ClientID      string
	ClientSecret  string
	AuthorityHost string
}

// ClientSecretProvider exchanges an AAD application's client secret for a
// Bearer access token scoped to Azure Storage, via the OAuth2
// client-credentials grant. Returns (nil, nil) when tenant, client ID, or
// secret cannot be resolved from opts or the environment.
func ClientSecretProvider(opts ClientSecretOptions) reqsign.CredentialProviderFunc[Credential] {
	return func(ctx context.Context, rc *reqsign.Context) (*Credential, error) {
		tenant := firstNonEmpty(opts.TenantID, envOrEmpty(rc, envTenantID))
		clientID := firstNonEmpty(opts.ClientID, envOrEmpty(rc, envClientID))
		secret := firstNonEmpty(opts.ClientSecret, envOrEmpty(rc, envClientSecret))
		if tenant == "" || clientID == "" || secret == "" {
			return nil, nil
		}
		authority := firstNonEmpty(opts.AuthorityHost, envOrEmpty(rc, envAuthorityHost), defaultAuthorityHost)

		form := url.Values{}
		form.Set("grant_type", "client_credentials")
		form.Set("client_id", clientID)
		form.Set("client_secret", secret)
		form.Set("scope", storageScope)

		tokenURL := fmt.Sprintf("%s/%s/oauth2/v2.0/token", strings.TrimRight(authority, "/"), tenant)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, reqsign.WithSource(reqsign.NewCredentialLoad("azurestorage: building AAD token request failed"), err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := rc.HTTPSend(ctx, req)
		if err != nil {
			return nil, reqsign.WithSource(reqsign.NewCredentialLoad("azurestorage: AAD token request failed"), err)
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, reqsign.WithSource(reqsign.NewCredentialLoad("azurestorage: reading AAD token response failed"), err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, reqsign.NewCredentialLoad("azurestorage: AAD token endpoint returned " + resp.Status)
		}

		var parsed aadTokenResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, reqsign.WithSource(reqsign.NewCredentialLoad("azurestorage: AAD token response was not valid JSON"), err)
		}

		now := rc.Now().UTC()
		expiresAt := now.Add(time.Duration(parsed.ExpiresIn) * time.Second)
		return &Credential{BearerToken: parsed.AccessToken, ExpiresAt: &expiresAt}, nil
	}
}

func envOrEmpty(rc *reqsign.Context, name string) string {
	v, _ := rc.EnvVar(name)
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
