package google

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prn-tf/reqsign-go/reqsign"
)

const (
	tokenEndpoint = "https://oauth2.googleapis.com/token"
	grantType     = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	tokenScope    = "https://www.googleapis.com/auth/devstorage.read_write"
	assertionTTL  = 1 * time.Hour
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// BearerTokenProvider wraps base (typically Static or Env) and exchanges
// the service account's RSA key for an OAuth2 access token via the
// JWT-bearer grant, returning a Credential whose Token/ExpiresAt the
// signing kernel will cache until expiry.
func BearerTokenProvider(base reqsign.CredentialProviderFunc[Credential]) reqsign.CredentialProviderFunc[Credential] {
	return func(ctx context.Context, rc *reqsign.Context) (*Credential, error) {
		sa, err := base(ctx, rc)
		if err != nil || sa == nil {
			return sa, err
		}

		key, err := parsePrivateKey(sa.PrivateKeyPEM)
		if err != nil {
			return nil, err
		}

		now := rc.Now().UTC()
		claims := jwt.MapClaims{
			"iss":   sa.ClientEmail,
			"scope": tokenScope,
			"aud":   tokenEndpoint,
			"iat":   now.Unix(),
			"exp":   now.Add(assertionTTL).Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
		assertion, err := token.SignedString(key)
		if err != nil {
			return nil, reqsign.WithSource(reqsign.NewCrypto("google: signing JWT assertion failed"), err)
		}

		form := url.Values{}
		form.Set("grant_type", grantType)
		form.Set("assertion", assertion)

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenEndpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, reqsign.WithSource(reqsign.NewCredentialLoad("google: building token exchange request failed"), err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := rc.HTTPSend(ctx, req)
		if err != nil {
			return nil, reqsign.WithSource(reqsign.NewCredentialLoad("google: token exchange request failed"), err)
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, reqsign.WithSource(reqsign.NewCredentialLoad("google: reading token exchange response failed"), err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, reqsign.NewCredentialLoad(fmt.Sprintf("google: token exchange returned %s", resp.Status))
		}

		var parsed tokenResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, reqsign.WithSource(reqsign.NewCredentialLoad("google: token exchange response was not valid JSON"), err)
		}

		expiresAt := now.Add(time.Duration(parsed.ExpiresIn) * time.Second)
		out := *sa
		out.Token = parsed.AccessToken
		out.ExpiresAt = &expiresAt
		return &out, nil
	}
}

func parsePrivateKey(pemText string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return nil, reqsign.NewConfigInvalid("google: private key is not valid PEM")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, reqsign.WithSource(reqsign.NewConfigInvalid("google: private key could not be parsed"), err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, reqsign.NewConfigInvalid("google: private key is not an RSA key")
	}
	return key, nil
}
