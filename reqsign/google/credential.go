// Package google implements Google Cloud Storage V4 signed URLs and the
// OAuth2 JWT-bearer bearer-token flow used for header-mode requests.
package google

import "time"

// Credential carries a service account's identity and key material, plus
// whichever cached OAuth2 access token a BearerTokenProvider produced.
type Credential struct {
	ClientEmail   string
	PrivateKeyPEM string

	// Token and ExpiresAt are populated once BearerTokenProvider has
	// exchanged the service account key for an access token; both are
	// empty on the raw credential a Static/Env provider returns.
	Token     string
	ExpiresAt *time.Time
}

// Expiry implements reqsign.Expirer. A raw service-account credential
// with no Token never expires on its own; the wrapping
// BearerTokenProvider's output is what carries a real expiry.
func (c Credential) Expiry() *time.Time { return c.ExpiresAt }
