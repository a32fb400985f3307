// Package oracle implements the Oracle Cloud Infrastructure API Signature
// scheme, an RFC-draft HTTP Signatures variant.
package oracle

import "time"

// Credential identifies an OCI user and carries their RSA signing key.
// PrivateKeyPEM holds the key's content, read once at credential-provide
// time from the path OCI_KEY_FILE names, since the signer itself is a
// pure function with no file-system capability of its own.
type Credential struct {
	User          string
	Tenancy       string
	Fingerprint   string
	PrivateKeyPEM string
	ExpiresAt     *time.Time
}

func (c Credential) Expiry() *time.Time { return c.ExpiresAt }

func (c Credential) keyID() string {
	return c.Tenancy + "/" + c.User + "/" + c.Fingerprint
}
