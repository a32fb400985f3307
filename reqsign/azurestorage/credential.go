package azurestorage

import "time"

// Mode selects which Azure authentication scheme a Signer applies.
// Azure supports both Shared Key (account name + key) and AAD Bearer
// tokens on the same endpoints; a Credential may carry fields for both,
// so the caller's chosen Mode -- not field inspection -- decides which
// one is used (open question (b) in the design ledger).
type Mode int

const (
	// ModeSharedKey signs with the storage account key.
	ModeSharedKey Mode = iota
	// ModeBearer sets an Authorization: Bearer header from an AAD token.
	ModeBearer
)

// Credential carries whichever of the Shared Key or Bearer fields the
// configured provider populated.
type Credential struct {
	AccountName string
	// AccountKey is base64-encoded, as published in the Azure portal.
	AccountKey string

	// BearerToken is an AAD access token, present when a ClientSecret or
	// IMDS provider was used.
	BearerToken string
	ExpiresAt   *time.Time
}

// Expiry implements reqsign.Expirer. Shared Key credentials never expire.
func (c Credential) Expiry() *time.Time { return c.ExpiresAt }
