package awsv4

import (
	"context"

	"github.com/prn-tf/reqsign-go/reqsign"
)

// StaticProvider returns a fixed, caller-supplied credential. Useful for
// tests and for embedders that already resolved credentials elsewhere.
func StaticProvider(cred Credential) reqsign.CredentialProviderFunc[Credential] {
	return func(ctx context.Context, rc *reqsign.Context) (*Credential, error) {
		return &cred, nil
	}
}
