package oracle

import (
	"context"

	"github.com/prn-tf/reqsign-go/reqsign"
)

// StaticProvider always returns cred.
func StaticProvider(cred Credential) reqsign.CredentialProviderFunc[Credential] {
	return func(ctx context.Context, rc *reqsign.Context) (*Credential, error) {
		return &cred, nil
	}
}
