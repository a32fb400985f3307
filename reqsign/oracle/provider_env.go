package oracle

import (
	"context"
	"time"

	"github.com/prn-tf/reqsign-go/reqsign"
)

const (
	envUser        = "OCI_USER"
	envTenancy     = "OCI_TENANCY"
	envKeyFile     = "OCI_KEY_FILE"
	envFingerprint = "OCI_FINGERPRINT"

	syntheticExpiry = 10 * time.Minute
)

// EnvProvider reads OCI_USER, OCI_TENANCY, OCI_KEY_FILE, and
// OCI_FINGERPRINT, expanding a leading "~" in the key file path, and
// reads the PEM key file's content. Returns (nil, nil) unless all four
// variables are present.
func EnvProvider() reqsign.CredentialProviderFunc[Credential] {
	return func(ctx context.Context, rc *reqsign.Context) (*Credential, error) {
		user, ok := rc.EnvVar(envUser)
		if !ok || user == "" {
			return nil, nil
		}
		tenancy, ok := rc.EnvVar(envTenancy)
		if !ok || tenancy == "" {
			return nil, nil
		}
		keyFile, ok := rc.EnvVar(envKeyFile)
		if !ok || keyFile == "" {
			return nil, nil
		}
		fingerprint, ok := rc.EnvVar(envFingerprint)
		if !ok || fingerprint == "" {
			return nil, nil
		}

		expanded, ok := rc.ExpandHomeDir(keyFile)
		if !ok {
			return nil, reqsign.NewConfigInvalid("oracle: could not expand home directory in OCI_KEY_FILE")
		}
		content, err := rc.FileRead(ctx, expanded)
		if err != nil {
			return nil, reqsign.WithSource(reqsign.NewCredentialLoad("oracle: reading OCI_KEY_FILE failed"), err)
		}

		now := rc.Now().UTC()
		expiresAt := now.Add(syntheticExpiry)
		return &Credential{
			User:          user,
			Tenancy:       tenancy,
			Fingerprint:   fingerprint,
			PrivateKeyPEM: string(content),
			ExpiresAt:     &expiresAt,
		}, nil
	}
}
