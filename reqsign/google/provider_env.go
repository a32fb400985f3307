package google

import (
	"context"

	"github.com/prn-tf/reqsign-go/reqsign"
)

const envCredentialsFile = "GOOGLE_APPLICATION_CREDENTIALS"

// EnvProvider reads the path in GOOGLE_APPLICATION_CREDENTIALS and parses
// the service-account JSON file it points to. Returns (nil, nil) when the
// variable is unset.
func EnvProvider() reqsign.CredentialProviderFunc[Credential] {
	return func(ctx context.Context, rc *reqsign.Context) (*Credential, error) {
		path, ok := rc.EnvVar(envCredentialsFile)
		if !ok || path == "" {
			return nil, nil
		}
		expanded, ok := rc.ExpandHomeDir(path)
		if !ok {
			return nil, reqsign.NewConfigInvalid("google: could not expand home directory in GOOGLE_APPLICATION_CREDENTIALS")
		}
		content, err := rc.FileRead(ctx, expanded)
		if err != nil {
			return nil, reqsign.WithSource(reqsign.NewCredentialLoad("google: reading GOOGLE_APPLICATION_CREDENTIALS failed"), err)
		}
		return parseServiceAccount(content)
	}
}
