package azurestorage

import (
	"context"

	"github.com/prn-tf/reqsign-go/reqsign"
)

const (
	envAccountName = "AZURE_STORAGE_ACCOUNT_NAME"
	envAccountKey  = "AZURE_STORAGE_ACCOUNT_KEY"

	envTenantID      = "AZURE_TENANT_ID"
	envClientID      = "AZURE_CLIENT_ID"
	envClientSecret  = "AZURE_CLIENT_SECRET"
	envAuthorityHost = "AZURE_AUTHORITY_HOST"

	defaultAuthorityHost = "https://login.microsoftonline.com"
)

// EnvProvider reads AZURE_STORAGE_ACCOUNT_NAME / AZURE_STORAGE_ACCOUNT_KEY
// and, when both are present, returns a Shared Key credential.
func EnvProvider() reqsign.CredentialProviderFunc[Credential] {
	return func(ctx context.Context, rc *reqsign.Context) (*Credential, error) {
		name, ok := rc.EnvVar(envAccountName)
		if !ok || name == "" {
			return nil, nil
		}
		key, ok := rc.EnvVar(envAccountKey)
		if !ok || key == "" {
			return nil, nil
		}
		return &Credential{AccountName: name, AccountKey: key}, nil
	}
}
