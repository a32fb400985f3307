package google

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/prn-tf/reqsign-go/reqsign"
)

type serviceAccountFile struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// StaticProvider parses a service-account JSON blob and returns its
// client_email/private_key as a Credential. content may be the raw JSON
// document or that document base64-encoded, matching how
// GOOGLE_APPLICATION_CREDENTIALS content is sometimes inlined into an
// environment variable instead of a file path.
func StaticProvider(content []byte) reqsign.CredentialProviderFunc[Credential] {
	return func(ctx context.Context, rc *reqsign.Context) (*Credential, error) {
		return parseServiceAccount(content)
	}
}

func parseServiceAccount(content []byte) (*Credential, error) {
	raw := content
	if decoded, err := base64.StdEncoding.DecodeString(string(content)); err == nil {
		raw = decoded
	}

	var sa serviceAccountFile
	if err := json.Unmarshal(raw, &sa); err != nil {
		return nil, reqsign.WithSource(reqsign.NewConfigInvalid("google: service account JSON could not be parsed"), err)
	}
	if sa.ClientEmail == "" || sa.PrivateKey == "" {
		return nil, reqsign.NewConfigInvalid("google: service account JSON is missing client_email or private_key")
	}
	return &Credential{ClientEmail: sa.ClientEmail, PrivateKeyPEM: sa.PrivateKey}, nil
}
