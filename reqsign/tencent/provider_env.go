package tencent

import (
	"context"

	"github.com/prn-tf/reqsign-go/reqsign"
)

const (
	envSecretID        = "TENCENTCLOUD_SECRET_ID"
	envSecretKey       = "TENCENTCLOUD_SECRET_KEY"
	envToken           = "TENCENTCLOUD_TOKEN"
	envSecurityToken   = "TENCENTCLOUD_SECURITY_TOKEN"
	envTKESecretID     = "TKE_SECRET_ID"
	envTKESecretKey    = "TKE_SECRET_KEY"
	envQCloudSecretTok = "QCLOUD_SECRET_TOKEN"
)

// EnvProvider reads TENCENTCLOUD_SECRET_ID/KEY, falling back to
// TKE_SECRET_ID/KEY, and a security token from TENCENTCLOUD_TOKEN,
// TENCENTCLOUD_SECURITY_TOKEN, or QCLOUD_SECRET_TOKEN in that order.
// Returns (nil, nil) unless both a secret ID and secret key are found.
func EnvProvider() reqsign.CredentialProviderFunc[Credential] {
	return func(ctx context.Context, rc *reqsign.Context) (*Credential, error) {
		id := firstEnv(rc, envSecretID, envTKESecretID)
		if id == "" {
			return nil, nil
		}
		key := firstEnv(rc, envSecretKey, envTKESecretKey)
		if key == "" {
			return nil, nil
		}
		token := firstEnv(rc, envToken, envSecurityToken, envQCloudSecretTok)
		return &Credential{SecretID: id, SecretKey: key, SecurityToken: token}, nil
	}
}

func firstEnv(rc *reqsign.Context, names ...string) string {
	for _, name := range names {
		if v, ok := rc.EnvVar(name); ok && v != "" {
			return v
		}
	}
	return ""
}
