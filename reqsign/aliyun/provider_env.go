package aliyun

import (
	"context"

	"github.com/prn-tf/reqsign-go/reqsign"
)

// EnvProvider reads ALIBABA_CLOUD_ACCESS_KEY_ID / _SECRET / _SECURITY_TOKEN.
// Returns (nil, nil) unless both the key ID and secret are present.
func EnvProvider() reqsign.CredentialProviderFunc[Credential] {
	return func(ctx context.Context, rc *reqsign.Context) (*Credential, error) {
		id, ok := rc.EnvVar(envAccessKeyID)
		if !ok || id == "" {
			return nil, nil
		}
		secret, ok := rc.EnvVar(envAccessKeySecret)
		if !ok || secret == "" {
			return nil, nil
		}
		token, _ := rc.EnvVar(envSecurityToken)
		return &Credential{AccessKeyID: id, AccessKeySecret: secret, SecurityToken: token}, nil
	}
}
