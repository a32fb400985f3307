package awsv4

import (
	"context"

	"github.com/prn-tf/reqsign-go/reqsign"
)

const (
	envAccessKeyID     = "AWS_ACCESS_KEY_ID"
	envSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	envSessionToken    = "AWS_SESSION_TOKEN"
	envRegion          = "AWS_REGION"
	envProfile         = "AWS_PROFILE"
	envConfigFile      = "AWS_CONFIG_FILE"
	envSharedCredsFile = "AWS_SHARED_CREDENTIALS_FILE"
	envRoleARN         = "AWS_ROLE_ARN"
	envRoleSessionName = "AWS_ROLE_SESSION_NAME"
	envWebIdentityFile = "AWS_WEB_IDENTITY_TOKEN_FILE"
	envEC2MetaDisabled = "AWS_EC2_METADATA_DISABLED"

	defaultConfigFile      = "~/.aws/config"
	defaultSharedCredsFile = "~/.aws/credentials"
	defaultProfile         = "default"
)

// EnvProvider reads AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY /
// AWS_SESSION_TOKEN. Returns (nil, nil) unless both the access key and
// secret are present.
func EnvProvider() reqsign.CredentialProviderFunc[Credential] {
	return func(ctx context.Context, rc *reqsign.Context) (*Credential, error) {
		ak, ok := rc.EnvVar(envAccessKeyID)
		if !ok || ak == "" {
			return nil, nil
		}
		sk, ok := rc.EnvVar(envSecretAccessKey)
		if !ok || sk == "" {
			return nil, nil
		}
		token, _ := rc.EnvVar(envSessionToken)
		return &Credential{AccessKeyID: ak, SecretAccessKey: sk, SessionToken: token}, nil
	}
}

// metadataDisabled reports whether AWS_EC2_METADATA_DISABLED=true.
func metadataDisabled(rc *reqsign.Context) bool {
	v, _ := rc.EnvVar(envEC2MetaDisabled)
	return v == "true"
}
