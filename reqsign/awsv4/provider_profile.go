package awsv4

import (
	"context"
	"strconv"
	"time"

	"github.com/prn-tf/reqsign-go/internal/iniconf"
	"github.com/prn-tf/reqsign-go/reqsign"
)

// ProfileProvider reads ~/.aws/config and ~/.aws/credentials (or their
// AWS_CONFIG_FILE / AWS_SHARED_CREDENTIALS_FILE overrides), resolving the
// profile named by AWS_PROFILE or "default". Missing or unparseable files
// are tolerated and treated as "not configured" rather than as a hard
// failure; nothing is logged when that happens -- mirrors the original's
// "ignore all errors happened internally" policy for the profile-loading
// phase.
func ProfileProvider() reqsign.CredentialProviderFunc[Credential] {
	return func(ctx context.Context, rc *reqsign.Context) (*Credential, error) {
		profile := defaultProfile
		if v, ok := rc.EnvVar(envProfile); ok && v != "" {
			profile = v
		}

		cred := &Credential{}
		found := false

		if c, ok := readSharedCredentialsFile(ctx, rc, profile); ok {
			cred.AccessKeyID = c.AccessKeyID
			cred.SecretAccessKey = c.SecretAccessKey
			cred.SessionToken = c.SessionToken
			found = true
		}

		if c, ok := readConfigFile(ctx, rc, profile); ok {
			if c.AccessKeyID != "" {
				cred.AccessKeyID = c.AccessKeyID
				found = true
			}
			if c.SecretAccessKey != "" {
				cred.SecretAccessKey = c.SecretAccessKey
			}
			if c.SessionToken != "" {
				cred.SessionToken = c.SessionToken
			}
		}

		if !found || cred.AccessKeyID == "" || cred.SecretAccessKey == "" {
			return nil, nil
		}
		return cred, nil
	}
}

func readSharedCredentialsFile(ctx context.Context, rc *reqsign.Context, profile string) (Credential, bool) {
	path := defaultSharedCredsFile
	if v, ok := rc.EnvVar(envSharedCredsFile); ok && v != "" {
		path = v
	}
	expanded, ok := rc.ExpandHomeDir(path)
	if !ok {
		return Credential{}, false
	}

	content, err := rc.FileRead(ctx, expanded)
	if err != nil {
		return Credential{}, false
	}
	file, err := iniconf.Parse(content)
	if err != nil {
		return Credential{}, false
	}
	section, ok := file.Section(profile)
	if !ok {
		return Credential{}, false
	}

	var cred Credential
	cred.AccessKeyID, _ = section.Get("aws_access_key_id")
	cred.SecretAccessKey, _ = section.Get("aws_secret_access_key")
	cred.SessionToken, _ = section.Get("aws_session_token")
	return cred, true
}

// ProfileRoleConfig is the role-assumption configuration resolvable from
// a profile's config-file section: role_arn, role_session_name and
// duration_seconds (open question (a): a malformed duration_seconds is
// reported as ConfigInvalid, never silently ignored or panicked on).
type ProfileRoleConfig struct {
	RoleARN         string
	RoleSessionName string
	Duration        time.Duration
}

// ReadProfileRoleConfig resolves role-assumption settings for profile
// from the AWS config file, returning ok=false when no role_arn is
// configured for that profile.
func ReadProfileRoleConfig(ctx context.Context, rc *reqsign.Context, profile string) (ProfileRoleConfig, bool, error) {
	path := defaultConfigFile
	if v, ok := rc.EnvVar(envConfigFile); ok && v != "" {
		path = v
	}
	expanded, ok := rc.ExpandHomeDir(path)
	if !ok {
		return ProfileRoleConfig{}, false, nil
	}

	content, err := rc.FileRead(ctx, expanded)
	if err != nil {
		return ProfileRoleConfig{}, false, nil
	}
	file, err := iniconf.Parse(content)
	if err != nil {
		return ProfileRoleConfig{}, false, nil
	}
	section, ok := file.Section(iniconf.ConfigSectionName(profile))
	if !ok {
		return ProfileRoleConfig{}, false, nil
	}

	roleARN, ok := section.Get("role_arn")
	if !ok || roleARN == "" {
		return ProfileRoleConfig{}, false, nil
	}

	cfg := ProfileRoleConfig{RoleARN: roleARN, RoleSessionName: DefaultRoleSessionName, Duration: DefaultDuration}
	if v, ok := section.Get("role_session_name"); ok && v != "" {
		cfg.RoleSessionName = v
	}
	if v, ok := section.Get("duration_seconds"); ok && v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return ProfileRoleConfig{}, false, reqsign.WithSource(
				reqsign.NewConfigInvalid("awsv4: profile duration_seconds is not a valid integer"), err)
		}
		cfg.Duration = time.Duration(seconds) * time.Second
	}
	return cfg, true, nil
}

func readConfigFile(ctx context.Context, rc *reqsign.Context, profile string) (Credential, bool) {
	path := defaultConfigFile
	if v, ok := rc.EnvVar(envConfigFile); ok && v != "" {
		path = v
	}
	expanded, ok := rc.ExpandHomeDir(path)
	if !ok {
		return Credential{}, false
	}

	content, err := rc.FileRead(ctx, expanded)
	if err != nil {
		return Credential{}, false
	}
	file, err := iniconf.Parse(content)
	if err != nil {
		return Credential{}, false
	}
	section, ok := file.Section(iniconf.ConfigSectionName(profile))
	if !ok {
		return Credential{}, false
	}

	var cred Credential
	cred.AccessKeyID, _ = section.Get("aws_access_key_id")
	cred.SecretAccessKey, _ = section.Get("aws_secret_access_key")
	cred.SessionToken, _ = section.Get("aws_session_token")
	return cred, true
}
