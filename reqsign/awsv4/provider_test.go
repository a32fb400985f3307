package awsv4

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prn-tf/reqsign-go/reqsign"
)

func newTestContext(env map[string]string, files map[string][]byte) *reqsign.Context {
	rc := reqsign.New(reqsign.NewStaticFileReader(files), nil)
	return rc.WithEnv(reqsign.NewStaticEnv(env).WithHome("/home/tester"))
}

func TestEnvProviderRequiresBothKeys(t *testing.T) {
	rc := newTestContext(map[string]string{"AWS_ACCESS_KEY_ID": "AKID"}, nil)
	cred, err := EnvProvider()(context.Background(), rc)
	require.NoError(t, err)
	require.Nil(t, cred)
}

func TestEnvProviderReturnsCredential(t *testing.T) {
	rc := newTestContext(map[string]string{
		"AWS_ACCESS_KEY_ID":     "AKID",
		"AWS_SECRET_ACCESS_KEY": "secret",
		"AWS_SESSION_TOKEN":     "token",
	}, nil)
	cred, err := EnvProvider()(context.Background(), rc)
	require.NoError(t, err)
	require.NotNil(t, cred)
	require.Equal(t, "AKID", cred.AccessKeyID)
	require.Equal(t, "token", cred.SessionToken)
}

func TestProfileProviderReadsSharedCredentialsFile(t *testing.T) {
	creds := "[default]\naws_access_key_id = DEFAULTACCESSKEYID\naws_secret_access_key = DEFAULTSECRETACCESSKEY\n\n" +
		"[profile1]\naws_access_key_id = PROFILE1ACCESSKEYID\naws_secret_access_key = PROFILE1SECRETACCESSKEY\naws_session_token = PROFILE1SESSIONTOKEN\n"

	rc := newTestContext(map[string]string{
		"AWS_PROFILE":                 "profile1",
		"AWS_SHARED_CREDENTIALS_FILE": "/home/tester/.aws/credentials",
	}, map[string][]byte{
		"/home/tester/.aws/credentials": []byte(creds),
	})

	cred, err := ProfileProvider()(context.Background(), rc)
	require.NoError(t, err)
	require.NotNil(t, cred)
	require.Equal(t, "PROFILE1ACCESSKEYID", cred.AccessKeyID)
	require.Equal(t, "PROFILE1SECRETACCESSKEY", cred.SecretAccessKey)
	require.Equal(t, "PROFILE1SESSIONTOKEN", cred.SessionToken)
}

func TestProfileProviderReadsConfigFileWithProfilePrefix(t *testing.T) {
	conf := "[default]\naws_access_key_id = DEFAULTACCESSKEYID\naws_secret_access_key = DEFAULTSECRETACCESSKEY\n\n" +
		"[profile profile1]\naws_access_key_id = PROFILE1ACCESSKEYID\naws_secret_access_key = PROFILE1SECRETACCESSKEY\nendpoint_url = http://localhost:8080\n"

	rc := newTestContext(map[string]string{
		"AWS_PROFILE":     "profile1",
		"AWS_CONFIG_FILE": "/home/tester/.aws/config",
	}, map[string][]byte{
		"/home/tester/.aws/config": []byte(conf),
	})

	cred, err := ProfileProvider()(context.Background(), rc)
	require.NoError(t, err)
	require.NotNil(t, cred)
	require.Equal(t, "PROFILE1ACCESSKEYID", cred.AccessKeyID)
	require.Equal(t, "PROFILE1SECRETACCESSKEY", cred.SecretAccessKey)
}

func TestProfileProviderMissingFileReturnsNilNotError(t *testing.T) {
	rc := newTestContext(map[string]string{"AWS_PROFILE": "ghost"}, nil)
	cred, err := ProfileProvider()(context.Background(), rc)
	require.NoError(t, err)
	require.Nil(t, cred)
}

func TestReadProfileRoleConfigRejectsInvalidDuration(t *testing.T) {
	conf := "[profile assume]\nrole_arn = arn:aws:iam::123456789012:role/test\nduration_seconds = not-a-number\n"
	rc := newTestContext(map[string]string{"AWS_CONFIG_FILE": "/home/tester/.aws/config"}, map[string][]byte{
		"/home/tester/.aws/config": []byte(conf),
	})

	_, _, err := ReadProfileRoleConfig(context.Background(), rc, "assume")
	require.Error(t, err)
	rerr, ok := err.(*reqsign.Error)
	require.True(t, ok)
	require.Equal(t, reqsign.KindConfigInvalid, rerr.Kind)
}
