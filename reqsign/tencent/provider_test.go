package tencent

import (
	"context"
	"testing"

	"github.com/prn-tf/reqsign-go/reqsign"
	"github.com/stretchr/testify/require"
)

func newTestContext(env map[string]string) *reqsign.Context {
	return reqsign.New(reqsign.StaticFileReader{}, nil).WithEnv(reqsign.NewStaticEnv(env))
}

func TestEnvProviderReadsPrimaryNames(t *testing.T) {
	rc := newTestContext(map[string]string{
		envSecretID:  "test_secret_id",
		envSecretKey: "test_secret_key",
	})
	cred, err := EnvProvider()(context.Background(), rc)
	require.NoError(t, err)
	require.Equal(t, "test_secret_id", cred.SecretID)
	require.Equal(t, "test_secret_key", cred.SecretKey)
	require.Empty(t, cred.SecurityToken)
}

func TestEnvProviderFallsBackToTKENamesAndToken(t *testing.T) {
	rc := newTestContext(map[string]string{
		envTKESecretID:  "test_secret_id",
		envTKESecretKey: "test_secret_key",
		envToken:        "test_security_token",
	})
	cred, err := EnvProvider()(context.Background(), rc)
	require.NoError(t, err)
	require.Equal(t, "test_secret_id", cred.SecretID)
	require.Equal(t, "test_secret_key", cred.SecretKey)
	require.Equal(t, "test_security_token", cred.SecurityToken)
}

func TestEnvProviderMissingCredentialsReturnsNilNotError(t *testing.T) {
	rc := newTestContext(nil)
	cred, err := EnvProvider()(context.Background(), rc)
	require.NoError(t, err)
	require.Nil(t, cred)
}

func TestEnvProviderPartialCredentialsReturnsNilNotError(t *testing.T) {
	rc := newTestContext(map[string]string{envSecretID: "test_secret_id"})
	cred, err := EnvProvider()(context.Background(), rc)
	require.NoError(t, err)
	require.Nil(t, cred)
}
