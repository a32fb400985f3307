package azurestorage

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/prn-tf/reqsign-go/reqsign"
	"github.com/stretchr/testify/require"
)

type erroringSender struct{}

func (erroringSender) Send(_ context.Context, _ *http.Request) (*http.Response, error) {
	return nil, errors.New("no network in tests")
}

func newTestContext(env map[string]string) *reqsign.Context {
	return reqsign.New(reqsign.StaticFileReader{}, erroringSender{}).WithEnv(reqsign.NewStaticEnv(env))
}

func TestEnvProviderRequiresBothAccountFields(t *testing.T) {
	rc := newTestContext(map[string]string{envAccountName: "myaccount"})
	cred, err := EnvProvider()(context.Background(), rc)
	require.NoError(t, err)
	require.Nil(t, cred)
}

func TestEnvProviderReturnsSharedKeyCredential(t *testing.T) {
	rc := newTestContext(map[string]string{
		envAccountName: "myaccount",
		envAccountKey:  testAccountKey,
	})
	cred, err := EnvProvider()(context.Background(), rc)
	require.NoError(t, err)
	require.NotNil(t, cred)
	require.Equal(t, "myaccount", cred.AccountName)
	require.Equal(t, testAccountKey, cred.AccountKey)
}

func TestStaticProviderReturnsGivenCredential(t *testing.T) {
	want := Credential{AccountName: "a", AccountKey: "b"}
	cred, err := StaticProvider(want)(context.Background(), newTestContext(nil))
	require.NoError(t, err)
	require.Equal(t, want, *cred)
}

func TestClientSecretProviderMissingConfigReturnsNilNotError(t *testing.T) {
	rc := newTestContext(nil)
	cred, err := ClientSecretProvider(ClientSecretOptions{})(context.Background(), rc)
	require.NoError(t, err)
	require.Nil(t, cred)
}

type recordingSender struct{ req *http.Request }

func (s *recordingSender) Send(_ context.Context, r *http.Request) (*http.Response, error) {
	s.req = r
	return nil, errors.New("no network in tests")
}

func TestClientSecretProviderResolvesFieldsFromOptionsOverEnv(t *testing.T) {
	sender := &recordingSender{}
	rc := reqsign.New(reqsign.StaticFileReader{}, sender).WithEnv(reqsign.NewStaticEnv(map[string]string{
		envTenantID:     "env-tenant",
		envClientID:     "env-client",
		envClientSecret: "env-secret",
	}))
	opts := ClientSecretOptions{TenantID: "opt-tenant"}
	// The sender records the token request and then fails it, so the
	// provider returns an error; the recorded URL shows that the tenant
	// from the options, not the one from the environment, was used.
	_, err := ClientSecretProvider(opts)(context.Background(), rc)
	require.Error(t, err)
	require.NotNil(t, sender.req)
	require.Contains(t, sender.req.URL.Path, "/opt-tenant/")
}
