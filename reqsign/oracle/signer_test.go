package oracle

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"strings"
	"testing"
	"time"

	"github.com/prn-tf/reqsign-go/reqsign"
	"github.com/stretchr/testify/require"
)

func generateTestCredential(t *testing.T) (*Credential, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	return &Credential{
		User:          "ocid1.user.oc1..aaaa",
		Tenancy:       "ocid1.tenancy.oc1..bbbb",
		Fingerprint:   "20:3b:97:...",
		PrivateKeyPEM: string(pem.EncodeToMemory(block)),
	}, key
}

func TestSignGETProducesVerifiableAuthorizationHeader(t *testing.T) {
	cred, key := generateTestCredential(t)
	head := reqsign.NewRequestHead("GET", "https", "objectstorage.us-phoenix-1.oraclecloud.com", "/n/namespace/b/bucket/o")

	s := New()
	require.NoError(t, s.SignFunc()(head, cred, nil, time.Now().UTC()))

	auth := head.Header.Get("Authorization")
	require.Contains(t, auth, `keyId="`+cred.keyID()+`"`)
	require.Contains(t, auth, `algorithm="rsa-sha256"`)
	require.Contains(t, auth, `headers="(request-target) host date"`)

	sigStart := strings.Index(auth, `signature="`) + len(`signature="`)
	sigB64 := auth[sigStart : len(auth)-1]
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	require.NoError(t, err)

	sts := stringToSign(head, []string{"(request-target)", "host", "date"})
	digest := sha256.Sum256([]byte(sts))
	require.NoError(t, rsa.VerifyPKCS1v15(&key.PublicKey, crypto.SHA256, digest[:], sig))
}

func TestSignPOSTRequiresContentSHA256Header(t *testing.T) {
	cred, _ := generateTestCredential(t)
	head := reqsign.NewRequestHead("POST", "https", "objectstorage.us-phoenix-1.oraclecloud.com", "/n/namespace/b/bucket/o")

	s := New()
	err := s.SignFunc()(head, cred, nil, time.Now().UTC())
	require.Error(t, err)
}

func TestSignPOSTIncludesBodyHeadersWhenPresent(t *testing.T) {
	cred, _ := generateTestCredential(t)
	head := reqsign.NewRequestHead("POST", "https", "objectstorage.us-phoenix-1.oraclecloud.com", "/n/namespace/b/bucket/o")
	head.Header.Set("content-length", "11")
	head.Header.Set("content-type", "application/json")
	head.Header.Set(headerContentSHA256, "abc123==")

	s := New()
	require.NoError(t, s.SignFunc()(head, cred, nil, time.Now().UTC()))
	auth := head.Header.Get("Authorization")
	require.Contains(t, auth, `headers="(request-target) host date content-length content-type x-content-sha256"`)
}

func TestSignRejectsPresignMode(t *testing.T) {
	cred, _ := generateTestCredential(t)
	head := reqsign.NewRequestHead("GET", "https", "objectstorage.us-phoenix-1.oraclecloud.com", "/n/namespace/b/bucket/o")
	s := New()
	expires := 5 * time.Minute
	err := s.SignFunc()(head, cred, &expires, time.Now().UTC())
	require.Error(t, err)
}
