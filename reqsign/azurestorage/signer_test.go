package azurestorage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"testing"
	"time"

	"github.com/prn-tf/reqsign-go/reqsign"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
)

// testAccountKey is derived deterministically from a human-readable
// passphrase via PBKDF2, rather than hand-picked random bytes, so the
// fixture reads as a real (if fake) storage account key.
var testAccountKey = base64.StdEncoding.EncodeToString(
	pbkdf2.Key([]byte("reqsign-test-passphrase"), []byte("reqsign-test-salt"), 4096, 32, sha256.New),
)

func TestSignSharedKeyProducesExpectedBase64Signature(t *testing.T) {
	head := reqsign.NewRequestHead("HEAD", "https", "myaccount.blob.core.windows.net", "/mycontainer")
	head.Header.Set(headerDate, "Mon, 01 Jan 2024 00:00:00 GMT")
	head.Header.Set(headerVersion, "2021-08-06")
	head.Query.Set("restype", "container")

	cred := &Credential{AccountName: "myaccount", AccountKey: testAccountKey}
	s := New(ModeSharedKey)
	err := s.SignFunc()(head, cred, nil, time.Now().UTC())
	require.NoError(t, err)

	auth := head.Header.Get(headerAuth)
	require.Contains(t, auth, "SharedKey myaccount:")

	sig := auth[len("SharedKey myaccount:"):]
	decoded, err := base64.StdEncoding.DecodeString(sig)
	require.NoError(t, err)
	require.Len(t, decoded, 32) // HMAC-SHA256 digest size
	require.Len(t, sig, 44)     // base64(32 bytes) is always 44 chars with padding

	key, _ := base64.StdEncoding.DecodeString(testAccountKey)
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(stringToSignSharedKey(head, "myaccount")))
	require.Equal(t, base64.StdEncoding.EncodeToString(mac.Sum(nil)), sig)
}

func TestSignSharedKeyEncodedAndLiteralQueryCanonicalizeIdentically(t *testing.T) {
	cred := &Credential{AccountName: "myaccount", AccountKey: testAccountKey}
	s := New(ModeSharedKey)

	headLiteral := reqsign.NewRequestHead("GET", "https", "myaccount.blob.core.windows.net", "/mycontainer")
	headLiteral.Header.Set(headerDate, "Mon, 01 Jan 2024 00:00:00 GMT")
	headLiteral.Query.Set("prefix", "test/path/to/dir")

	// headEncoded starts from a raw, percent-encoded query string --
	// url.ParseQuery decodes "%2F" to "/" on the way in, so by the time
	// the signer sees head.Query it holds the same decoded value as
	// headLiteral's, the way a real caller's percent-encoded URL would.
	rawQuery, err := url.ParseQuery("prefix=test%2Fpath%2Fto%2Fdir")
	require.NoError(t, err)
	require.Equal(t, "test/path/to/dir", rawQuery.Get("prefix"))

	headEncoded := reqsign.NewRequestHead("GET", "https", "myaccount.blob.core.windows.net", "/mycontainer")
	headEncoded.Header.Set(headerDate, "Mon, 01 Jan 2024 00:00:00 GMT")
	headEncoded.Query = rawQuery

	require.NoError(t, s.SignFunc()(headLiteral, cred, nil, time.Now().UTC()))
	require.NoError(t, s.SignFunc()(headEncoded, cred, nil, time.Now().UTC()))
	require.Equal(t, headLiteral.Header.Get(headerAuth), headEncoded.Header.Get(headerAuth))
}

func TestSignBearerSetsAuthorizationHeader(t *testing.T) {
	head := reqsign.NewRequestHead("GET", "https", "myaccount.blob.core.windows.net", "/mycontainer")
	cred := &Credential{BearerToken: "aad-token-xyz"}
	s := New(ModeBearer)
	require.NoError(t, s.SignFunc()(head, cred, nil, time.Now().UTC()))
	require.Equal(t, "Bearer aad-token-xyz", head.Header.Get(headerAuth))
}

func TestSignBearerRejectsMissingToken(t *testing.T) {
	head := reqsign.NewRequestHead("GET", "https", "myaccount.blob.core.windows.net", "/mycontainer")
	cred := &Credential{}
	s := New(ModeBearer)
	err := s.SignFunc()(head, cred, nil, time.Now().UTC())
	require.Error(t, err)
	var rerr *reqsign.Error
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, reqsign.KindRequestInvalid, rerr.Kind)
}

func TestSignSASAppendsExpectedQueryParameters(t *testing.T) {
	head := reqsign.NewRequestHead("GET", "https", "myaccount.blob.core.windows.net", "/mycontainer")
	cred := &Credential{AccountName: "myaccount", AccountKey: testAccountKey}
	s := New(ModeSharedKey)

	expires := 5 * time.Minute
	err := s.SignFunc()(head, cred, &expires, time.Now().UTC())
	require.NoError(t, err)

	require.Equal(t, "2023-01-03", head.Query.Get("sv"))
	require.NotEmpty(t, head.Query.Get("st"))
	require.NotEmpty(t, head.Query.Get("se"))
	require.Equal(t, "c", head.Query.Get("sr"))
	require.Equal(t, "r", head.Query.Get("sp"))
	require.NotEmpty(t, head.Query.Get("sig"))
}

func TestSignSASRejectsNonPositiveExpiry(t *testing.T) {
	head := reqsign.NewRequestHead("GET", "https", "myaccount.blob.core.windows.net", "/mycontainer")
	cred := &Credential{AccountName: "myaccount", AccountKey: testAccountKey}
	s := New(ModeSharedKey)

	expires := time.Duration(0)
	err := s.SignFunc()(head, cred, &expires, time.Now().UTC())
	require.Error(t, err)
	require.Empty(t, head.Query.Get("sig"))
}
