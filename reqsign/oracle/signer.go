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
	"time"

	"github.com/prn-tf/reqsign-go/reqsign"
)

const headerContentSHA256 = "x-content-sha256"

// Signer signs requests with the OCI API Signature scheme (an RFC-draft
// HTTP Signatures variant). It has no presign mode.
type Signer struct{}

func New() *Signer { return &Signer{} }

func (s *Signer) SignFunc() reqsign.RequestSignerFunc[Credential] {
	return func(head *reqsign.RequestHead, cred *Credential, expiresIn *time.Duration, now time.Time) error {
		return s.sign(head, cred, expiresIn, now)
	}
}

func (s *Signer) sign(head *reqsign.RequestHead, cred *Credential, expiresIn *time.Duration, now time.Time) error {
	if expiresIn != nil {
		return reqsign.NewRequestInvalid("oracle: this scheme has no presign mode")
	}
	if cred.User == "" || cred.Tenancy == "" || cred.Fingerprint == "" || cred.PrivateKeyPEM == "" {
		return reqsign.NewRequestInvalid("oracle: credential is missing required fields")
	}

	key, err := parsePrivateKey(cred.PrivateKeyPEM)
	if err != nil {
		return err
	}

	if head.Header.Get("date") == "" && head.Header.Get("Date") == "" {
		head.Header.Set("date", now.Format(time.RFC1123))
	}

	hasBody := head.Method != "GET" && head.Method != "HEAD"
	if hasBody && head.Header.Get(headerContentSHA256) == "" {
		return reqsign.NewRequestInvalid("oracle: x-content-sha256 must be set on the request head for methods that carry a body")
	}

	signedHeaders := []string{"(request-target)", "host", "date"}
	if hasBody {
		signedHeaders = append(signedHeaders, "content-length", "content-type", headerContentSHA256)
	}

	sts := stringToSign(head, signedHeaders)
	digest := sha256.Sum256([]byte(sts))
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		return reqsign.WithSource(reqsign.NewCrypto("oracle: RSA signing failed"), err)
	}

	auth := `Signature version="1",keyId="` + cred.keyID() + `",algorithm="rsa-sha256",headers="` +
		strings.Join(signedHeaders, " ") + `",signature="` + base64.StdEncoding.EncodeToString(sig) + `"`
	head.Header.Set("Authorization", auth)
	return nil
}

func parsePrivateKey(pemText string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return nil, reqsign.NewConfigInvalid("oracle: private key is not valid PEM")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, reqsign.WithSource(reqsign.NewConfigInvalid("oracle: private key could not be parsed"), err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, reqsign.NewConfigInvalid("oracle: private key is not an RSA key")
	}
	return key, nil
}
