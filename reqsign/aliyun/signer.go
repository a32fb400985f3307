package aliyun

import (
	"fmt"
	"time"

	"github.com/prn-tf/reqsign-go/reqsign"
)

// Signer signs requests against one OSS region.
type Signer struct {
	Region string
}

func New(region string) *Signer {
	return &Signer{Region: region}
}

func (s *Signer) SignFunc() reqsign.RequestSignerFunc[Credential] {
	return func(head *reqsign.RequestHead, cred *Credential, expiresIn *time.Duration, now time.Time) error {
		return s.sign(head, cred, expiresIn, now)
	}
}

func (s *Signer) sign(head *reqsign.RequestHead, cred *Credential, expiresIn *time.Duration, now time.Time) error {
	if head.Header.Get("host") == "" && head.Host != "" {
		head.Header.Set("host", head.Host)
	}

	datetime := now.Format(iso8601Basic)
	date := now.Format(yyyymmdd)
	scope := credentialScope{date: date, region: s.Region}

	if expiresIn != nil {
		return s.presign(head, cred, *expiresIn, now, scope, datetime)
	}
	return s.signHeader(head, cred, scope, datetime)
}

func (s *Signer) signHeader(head *reqsign.RequestHead, cred *Credential, scope credentialScope, datetime string) error {
	head.Header.Set(headerDate, datetime)
	if cred.hasToken() {
		head.Header.Set(headerSecurityTok, cred.SecurityToken)
	}

	signedHeaders := signedHeadersList(head, cred.hasToken())
	canonicalRequest := buildCanonicalRequest(head, signedHeaders, payloadHash(head))
	sts := stringToSign(datetime, scope, canonicalRequest)
	key := signingKey(cred.AccessKeySecret, scope)
	sig := signature(key, sts)

	auth := fmt.Sprintf("%s Credential=%s/%s,SignedHeaders=%s,Signature=%s",
		signAlgorithm, cred.AccessKeyID, scope.String(), joinSemi(signedHeaders), sig)
	head.Header.Set("Authorization", auth)
	return nil
}

func (s *Signer) presign(head *reqsign.RequestHead, cred *Credential, expiresIn time.Duration, now time.Time, scope credentialScope, datetime string) error {
	if expiresIn <= 0 {
		return reqsign.NewRequestInvalid("aliyun: presign expiry must be positive")
	}

	head.Query.Set(queryAlgorithm, signAlgorithm)
	head.Query.Set(queryCredential, cred.AccessKeyID+"/"+scope.String())
	head.Query.Set(queryDate, datetime)
	head.Query.Set(queryExpires, fmt.Sprintf("%d", int64(expiresIn.Seconds())))
	if cred.hasToken() {
		head.Query.Set(querySecurityTok, cred.SecurityToken)
	}

	signedHeaders := signedHeadersList(head, false)
	head.Query.Set(querySignedHeaders, joinSemi(signedHeaders))

	canonicalRequest := buildCanonicalRequest(head, signedHeaders, unsignedPayload)
	sts := stringToSign(datetime, scope, canonicalRequest)
	key := signingKey(cred.AccessKeySecret, scope)
	sig := signature(key, sts)

	head.Query.Set(querySignature, sig)
	return nil
}

func joinSemi(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ";"
		}
		out += n
	}
	return out
}
