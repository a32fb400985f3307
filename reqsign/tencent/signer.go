package tencent

import (
	"fmt"
	"time"

	"github.com/prn-tf/reqsign-go/reqsign"
)

const headerSecurityToken = "x-cos-security-token"

// Signer signs requests with the Tencent COS q-sign scheme. It has no
// dedicated presign mode; the same Authorization header works whether
// expiresIn is set (a wide KeyTime window) or not.
type Signer struct{}

func New() *Signer { return &Signer{} }

func (s *Signer) SignFunc() reqsign.RequestSignerFunc[Credential] {
	return func(head *reqsign.RequestHead, cred *Credential, expiresIn *time.Duration, now time.Time) error {
		return s.sign(head, cred, expiresIn, now)
	}
}

func (s *Signer) sign(head *reqsign.RequestHead, cred *Credential, expiresIn *time.Duration, now time.Time) error {
	if cred.SecretID == "" || cred.SecretKey == "" {
		return reqsign.NewRequestInvalid("tencent: credential is missing SecretID or SecretKey")
	}

	duration := 15 * time.Minute
	if expiresIn != nil {
		if *expiresIn <= 0 {
			return reqsign.NewRequestInvalid("tencent: presign expiry must be positive")
		}
		duration = *expiresIn
	}

	if cred.hasToken() {
		head.Header.Set(headerSecurityToken, cred.SecurityToken)
	}

	start := now.Unix()
	end := now.Add(duration).Unix()
	keyTime := fmt.Sprintf("%d;%d", start, end)

	signKey := hmacSHA1Hex([]byte(cred.SecretKey), []byte(keyTime))

	headerNames := []string{"host"}
	for name := range head.Header {
		headerNames = append(headerNames, name)
	}
	httpHeaders, headerList := keyValueList(headerMapWithHost(head, headerNames))
	httpParameters, urlParamList := keyValueList(queryMap(head.Query))

	httpStr := httpString(head, httpParameters, httpHeaders)
	stringToSign := fmt.Sprintf("sha1\n%s\n%s\n", keyTime, sha1Hex([]byte(httpStr)))
	signature := hmacSHA1Hex([]byte(signKey), []byte(stringToSign))

	auth := fmt.Sprintf(
		"q-sign-algorithm=sha1&q-ak=%s&q-sign-time=%s&q-key-time=%s&q-header-list=%s&q-url-param-list=%s&q-signature=%s",
		cred.SecretID, keyTime, keyTime, headerList, urlParamList, signature,
	)
	head.Header.Set("Authorization", auth)
	return nil
}

func headerMapWithHost(head *reqsign.RequestHead, names []string) map[string]string {
	out := headerMap(head, names)
	out["host"] = head.Host
	return out
}
