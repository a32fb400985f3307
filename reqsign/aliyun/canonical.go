package aliyun

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"

	"github.com/prn-tf/reqsign-go/reqsign"
	"github.com/prn-tf/reqsign-go/reqsign/internal/pctenc"
)

func hmacSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func canonicalURI(path string) string {
	if path == "" {
		return "/"
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = pctenc.EncodePathSegment(seg)
	}
	return strings.Join(segments, "/")
}

func canonicalQueryString(query url.Values) string {
	names := make([]string, 0, len(query))
	for name := range query {
		names = append(names, name)
	}
	sort.Strings(names)

	var parts []string
	for _, name := range names {
		values := append([]string(nil), query[name]...)
		sort.Strings(values)
		for _, v := range values {
			parts = append(parts, pctenc.Encode(name)+"="+pctenc.Encode(v))
		}
	}
	return strings.Join(parts, "&")
}

func signedHeadersList(head *reqsign.RequestHead, hasToken bool) []string {
	names := []string{"host", headerDate}
	if hasToken {
		names = append(names, headerSecurityTok)
	}
	for name := range head.Header {
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, "x-oss-") && lower != headerDate && lower != headerSecurityTok {
			names = append(names, lower)
		}
	}
	sort.Strings(names)
	return dedupSorted(names)
}

func dedupSorted(names []string) []string {
	out := names[:0]
	var last string
	for i, n := range names {
		if i == 0 || n != last {
			out = append(out, n)
		}
		last = n
	}
	return out
}

func canonicalHeaders(head *reqsign.RequestHead, signedHeaders []string) string {
	var b strings.Builder
	for _, name := range signedHeaders {
		var value string
		if name == "host" {
			value = head.Host
		} else {
			value = head.Header.Get(name)
		}
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(strings.TrimSpace(value))
		b.WriteByte('\n')
	}
	return b.String()
}

func buildCanonicalRequest(head *reqsign.RequestHead, signedHeaders []string, payloadHash string) string {
	return strings.Join([]string{
		head.Method,
		canonicalURI(head.Path),
		canonicalQueryString(head.Query),
		canonicalHeaders(head, signedHeaders),
		strings.Join(signedHeaders, ";"),
		payloadHash,
	}, "\n")
}

type credentialScope struct {
	date   string
	region string
}

func (s credentialScope) String() string {
	return strings.Join([]string{s.date, s.region, "oss", terminationString}, "/")
}

func stringToSign(datetime string, scope credentialScope, canonicalRequest string) string {
	return strings.Join([]string{
		signAlgorithm,
		datetime,
		scope.String(),
		sha256Hex([]byte(canonicalRequest)),
	}, "\n")
}

func signingKey(secret string, scope credentialScope) []byte {
	kDate := hmacSHA256([]byte("aliyun_v4"+secret), []byte(scope.date))
	kRegion := hmacSHA256(kDate, []byte(scope.region))
	kService := hmacSHA256(kRegion, []byte("oss"))
	return hmacSHA256(kService, []byte(terminationString))
}

func signature(key []byte, stringToSign string) string {
	return hex.EncodeToString(hmacSHA256(key, []byte(stringToSign)))
}

func payloadHash(head *reqsign.RequestHead) string {
	if v := head.Header.Get(headerContentSHA); v != "" {
		return v
	}
	return unsignedPayload
}
