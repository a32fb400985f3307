package awsv4

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
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// canonicalURI path-encodes per RFC 3986. Non-S3 services are encoded
// twice (AWS's own convention: the path is already URL-decoded by the
// time it reaches here, then gets a single pass of escaping, and the
// signature computation treats the result as if escaped once more on the
// wire) -- S3 gets exactly one pass because object keys may legitimately
// contain characters a second pass would mangle.
func canonicalURI(path, service string) string {
	if path == "" {
		return "/"
	}

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		// Segments taken from an already-parsed path are unescaped; encode
		// once always, and a second time for every service except S3.
		encoded := pctenc.EncodePathSegment(seg)
		if service != serviceS3 {
			encoded = pctenc.Encode(encoded)
		}
		segments[i] = encoded
	}
	return strings.Join(segments, "/")
}

// canonicalQueryString sorts by key then value and percent-encodes both
// with the AWS unreserved set, keeping a trailing '=' for empty values.
func canonicalQueryString(query url.Values) string {
	if len(query) == 0 {
		return ""
	}

	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pairs []string
	for _, k := range keys {
		values := append([]string(nil), query[k]...)
		sort.Strings(values)
		encodedKey := pctenc.Encode(k)
		for _, v := range values {
			pairs = append(pairs, encodedKey+"="+pctenc.Encode(v))
		}
	}
	return strings.Join(pairs, "&")
}

// canonicalHeaders renders the lowercased, trimmed, whitespace-collapsed
// "name:value\n" lines for the given signed headers, which must already
// be sorted.
func canonicalHeaders(head *reqsign.RequestHead, signedHeaders []string) string {
	var b strings.Builder
	for _, h := range signedHeaders {
		value := head.Header.Get(h)
		value = strings.Join(strings.Fields(strings.TrimSpace(value)), " ")
		b.WriteString(strings.ToLower(h))
		b.WriteByte(':')
		b.WriteString(value)
		b.WriteByte('\n')
	}
	return b.String()
}

// signedHeadersList returns the lowercase, sorted list of header names
// that must participate in the signature: host, x-amz-date, the session
// token header when present, and content-sha256 when required (S3).
func signedHeadersList(head *reqsign.RequestHead, service string, hasToken bool) []string {
	set := map[string]bool{"host": true, "x-amz-date": true}
	if hasToken {
		set["x-amz-security-token"] = true
	}
	if service == serviceS3 {
		set["x-amz-content-sha256"] = true
	}
	for name := range head.Header {
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, "x-amz-") {
			set[lower] = true
		}
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func buildCanonicalRequest(method, uri, queryString, headers, signedHeaders, payloadHash string) string {
	return method + "\n" +
		uri + "\n" +
		queryString + "\n" +
		headers + "\n" +
		signedHeaders + "\n" +
		payloadHash
}

type credentialScope struct {
	date    string // yyyymmdd
	region  string
	service string
}

func (s credentialScope) String() string {
	return s.date + "/" + s.region + "/" + s.service + "/" + terminationString
}

func stringToSign(canonicalRequest, requestDateTime string, scope credentialScope) string {
	return signAlgorithm + "\n" +
		requestDateTime + "\n" +
		scope.String() + "\n" +
		sha256Hex([]byte(canonicalRequest))
}

func signingKey(secret string, scope credentialScope) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secret), []byte(scope.date))
	kRegion := hmacSHA256(kDate, []byte(scope.region))
	kService := hmacSHA256(kRegion, []byte(scope.service))
	return hmacSHA256(kService, []byte(terminationString))
}

func signature(key []byte, stringToSign string) string {
	return hex.EncodeToString(hmacSHA256(key, []byte(stringToSign)))
}

func payloadHash(head *reqsign.RequestHead) string {
	if h := head.Header.Get(headerContentSHA256); h != "" {
		return h
	}
	return unsignedPayload
}
