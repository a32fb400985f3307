package google

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/prn-tf/reqsign-go/reqsign"
	"github.com/prn-tf/reqsign-go/reqsign/internal/pctenc"
)

const (
	signAlgorithm     = "GOOG4-RSA-SHA256"
	iso8601Basic      = "20060102T150405Z"
	yyyymmdd          = "20060102"
	terminationString = "goog4_request"
	scopeService       = "storage"
)

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

func canonicalHeaders(head *reqsign.RequestHead) (headers string, signed string) {
	names := []string{"host"}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		var value string
		if name == "host" {
			value = head.Host
		} else {
			value = head.Header.Get(name)
		}
		b.WriteString(strings.ToLower(name))
		b.WriteByte(':')
		b.WriteString(strings.TrimSpace(value))
		b.WriteByte('\n')
	}
	return b.String(), strings.Join(names, ";")
}

func buildCanonicalRequest(head *reqsign.RequestHead) string {
	canonicalHeadersStr, signedHeaders := canonicalHeaders(head)
	return strings.Join([]string{
		head.Method,
		head.Path,
		canonicalQueryString(head.Query),
		canonicalHeadersStr,
		"",
		signedHeaders,
		"UNSIGNED-PAYLOAD",
	}, "\n")
}

func credentialScope(date string) string {
	return fmt.Sprintf("%s/auto/%s/%s", date, scopeService, terminationString)
}

func stringToSign(datetime, scope, canonicalRequest string) string {
	sum := sha256.Sum256([]byte(canonicalRequest))
	return strings.Join([]string{
		signAlgorithm,
		datetime,
		scope,
		hex.EncodeToString(sum[:]),
	}, "\n")
}
