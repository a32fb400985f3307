package tencent

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"

	"github.com/prn-tf/reqsign-go/reqsign"
)

func hmacSHA1Hex(key, data []byte) string {
	mac := hmac.New(sha1.New, key)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

func sha1Hex(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

// keyValueList renders the sorted, "&"-joined, lower-cased-key,
// URL-encoded "key=value" string COS calls HttpParameters/HttpHeaders,
// plus the ";"-joined list of included (also lower-cased, sorted) names.
func keyValueList(values map[string]string) (kvString, nameList string) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, strings.ToLower(name))
	}
	sort.Strings(names)

	var kvParts []string
	for _, name := range names {
		kvParts = append(kvParts, url.QueryEscape(name)+"="+url.QueryEscape(values[strings.ToLower(name)]))
	}
	return strings.Join(kvParts, "&"), strings.Join(names, ";")
}

func queryMap(query url.Values) map[string]string {
	out := make(map[string]string, len(query))
	for name, values := range query {
		if len(values) > 0 {
			out[strings.ToLower(name)] = values[0]
		}
	}
	return out
}

func headerMap(head *reqsign.RequestHead, names []string) map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		out[strings.ToLower(name)] = head.Header.Get(name)
	}
	return out
}

func httpString(head *reqsign.RequestHead, httpParameters, httpHeaders string) string {
	return strings.Join([]string{
		strings.ToLower(head.Method),
		head.Path,
		httpParameters,
		httpHeaders,
		"",
	}, "\n")
}
