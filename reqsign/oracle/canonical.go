package oracle

import (
	"strings"

	"github.com/prn-tf/reqsign-go/reqsign"
)

func requestTarget(head *reqsign.RequestHead) string {
	uri := head.Path
	if len(head.Query) > 0 {
		uri += "?" + head.Query.Encode()
	}
	return strings.ToLower(head.Method) + " " + uri
}

func headerValue(head *reqsign.RequestHead, name string) string {
	if name == "(request-target)" {
		return requestTarget(head)
	}
	if name == "host" {
		if v := head.Header.Get("host"); v != "" {
			return v
		}
		return head.Host
	}
	return head.Header.Get(name)
}

// stringToSign renders one "name: value" line per entry in signedHeaders,
// joined by newlines with no trailing newline.
func stringToSign(head *reqsign.RequestHead, signedHeaders []string) string {
	lines := make([]string, len(signedHeaders))
	for i, name := range signedHeaders {
		lines[i] = name + ": " + headerValue(head, name)
	}
	return strings.Join(lines, "\n")
}
