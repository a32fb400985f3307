package azurestorage

import (
	"sort"
	"strings"

	"github.com/prn-tf/reqsign-go/reqsign"
)

// canonicalizedHeaders renders the sorted x-ms-* header block: lowercased
// name, trimmed value, "name:value\n", one line per header.
func canonicalizedHeaders(head *reqsign.RequestHead) string {
	var names []string
	for name := range head.Header {
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, canonicalizedHeaderPrefix) {
			names = append(names, lower)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(strings.TrimSpace(head.Header.Get(name)))
		b.WriteByte('\n')
	}
	return b.String()
}

// canonicalizedResource renders "/<account>/<path>" followed by one
// "\nname:v1,v2" line per query parameter, lowercased name, sorted by
// name, with that parameter's values comma-joined after sorting. Query
// values are taken from head.Query, which holds already-decoded values --
// callers must populate it from a decoded source so percent-encoded and
// literal query strings canonicalize identically.
func canonicalizedResource(head *reqsign.RequestHead, account string) string {
	var b strings.Builder
	b.WriteByte('/')
	b.WriteString(account)
	b.WriteString(head.Path)

	if len(head.Query) == 0 {
		return b.String()
	}

	names := make([]string, 0, len(head.Query))
	for name := range head.Query {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		values := append([]string(nil), head.Query[name]...)
		sort.Strings(values)
		b.WriteByte('\n')
		b.WriteString(strings.ToLower(name))
		b.WriteByte(':')
		b.WriteString(strings.Join(values, ","))
	}
	return b.String()
}

// fixedHeaderLines renders the 11 well-known non-x-ms headers in their
// fixed order, each on its own line. Content-Length is empty when the
// header reads "0". Date is forced empty whenever x-ms-date is present,
// since the x-ms-date header takes precedence per the Shared Key spec.
func fixedHeaderLines(head *reqsign.RequestHead) string {
	hasMsDate := head.Header.Get(headerDate) != ""

	var b strings.Builder
	for _, name := range fixedCanonicalHeaders {
		value := head.Header.Get(name)
		if name == "Content-Length" && value == "0" {
			value = ""
		}
		if name == "Date" && hasMsDate {
			value = ""
		}
		b.WriteString(value)
		b.WriteByte('\n')
	}
	return b.String()
}

func stringToSignSharedKey(head *reqsign.RequestHead, account string) string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(head.Method))
	b.WriteByte('\n')
	b.WriteString(fixedHeaderLines(head))
	b.WriteString(canonicalizedHeaders(head))
	b.WriteString(canonicalizedResource(head, account))
	return b.String()
}
