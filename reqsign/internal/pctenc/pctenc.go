// Package pctenc implements the percent-encoding rule shared by AWS SigV4
// and its Alibaba OSS variant: encode everything outside the unreserved
// set A-Za-z0-9-._~, uppercase hex, one byte at a time. Go's own
// url.QueryEscape/url.PathEscape disagree with this rule on space ('+' vs
// '%20') and '*' ('*' literal vs '%2A'), so neither can be reused as-is.
package pctenc

import "strings"

func isUnreserved(b byte) bool {
	switch {
	case 'A' <= b && b <= 'Z':
		return true
	case 'a' <= b && b <= 'z':
		return true
	case '0' <= b && b <= '9':
		return true
	case b == '-' || b == '_' || b == '.' || b == '~':
		return true
	default:
		return false
	}
}

const upperhex = "0123456789ABCDEF"

// Encode percent-encodes s per the AWS unreserved set.
func Encode(s string) string {
	var needsEscape bool
	for i := 0; i < len(s); i++ {
		if !isUnreserved(s[i]) {
			needsEscape = true
			break
		}
	}
	if !needsEscape {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0xf])
	}
	return b.String()
}

// EncodePathSegment percent-encodes one path segment per the unreserved
// set, additionally leaving '/' untouched is the caller's responsibility
// (split on '/' before calling this).
func EncodePathSegment(s string) string {
	return Encode(s)
}
