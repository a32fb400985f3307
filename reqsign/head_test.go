package reqsign

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestURLEncodesQueryWithUnreservedSetNotQueryEscape(t *testing.T) {
	head := NewRequestHead("GET", "https", "bucket.example.com", "/object")
	head.Query.Set("prefix", "a b")
	head.Query.Set("tag", "x*y")

	require.Equal(t, "https://bucket.example.com/object?prefix=a%20b&tag=x%2Ay", head.URL())
}

func TestURLSortsQueryKeysDeterministically(t *testing.T) {
	head := NewRequestHead("GET", "https", "bucket.example.com", "/object")
	head.Query.Set("b", "2")
	head.Query.Set("a", "1")

	require.Equal(t, "https://bucket.example.com/object?a=1&b=2", head.URL())
}
