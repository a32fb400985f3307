package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestDescriptionToHeadCopiesQueryAndHeaders(t *testing.T) {
	d := requestDescription{
		Method: "GET",
		Scheme: "https",
		Host:   "example.com",
		Path:   "/object",
		Query:  map[string][]string{"a": {"1", "2"}},
		Headers: map[string][]string{
			"X-Custom": {"v"},
		},
	}
	head := d.toHead()
	require.Equal(t, "GET", head.Method)
	require.Equal(t, []string{"1", "2"}, head.Query["a"])
	require.Equal(t, "v", head.Header.Get("X-Custom"))
}

func TestRequestDescriptionExpiresInNilWhenUnset(t *testing.T) {
	d := requestDescription{}
	require.Nil(t, d.expiresIn())
}

func TestRequestDescriptionExpiresInConvertsSeconds(t *testing.T) {
	secs := 900
	d := requestDescription{PresignExpirySec: &secs}
	dur := d.expiresIn()
	require.NotNil(t, dur)
	require.Equal(t, 900.0, dur.Seconds())
}

func TestToResultRendersURLAndQuery(t *testing.T) {
	d := requestDescription{Method: "GET", Scheme: "https", Host: "example.com", Path: "/o"}
	head := d.toHead()
	head.Query.Set("X-Amz-Signature", "abc")
	result := toResult(head)
	require.Contains(t, result.URL, "example.com/o")
	require.Equal(t, []string{"abc"}, result.Query["X-Amz-Signature"])
}
