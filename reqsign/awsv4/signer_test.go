package awsv4

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/prn-tf/reqsign-go/reqsign"
)

func TestSignHeaderMatchesAWSCanonicalExample(t *testing.T) {
	head := reqsign.NewRequestHead(http.MethodGet, "https", "iam.amazonaws.com", "/")
	head.Query.Set("Action", "ListUsers")
	head.Query.Set("Version", "2010-05-08")
	head.Header.Set("Host", "iam.amazonaws.com")

	cred := &Credential{
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
	}

	requestTime, err := time.Parse(iso8601Basic, "20150830T123600Z")
	require.NoError(t, err)

	s := New("us-east-1", "iam")
	require.NoError(t, s.sign(head, cred, nil, requestTime))

	auth := head.Header.Get("Authorization")
	require.Contains(t, auth, "Credential=AKIDEXAMPLE/20150830/us-east-1/iam/aws4_request")
	require.True(t, strings.HasSuffix(auth, "Signature=5d672d79c15b13162d9279b0855cfba6789a8edb4c82c400e06b5924a6f2b5d7"))
}

func TestSignHeaderDoesNotMutateOriginalOnFailure(t *testing.T) {
	head := reqsign.NewRequestHead(http.MethodGet, "https", "example.com", "/")
	cred := &Credential{AccessKeyID: "AKID", SecretAccessKey: "secret"}

	expires := time.Duration(0)
	s := New("us-east-1", "s3")
	err := s.sign(head, cred, &expires, time.Now().UTC())
	require.Error(t, err)
	require.Empty(t, head.Query.Get("X-Amz-Signature"))
}

func TestPresignAppendsExpectedQueryParameters(t *testing.T) {
	head := reqsign.NewRequestHead(http.MethodGet, "https", "bucket.s3.amazonaws.com", "/object")
	head.Header.Set("Host", "bucket.s3.amazonaws.com")
	cred := &Credential{AccessKeyID: "AKID", SecretAccessKey: "secret", SessionToken: "token"}

	expires := 15 * time.Minute
	s := New("us-east-1", serviceS3)
	require.NoError(t, s.sign(head, cred, &expires, time.Now().UTC()))

	require.Equal(t, signAlgorithm, head.Query.Get(queryAlgorithm))
	require.Equal(t, "900", head.Query.Get(queryExpires))
	require.NotEmpty(t, head.Query.Get(querySignature))
	require.Equal(t, "token", head.Query.Get(querySecurityToken))
}

func TestCanonicalURISingleVsDoubleEncoding(t *testing.T) {
	s3 := canonicalURI("/a b/c", serviceS3)
	require.Equal(t, "/a%20b/c", s3)

	other := canonicalURI("/a b/c", "iam")
	require.Equal(t, "/a%2520b/c", other)
}
