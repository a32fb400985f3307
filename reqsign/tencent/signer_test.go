package tencent

import (
	"strings"
	"testing"
	"time"

	"github.com/prn-tf/reqsign-go/reqsign"
	"github.com/stretchr/testify/require"
)

func TestSignProducesQSignAuthorizationHeader(t *testing.T) {
	head := reqsign.NewRequestHead("GET", "https", "examplebucket-1250000000.cos.ap-guangzhou.myqcloud.com", "/exampleobject")
	cred := &Credential{SecretID: "AKID", SecretKey: "SECRET"}

	s := New()
	require.NoError(t, s.SignFunc()(head, cred, nil, time.Now().UTC()))

	auth := head.Header.Get("Authorization")
	require.True(t, strings.HasPrefix(auth, "q-sign-algorithm=sha1&q-ak=AKID&q-sign-time="))
	require.Contains(t, auth, "q-header-list=host")
	require.Contains(t, auth, "q-signature=")
}

func TestSignIncludesSecurityTokenHeaderWhenPresent(t *testing.T) {
	head := reqsign.NewRequestHead("GET", "https", "examplebucket-1250000000.cos.ap-guangzhou.myqcloud.com", "/exampleobject")
	cred := &Credential{SecretID: "AKID", SecretKey: "SECRET", SecurityToken: "tok"}

	s := New()
	require.NoError(t, s.SignFunc()(head, cred, nil, time.Now().UTC()))
	require.Equal(t, "tok", head.Header.Get(headerSecurityToken))
}

func TestSignRejectsNonPositiveExpiry(t *testing.T) {
	head := reqsign.NewRequestHead("GET", "https", "examplebucket-1250000000.cos.ap-guangzhou.myqcloud.com", "/exampleobject")
	cred := &Credential{SecretID: "AKID", SecretKey: "SECRET"}

	s := New()
	expires := time.Duration(0)
	err := s.SignFunc()(head, cred, &expires, time.Now().UTC())
	require.Error(t, err)
}

func TestSignatureIsReproducibleForIdenticalInput(t *testing.T) {
	cred := &Credential{SecretID: "AKID", SecretKey: "SECRET"}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	head1 := reqsign.NewRequestHead("GET", "https", "bucket.cos.ap-guangzhou.myqcloud.com", "/object")
	head2 := reqsign.NewRequestHead("GET", "https", "bucket.cos.ap-guangzhou.myqcloud.com", "/object")

	s := New()
	require.NoError(t, s.sign(head1, cred, nil, now))
	require.NoError(t, s.sign(head2, cred, nil, now))
	require.Equal(t, head1.Header.Get("Authorization"), head2.Header.Get("Authorization"))
}
