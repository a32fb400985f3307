// Package tencent implements the Tencent Cloud COS q-sign request
// signature scheme.
package tencent

import "time"

// Credential carries Tencent Cloud secret material, optionally with a
// security token for STS-issued temporary credentials.
type Credential struct {
	SecretID      string
	SecretKey     string
	SecurityToken string
	ExpiresAt     *time.Time
}

func (c Credential) Expiry() *time.Time { return c.ExpiresAt }

func (c Credential) hasToken() bool { return c.SecurityToken != "" }
