package aliyun

import "time"

// Credential carries Alibaba Cloud access key material, optionally with a
// session token for STS-issued temporary credentials.
type Credential struct {
	AccessKeyID     string
	AccessKeySecret string
	SecurityToken   string
	ExpiresAt       *time.Time
}

func (c Credential) Expiry() *time.Time { return c.ExpiresAt }

func (c Credential) hasToken() bool { return c.SecurityToken != "" }
