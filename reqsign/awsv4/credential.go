package awsv4

import "time"

// Credential is a resolved set of AWS keys, plus the optional session
// token and expiry that accompany temporary STS-issued credentials.
type Credential struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	// ExpiresAt is nil for long-lived static/profile/env credentials and
	// set for STS-issued temporary ones.
	ExpiresAt *time.Time
}

// Expiry implements reqsign.Expirer.
func (c Credential) Expiry() *time.Time { return c.ExpiresAt }

func (c Credential) hasToken() bool { return c.SessionToken != "" }
