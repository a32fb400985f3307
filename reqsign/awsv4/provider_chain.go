package awsv4

import (
	"github.com/prn-tf/reqsign-go/reqsign"
	"github.com/prn-tf/reqsign-go/reqsign/provider"
)

// DefaultChain composes the standard AWS provider precedence: explicit
// env vars, then the shared profile files, then instance metadata. It is
// the Go equivalent of the original's DefaultCredentialProvider.
func DefaultChain() reqsign.CredentialProviderFunc[Credential] {
	return provider.Chain(EnvProvider(), ProfileProvider(), IMDSProvider())
}
