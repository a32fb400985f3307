package aliyun

import (
	"github.com/prn-tf/reqsign-go/reqsign"
	"github.com/prn-tf/reqsign-go/reqsign/provider"
)

// DefaultChain tries the environment, then workload OIDC exchange.
func DefaultChain() reqsign.CredentialProviderFunc[Credential] {
	return provider.Chain(EnvProvider(), OIDCProvider())
}
