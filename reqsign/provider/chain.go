// Package provider holds the chain-composition helper and the optional
// distributed-cache backend shared by every cloud provider package. It has
// no cloud-specific knowledge of its own.
package provider

import (
	"context"

	"github.com/prn-tf/reqsign-go/reqsign"
)

// Func is a single credential provider in a chain: it yields a
// provider-specific credential or (nil, nil) when its source is not
// configured. It is a type alias for reqsign.CredentialProviderFunc so
// cloud packages can pass their providers straight to Chain without a
// conversion.
type Func[C any] = reqsign.CredentialProviderFunc[C]

// Chain composes providers with first-Some-wins semantics: the first
// provider to return a non-nil credential short-circuits the rest. Any
// provider returning an error aborts the chain immediately (spec's default
// "stop" policy).
func Chain[C any](providers ...Func[C]) Func[C] {
	return func(ctx context.Context, rc *reqsign.Context) (*C, error) {
		for _, p := range providers {
			cred, err := p(ctx, rc)
			if err != nil {
				return nil, err
			}
			if cred != nil {
				return cred, nil
			}
		}
		return nil, nil
	}
}

// ChainTolerant behaves like Chain but treats a configured-but-failed
// provider as "try the next one" rather than aborting, logging the error
// through onError. It is opt-in: the spec's default propagation policy is
// to stop on error, so most callers should use Chain.
func ChainTolerant[C any](onError func(err error), providers ...Func[C]) Func[C] {
	return func(ctx context.Context, rc *reqsign.Context) (*C, error) {
		for _, p := range providers {
			cred, err := p(ctx, rc)
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			if cred != nil {
				return cred, nil
			}
		}
		return nil, nil
	}
}
