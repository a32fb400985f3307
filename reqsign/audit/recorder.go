// Package audit records credential *load events* -- which provider (under
// the name its caller gave it) produced a credential, for which cloud, and
// when it expires -- to a
// durable store for later review. It never records secret material (keys,
// tokens, signatures): only metadata about the fact that a load happened.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event describes a single credential load.
type Event struct {
	ID          uuid.UUID
	Cloud       string // "aws", "azure", "google", "oracle", "aliyun", "tencent"
	Provider    string // name the caller gave the wrapped provider, e.g. "env" or "chain"; a wrapped chain does not say which member produced it
	Identity    string // non-secret identity label: access key ID, client email, user OCID, etc -- never a secret
	ExpiresAt   *time.Time
	LoadedAt    time.Time
	Succeeded   bool
	FailureNote string // short, sanitized failure description when Succeeded is false
}

// Recorder persists Events. Implementations must not block the signing
// path for long; Record is called synchronously from credential provider
// wrappers, so slow backends should make their own case for async writes.
type Recorder interface {
	Record(ctx context.Context, e Event) error
	Close() error
}

// NopRecorder discards every event. It is the default when no audit
// backend is configured.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Event) error { return nil }
func (NopRecorder) Close() error                         { return nil }

// Wrap adapts a reqsign.CredentialProviderFunc-shaped provider into one
// that also records a load Event, without pulling in the reqsign package
// itself (which would create an import cycle) -- callers (cmd/reqsign-cli's
// audited helper) call Wrap with a concrete provider and a
// credential-to-Event mapping.
func Wrap[C any](r Recorder, cloud, providerName string, provide func(ctx context.Context) (*C, error), describe func(*C) (identity string, expiresAt *time.Time)) func(ctx context.Context) (*C, error) {
	return func(ctx context.Context) (*C, error) {
		cred, err := provide(ctx)
		evt := Event{
			ID:        uuid.New(),
			Cloud:     cloud,
			Provider:  providerName,
			LoadedAt:  time.Now().UTC(),
			Succeeded: err == nil && cred != nil,
		}
		if err != nil {
			evt.FailureNote = err.Error()
		} else if cred != nil {
			evt.Identity, evt.ExpiresAt = describe(cred)
		}
		_ = r.Record(ctx, evt)
		return cred, err
	}
}
