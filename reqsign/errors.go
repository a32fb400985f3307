// Package reqsign implements the signing kernel and context capabilities
// shared by every cloud provider package (awsv4, azurestorage, google,
// oracle, aliyun, tencent).
package reqsign

import (
	"errors"
	"fmt"
)

// Kind classifies a signing or credential-load failure. It is
// provider-neutral; concrete providers map their own failures onto it.
type Kind string

const (
	// KindCredentialMissing means the provider chain was exhausted with no
	// source configured.
	KindCredentialMissing Kind = "CredentialMissing"

	// KindCredentialLoad means a configured source failed to produce a
	// credential (network, parse, auth).
	KindCredentialLoad Kind = "CredentialLoad"

	// KindCredentialExpired means the cached credential expired and a
	// refresh attempt also failed.
	KindCredentialExpired Kind = "CredentialExpired"

	// KindConfigInvalid means a malformed file, unknown profile, or bad key
	// material was encountered.
	KindConfigInvalid Kind = "ConfigInvalid"

	// KindRequestInvalid means the request head was missing a required
	// header or carried an unparseable URI.
	KindRequestInvalid Kind = "RequestInvalid"

	// KindCrypto means key decoding or signature computation failed.
	KindCrypto Kind = "Crypto"

	// KindUnexpected wraps an I/O error surfaced by a Context capability.
	KindUnexpected Kind = "Unexpected"
)

// Error is the error type returned by every exported operation in this
// module tree. Message is short and kind-specific; Source, when present,
// is the underlying cause and is reachable via errors.Unwrap.
type Error struct {
	Kind    Kind
	Message string
	Source  error
}

func (e *Error) Error() string {
	if e.Source != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Source)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Source }

// Is allows errors.Is(err, reqsign.ErrKind(KindX)) style matching on kind
// alone, without requiring callers to compare messages.
func (e *Error) Is(target error) bool {
	var te *Error
	if errors.As(target, &te) {
		return e.Kind == te.Kind
	}
	return false
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func (e *Error) withSource(err error) *Error {
	e.Source = err
	return e
}

// ErrKind returns a sentinel *Error carrying only a Kind, suitable as the
// target of errors.Is to test for a failure category regardless of message.
func ErrKind(k Kind) error { return &Error{Kind: k} }

// NewConfigInvalid builds a KindConfigInvalid error.
func NewConfigInvalid(msg string) *Error { return newError(KindConfigInvalid, msg) }

// NewCredentialLoad builds a KindCredentialLoad error.
func NewCredentialLoad(msg string) *Error { return newError(KindCredentialLoad, msg) }

// NewCredentialMissing builds a KindCredentialMissing error.
func NewCredentialMissing(msg string) *Error { return newError(KindCredentialMissing, msg) }

// NewCredentialExpired builds a KindCredentialExpired error.
func NewCredentialExpired(msg string) *Error { return newError(KindCredentialExpired, msg) }

// NewRequestInvalid builds a KindRequestInvalid error.
func NewRequestInvalid(msg string) *Error { return newError(KindRequestInvalid, msg) }

// NewCrypto builds a KindCrypto error.
func NewCrypto(msg string) *Error { return newError(KindCrypto, msg) }

// NewUnexpected builds a KindUnexpected error.
func NewUnexpected(msg string) *Error { return newError(KindUnexpected, msg) }

// WithSource attaches a wrapped cause to err and returns it, mirroring the
// teacher's fmt.Errorf("%w: ...", err) wrapping idiom but preserving Kind.
func WithSource(err *Error, source error) *Error {
	return err.withSource(source)
}
