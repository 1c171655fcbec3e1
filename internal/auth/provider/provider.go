package provider

import (
	"context"
	"errors"
	"fmt"
)

// MinPasswordLength is the identity provider's password policy floor.
// Callers must surface this bound to users before attempting creation;
// the provider rejects shorter values with a human-readable message.
const MinPasswordLength = 6

// FailureClass is the normalized category of a provider failure. The
// provider's own error taxonomy is string-based; classification happens
// once, inside the provider implementation, never at call sites.
type FailureClass string

const (
	ClassDuplicateEmail     FailureClass = "duplicate_email"
	ClassWeakPassword       FailureClass = "weak_password"
	ClassInvalidCredentials FailureClass = "invalid_credentials"
	ClassOther              FailureClass = "other"
)

// AccountError is a classified provider failure. Raw provider messages
// stay inside Msg for logs; they are never surfaced to end users.
type AccountError struct {
	Class FailureClass
	Msg   string
}

func (e *AccountError) Error() string {
	return fmt.Sprintf("identity provider: %s: %s", e.Class, e.Msg)
}

// ClassOf returns the failure class of err, or ClassOther when err is
// not a classified provider error.
func ClassOf(err error) FailureClass {
	var ae *AccountError
	if errors.As(err, &ae) {
		return ae.Class
	}
	return ClassOther
}

// IdentityProvider is the external system that owns credentials and
// issues identities and bearer tokens. Implementations return identity
// facts only and must not touch the profile store.
type IdentityProvider interface {
	// CreateAccount registers a new identity. The provider is the sole
	// arbiter of email uniqueness and password policy.
	CreateAccount(ctx context.Context, email, password string, metadata map[string]any) (*Identity, error)

	// DeleteAccount removes an identity. Used exclusively as the
	// compensating action of a failed provisioning saga.
	DeleteAccount(ctx context.Context, id string) error

	// VerifyToken resolves a bearer token to the identity it belongs to.
	VerifyToken(ctx context.Context, token string) (*Identity, error)

	// SignIn exchanges credentials for an identity and an access token.
	SignIn(ctx context.Context, email, password string) (*Identity, string, error)

	// UpdateMetadata overwrites the given metadata keys on an identity.
	// Best-effort from the caller's point of view.
	UpdateMetadata(ctx context.Context, id string, metadata map[string]any) error
}
