package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kassiods/Estude/internal/auth/provider"
)

var (
	// ErrMissingCredential means no usable bearer credential was presented.
	// Raised before any network call.
	ErrMissingCredential = errors.New("missing or malformed bearer credential")

	// ErrInvalidToken means the provider rejected the token or resolved
	// it to nothing.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Authenticator verifies bearer tokens against the identity provider.
// Every request re-verifies; no verification result is cached here.
type Authenticator struct {
	provider provider.IdentityProvider
}

func NewAuthenticator(p provider.IdentityProvider) *Authenticator {
	return &Authenticator{provider: p}
}

// Authenticate resolves an Authorization header value to an Identity.
// The returned Identity is the only thing downstream code may trust
// for "who is calling".
func (a *Authenticator) Authenticate(ctx context.Context, authorization string) (*Identity, error) {
	token, ok := bearerToken(authorization)
	if !ok {
		return nil, ErrMissingCredential
	}

	identity, err := a.provider.VerifyToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if identity == nil || identity.ID == "" {
		return nil, ErrInvalidToken
	}

	return identity, nil
}

func bearerToken(authorization string) (string, bool) {
	if authorization == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(authorization, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
