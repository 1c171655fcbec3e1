package auth_test

import (
	"context"
	"testing"

	"github.com/kassiods/Estude/internal/auth"
	"github.com/kassiods/Estude/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticateRejectsMalformedHeaderBeforeAnyCall(t *testing.T) {
	idp := testutil.NewFakeIdentityProvider()
	a := auth.NewAuthenticator(idp)

	tests := []struct {
		name   string
		header string
	}{
		{"empty", ""},
		{"wrong scheme", "Token abc123"},
		{"no token", "Bearer"},
		{"blank token", "Bearer   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Authenticate(context.Background(), tt.header)
			assert.ErrorIs(t, err, auth.ErrMissingCredential)
		})
	}

	// The shape check happens before the provider is consulted.
	assert.Zero(t, idp.VerifyCalls())
}

func TestAuthenticateInvalidToken(t *testing.T) {
	idp := testutil.NewFakeIdentityProvider()
	a := auth.NewAuthenticator(idp)

	_, err := a.Authenticate(context.Background(), "Bearer not-a-real-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthenticateSuccess(t *testing.T) {
	idp := testutil.NewFakeIdentityProvider()
	identity := idp.Seed("alice@example.com", "secret123", map[string]any{"name": "Alice"})
	token := idp.IssueToken(identity.ID)

	a := auth.NewAuthenticator(idp)

	got, err := a.Authenticate(context.Background(), "Bearer "+token)
	require.NoError(t, err)

	assert.Equal(t, identity.ID, got.ID)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "Alice", got.Name())
}

func TestAuthenticateSchemeIsCaseInsensitive(t *testing.T) {
	idp := testutil.NewFakeIdentityProvider()
	identity := idp.Seed("bob@example.com", "secret123", nil)
	token := idp.IssueToken(identity.ID)

	a := auth.NewAuthenticator(idp)

	got, err := a.Authenticate(context.Background(), "bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, identity.ID, got.ID)
}
