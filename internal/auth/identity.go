package auth

import "github.com/kassiods/Estude/internal/auth/provider"

// Identity is the account record owned by the external identity provider.
// It contains facts only, no decisions: who the provider says this is,
// never whether a profile exists for them.
//
// The type lives in the provider package so that provider implementations
// can return it without importing this package; this alias preserves the
// auth.Identity name used throughout the codebase.
type Identity = provider.Identity
