package user

import (
	"context"
	"strings"

	"github.com/kassiods/Estude/internal/auth"
	"github.com/kassiods/Estude/internal/logger"
)

// fallbackName is used when an identity carries no usable display name.
const fallbackName = "Estudante"

// Reconciler lazily repairs a missing profile for an identity that
// already exists. A miss is expected, not exceptional: identities
// created by a path that bypassed or partially failed provisioning
// (including pre-existing accounts) have no profile until first touch.
type Reconciler struct {
	profiles Store
}

func NewReconciler(profiles Store) *Reconciler {
	return &Reconciler{profiles: profiles}
}

// EnsureProfile returns the profile for an already-authenticated
// identity, creating it if absent. Safe under concurrent invocation
// for the same identity: the store's uniqueness constraint on id picks
// one winner and everyone else re-reads the winner's row.
func (r *Reconciler) EnsureProfile(ctx context.Context, identity *auth.Identity) (*Profile, error) {
	profile, err := r.profiles.FindByID(ctx, identity.ID)
	if err == nil {
		return profile, nil
	}
	if err != ErrNotFound {
		return nil, newError(KindReconciliationFailed, err)
	}

	logger.Info("profile missing for identity, reconciling", map[string]any{
		"identity_id": identity.ID,
	})

	created, err := r.profiles.Create(ctx, synthesize(identity))
	if err == nil {
		return created, nil
	}

	// A concurrent request may have created the row between the read
	// and the write. That is success by another writer, so re-read
	// before surfacing anything.
	profile, readErr := r.profiles.FindByID(ctx, identity.ID)
	if readErr == nil {
		return profile, nil
	}

	return nil, newError(KindReconciliationFailed, err)
}

// synthesize builds a profile from identity facts alone.
func synthesize(identity *auth.Identity) Profile {
	name := identity.Name()
	if name == "" {
		name = emailLocalPart(identity.Email)
	}
	if name == "" {
		name = fallbackName
	}

	isPremium := false
	if identity.Metadata != nil {
		if v, ok := identity.Metadata["is_premium"].(bool); ok {
			isPremium = v
		}
	}

	return Profile{
		ID:        identity.ID,
		Email:     identity.Email,
		Name:      name,
		IsPremium: isPremium,
	}
}

func emailLocalPart(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found {
		return ""
	}
	return local
}
