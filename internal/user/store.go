package user

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means no profile row exists for the id.
	ErrNotFound = errors.New("profile not found")

	// ErrAlreadyExists means a create hit a uniqueness constraint.
	// During reconciliation this is success-by-another-writer, not a
	// failure; the reconciler resolves it with a re-read.
	ErrAlreadyExists = errors.New("profile already exists")
)

// UpdateFields is the set of profile attributes the update path may
// touch. Email and the premium flag are deliberately absent: email is
// owned by the identity provider and the premium flag by billing.
type UpdateFields struct {
	Name     *string
	PhotoURL *string
}

// Store is the profile table. Implementations must enforce uniqueness
// on id; that constraint is the only exclusion mechanism concurrent
// provisioning relies on.
type Store interface {
	// FindByID returns ErrNotFound when no row exists.
	FindByID(ctx context.Context, id string) (*Profile, error)

	// Create inserts a new row and returns ErrAlreadyExists on a
	// uniqueness violation.
	Create(ctx context.Context, p Profile) (*Profile, error)

	// Upsert inserts or overwrites the row for id. Idempotent: retrying
	// a partially-completed provisioning attempt must converge on the
	// fields of the latest call.
	Upsert(ctx context.Context, id, email, name string, isPremium bool) (*Profile, error)

	// Update applies the given fields and returns ErrNotFound when no
	// row exists for id.
	Update(ctx context.Context, id string, fields UpdateFields) (*Profile, error)
}
