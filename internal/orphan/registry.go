package orphan

import (
	"context"
	"time"
)

// Record describes an identity left behind by a provisioning saga whose
// compensating delete failed: the account exists, the profile does not,
// and the email is unusable until someone cleans it up by hand.
type Record struct {
	IdentityID string    `json:"identity_id"`
	Email      string    `json:"email"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}

// Registry is the operator-facing ledger of orphaned identities.
// Writes are best-effort from the saga's point of view; a registry
// failure never masks the provisioning error itself.
type Registry interface {
	Record(ctx context.Context, r Record) error
	Get(ctx context.Context, identityID string) (*Record, error)
}
