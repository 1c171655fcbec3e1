package user

import (
	"context"
	"fmt"
	"time"

	"github.com/kassiods/Estude/internal/auth/provider"
	"github.com/kassiods/Estude/internal/logger"
	"github.com/kassiods/Estude/internal/orphan"
)

// Provisioner drives the create-identity → create-profile saga. The
// two writes hit independently-failing systems with no shared
// transaction, so consistency comes from ordering plus a compensating
// delete, never from locking.
type Provisioner struct {
	provider provider.IdentityProvider
	profiles Store
	orphans  orphan.Registry

	callTimeout          time.Duration
	compensationAttempts int
}

// Provisioned is the result of a completed registration. No session or
// token is included: provisioning and authentication are decoupled,
// and the caller must sign in separately.
type Provisioned struct {
	IdentityID string   `json:"identityId"`
	Profile    *Profile `json:"profile"`
}

const (
	defaultCallTimeout          = 10 * time.Second
	defaultCompensationAttempts = 3
	compensationBackoff         = 200 * time.Millisecond
)

func NewProvisioner(p provider.IdentityProvider, profiles Store, orphans orphan.Registry) *Provisioner {
	return &Provisioner{
		provider:             p,
		profiles:             profiles,
		orphans:              orphans,
		callTimeout:          defaultCallTimeout,
		compensationAttempts: defaultCompensationAttempts,
	}
}

// CreateUser registers a new user in both stores.
//
// Identity first, profile second: only the provider can mint the
// canonical id and arbitrate email uniqueness. A locally-generated id
// would just add a second reconciliation problem.
func (s *Provisioner) CreateUser(ctx context.Context, email, password, name string) (*Provisioned, error) {
	// Step 1: create the identity. A failure here needs no compensation;
	// nothing was created.
	createCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	identity, err := s.provider.CreateAccount(createCtx, email, password, map[string]any{
		"name": name,
	})
	cancel()

	if err != nil {
		switch provider.ClassOf(err) {
		case provider.ClassDuplicateEmail:
			return nil, newError(KindDuplicateEmail, err)
		case provider.ClassWeakPassword:
			return nil, newError(KindWeakCredential, err)
		default:
			return nil, newError(KindIdentityCreationFailed, err)
		}
	}

	// The identity now exists. From here the saga must reach a terminal
	// state even if the caller hangs up: an identity with neither a
	// profile nor a compensating delete is the unrecoverable case.
	saga := context.WithoutCancel(ctx)

	// Step 2: write the profile. Upsert, not insert: a row may already
	// exist from a prior partially-completed attempt for the same id,
	// and the write must be idempotent under retry.
	upsertCtx, cancel := context.WithTimeout(saga, s.callTimeout)
	profile, err := s.profiles.Upsert(upsertCtx, identity.ID, email, name, false)
	cancel()

	if err != nil {
		return nil, s.compensate(saga, identity.ID, email, err)
	}

	logger.Info("user provisioned", map[string]any{
		"identity_id": identity.ID,
	})

	return &Provisioned{
		IdentityID: identity.ID,
		Profile:    profile,
	}, nil
}

// compensate deletes the identity created by a saga whose profile
// write failed. Leaving an orphaned identity is the worst outcome the
// saga can produce, so the delete is retried a few times before
// giving up.
func (s *Provisioner) compensate(ctx context.Context, identityID, email string, cause error) error {
	var deleteErr error

	for attempt := 1; attempt <= s.compensationAttempts; attempt++ {
		deleteCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		deleteErr = s.provider.DeleteAccount(deleteCtx, identityID)
		cancel()

		if deleteErr == nil {
			logger.Warn("provisioning rolled back", map[string]any{
				"identity_id": identityID,
				"cause":       cause.Error(),
			})
			return newError(KindProfileCreationFailed, cause)
		}

		if attempt < s.compensationAttempts {
			time.Sleep(compensationBackoff)
		}
	}

	// Terminal: an identity exists with no profile and its email is
	// taken. Retrying CreateUser would collide on the registered email,
	// so this is handed to an operator instead.
	logger.Alert("provisioning compensation failed, orphaned identity requires manual cleanup", map[string]any{
		"identity_id":  identityID,
		"email":        email,
		"cause":        cause.Error(),
		"delete_error": deleteErr.Error(),
	})

	if s.orphans != nil {
		recordCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		if recordErr := s.orphans.Record(recordCtx, orphan.Record{
			IdentityID: identityID,
			Email:      email,
			Reason:     cause.Error(),
			CreatedAt:  time.Now().UTC(),
		}); recordErr != nil {
			logger.Error("orphan registry write failed", map[string]any{
				"identity_id": identityID,
				"error":       recordErr.Error(),
			})
		}
		cancel()
	}

	return newError(KindCompensationFailed,
		fmt.Errorf("profile write failed (%v) and compensating delete failed (%v)", cause, deleteErr))
}
