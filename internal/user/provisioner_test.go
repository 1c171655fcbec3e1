package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kassiods/Estude/internal/testutil"
	"github.com/kassiods/Estude/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProvisioner(t *testing.T) (*user.Provisioner, *testutil.FakeIdentityProvider, *testutil.FakeProfileStore, *testutil.FakeOrphanRegistry) {
	t.Helper()

	idp := testutil.NewFakeIdentityProvider()
	store := testutil.NewFakeProfileStore()
	orphans := testutil.NewFakeOrphanRegistry()

	return user.NewProvisioner(idp, store, orphans), idp, store, orphans
}

func TestCreateUserSuccess(t *testing.T) {
	p, idp, store, _ := newProvisioner(t)

	result, err := p.CreateUser(context.Background(), "alice@example.com", "secret123", "Alice")
	require.NoError(t, err)
	require.NotNil(t, result.Profile)

	// Both stores hold the same id afterward.
	assert.True(t, idp.HasAccount(result.IdentityID))
	assert.Equal(t, result.IdentityID, result.Profile.ID)

	stored, ok := store.Get(result.IdentityID)
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", stored.Email)
	assert.Equal(t, "Alice", stored.Name)
	assert.False(t, stored.IsPremium)
}

func TestCreateUserWeakPassword(t *testing.T) {
	p, idp, store, _ := newProvisioner(t)

	_, err := p.CreateUser(context.Background(), "alice@x.com", "short", "Alice")
	require.Error(t, err)
	assert.Equal(t, user.KindWeakCredential, user.KindOf(err))

	// Nothing was created anywhere.
	assert.False(t, idp.HasAccountWithEmail("alice@x.com"))
	assert.Zero(t, store.Count())
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	p, idp, store, _ := newProvisioner(t)

	first, err := p.CreateUser(context.Background(), "bob@x.com", "secret123", "Bob")
	require.NoError(t, err)

	deletesBefore := idp.DeleteCalls()

	_, err = p.CreateUser(context.Background(), "bob@x.com", "secret456", "Bob Again")
	require.Error(t, err)
	assert.Equal(t, user.KindDuplicateEmail, user.KindOf(err))

	// The loser must not compensate: nothing of its own was created,
	// and the winner's account must survive.
	assert.Equal(t, deletesBefore, idp.DeleteCalls())
	assert.True(t, idp.HasAccount(first.IdentityID))
	assert.Equal(t, 1, store.Count())
}

func TestCreateUserIdentityCreationFailed(t *testing.T) {
	p, idp, store, _ := newProvisioner(t)
	idp.CreateErr = errors.New("provider exploded")

	_, err := p.CreateUser(context.Background(), "carol@x.com", "secret123", "Carol")
	require.Error(t, err)
	assert.Equal(t, user.KindIdentityCreationFailed, user.KindOf(err))

	assert.Zero(t, idp.DeleteCalls())
	assert.Zero(t, store.Count())
}

func TestCreateUserCompensatesOnProfileFailure(t *testing.T) {
	p, idp, store, orphans := newProvisioner(t)
	store.UpsertErr = errors.New("profiles table unavailable")

	_, err := p.CreateUser(context.Background(), "dave@x.com", "secret123", "Dave")
	require.Error(t, err)
	assert.Equal(t, user.KindProfileCreationFailed, user.KindOf(err))

	// Compensation deleted the identity, freeing the email.
	assert.False(t, idp.HasAccountWithEmail("dave@x.com"))
	assert.Zero(t, orphans.Count())

	// A retry from scratch now succeeds.
	store.UpsertErr = nil
	result, err := p.CreateUser(context.Background(), "dave@x.com", "secret123", "Dave")
	require.NoError(t, err)
	assert.True(t, idp.HasAccount(result.IdentityID))
}

func TestCreateUserCompensationRetriesTransientFailure(t *testing.T) {
	p, idp, store, orphans := newProvisioner(t)
	store.UpsertErr = errors.New("profiles table unavailable")
	idp.DeleteFailures = 2 // first two deletes fail, third succeeds

	_, err := p.CreateUser(context.Background(), "erin@x.com", "secret123", "Erin")
	require.Error(t, err)
	assert.Equal(t, user.KindProfileCreationFailed, user.KindOf(err))

	assert.Equal(t, 3, idp.DeleteCalls())
	assert.False(t, idp.HasAccountWithEmail("erin@x.com"))
	assert.Zero(t, orphans.Count())
}

func TestCreateUserCompensationFailed(t *testing.T) {
	p, idp, store, orphans := newProvisioner(t)
	store.UpsertErr = errors.New("profiles table unavailable")
	idp.DeleteErr = errors.New("provider down")

	_, err := p.CreateUser(context.Background(), "frank@x.com", "secret123", "Frank")
	require.Error(t, err)
	assert.Equal(t, user.KindCompensationFailed, user.KindOf(err))

	// Terminal state: the identity is orphaned and recorded for an
	// operator. The email stays burned.
	assert.True(t, idp.HasAccountWithEmail("frank@x.com"))
	assert.Equal(t, 1, orphans.Count())
}

func TestCreateUserIdempotentProfileWrite(t *testing.T) {
	p, idp, store, _ := newProvisioner(t)

	result, err := p.CreateUser(context.Background(), "gina@x.com", "secret123", "Gina")
	require.NoError(t, err)

	// Simulate a retried profile step for the same identity: the row
	// converges on the latest fields and stays unique.
	updated, err := store.Upsert(context.Background(), result.IdentityID, "gina@x.com", "Gina Updated", false)
	require.NoError(t, err)

	assert.Equal(t, 1, store.Count())
	assert.Equal(t, "Gina Updated", updated.Name)
	assert.True(t, idp.HasAccount(result.IdentityID))
}

func TestCreateUserCompletesAfterCallerCancellation(t *testing.T) {
	p, idp, store, _ := newProvisioner(t)

	ctx, cancel := context.WithCancel(context.Background())
	idp.OnAccountCreated = cancel // caller hangs up right after step 1

	result, err := p.CreateUser(ctx, "henry@x.com", "secret123", "Henry")
	require.NoError(t, err)

	// The saga still reached its terminal state: identity and profile
	// both exist despite the cancelled caller.
	assert.True(t, idp.HasAccount(result.IdentityID))
	_, ok := store.Get(result.IdentityID)
	assert.True(t, ok)
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, user.KindUnknown, user.KindOf(errors.New("plain")))
	assert.Equal(t, user.KindUnknown, user.KindOf(nil))
}
