package user_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kassiods/Estude/internal/auth"
	"github.com/kassiods/Estude/internal/testutil"
	"github.com/kassiods/Estude/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureProfileReturnsExistingUnchanged(t *testing.T) {
	store := testutil.NewFakeProfileStore()
	store.Put(user.Profile{
		ID:        "id-1",
		Email:     "alice@example.com",
		Name:      "Alice",
		IsPremium: true,
	})

	r := user.NewReconciler(store)

	profile, err := r.EnsureProfile(context.Background(), &auth.Identity{
		ID:       "id-1",
		Email:    "alice@example.com",
		Metadata: map[string]any{"name": "Somebody Else"},
	})
	require.NoError(t, err)

	// Found rows come back untouched; identity metadata never
	// overwrites an existing profile.
	assert.Equal(t, "Alice", profile.Name)
	assert.True(t, profile.IsPremium)
}

func TestEnsureProfileSynthesizesMissingProfile(t *testing.T) {
	tests := []struct {
		name     string
		identity auth.Identity
		wantName string
		premium  bool
	}{
		{
			name: "name from metadata",
			identity: auth.Identity{
				ID:       "id-1",
				Email:    "bob@example.com",
				Metadata: map[string]any{"name": "Bob"},
			},
			wantName: "Bob",
		},
		{
			name: "falls back to email local part",
			identity: auth.Identity{
				ID:    "id-2",
				Email: "carol@example.com",
			},
			wantName: "carol",
		},
		{
			name: "falls back to placeholder",
			identity: auth.Identity{
				ID:    "id-3",
				Email: "not-an-email",
			},
			wantName: "Estudante",
		},
		{
			name: "premium flag from metadata",
			identity: auth.Identity{
				ID:       "id-4",
				Email:    "dan@example.com",
				Metadata: map[string]any{"name": "Dan", "is_premium": true},
			},
			wantName: "Dan",
			premium:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewFakeProfileStore()
			r := user.NewReconciler(store)

			profile, err := r.EnsureProfile(context.Background(), &tt.identity)
			require.NoError(t, err)

			assert.Equal(t, tt.identity.ID, profile.ID)
			assert.Equal(t, tt.identity.Email, profile.Email)
			assert.Equal(t, tt.wantName, profile.Name)
			assert.Equal(t, tt.premium, profile.IsPremium)
		})
	}
}

func TestEnsureProfileDuplicateCreateIsSuccess(t *testing.T) {
	store := testutil.NewFakeProfileStore()

	// Another writer creates the row between our read and our write.
	// The unique-constraint violation is success-by-another-writer,
	// resolved by a re-read, never surfaced as an error.
	store.ConflictWith = &user.Profile{
		ID:    "id-1",
		Email: "eve@example.com",
		Name:  "Eve",
	}

	r := user.NewReconciler(store)

	profile, err := r.EnsureProfile(context.Background(), &auth.Identity{
		ID:       "id-1",
		Email:    "eve@example.com",
		Metadata: map[string]any{"name": "Loser Name"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Eve", profile.Name)
	assert.Equal(t, 1, store.Count())
}

func TestEnsureProfileReconciliationFailed(t *testing.T) {
	store := testutil.NewFakeProfileStore()
	store.CreateErr = errors.New("insert failed")
	r := user.NewReconciler(store)

	_, err := r.EnsureProfile(context.Background(), &auth.Identity{
		ID:    "id-1",
		Email: "gone@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, user.KindReconciliationFailed, user.KindOf(err))
}

func TestEnsureProfileConvergesUnderConcurrency(t *testing.T) {
	store := testutil.NewFakeProfileStore()
	r := user.NewReconciler(store)

	identity := &auth.Identity{
		ID:       "id-1",
		Email:    "race@example.com",
		Metadata: map[string]any{"name": "Racer"},
	}

	const n = 16
	results := make([]*user.Profile, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = r.EnsureProfile(context.Background(), identity)
		}(i)
	}
	wg.Wait()

	// Exactly one row, and every caller observed the same profile.
	assert.Equal(t, 1, store.Count())
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "id-1", results[i].ID)
		assert.Equal(t, "Racer", results[i].Name)
		assert.Equal(t, "race@example.com", results[i].Email)
	}
}
