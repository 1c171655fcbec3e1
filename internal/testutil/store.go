package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/kassiods/Estude/internal/orphan"
	"github.com/kassiods/Estude/internal/user"
)

// FakeProfileStore is an in-memory profiles table. Uniqueness on id is
// enforced under the same lock as the write, so concurrent creates race
// exactly the way the real unique constraint makes them race.
type FakeProfileStore struct {
	mu   sync.Mutex
	rows map[string]user.Profile

	// Failure injection.
	UpsertErr error
	CreateErr error
	FindErr   error

	// ConflictWith simulates losing a create race: Create stores this
	// row (the concurrent winner's) and reports ErrAlreadyExists.
	ConflictWith *user.Profile

	findCalls   int
	upsertCalls int
}

func NewFakeProfileStore() *FakeProfileStore {
	return &FakeProfileStore{rows: make(map[string]user.Profile)}
}

func (f *FakeProfileStore) FindByID(_ context.Context, id string) (*user.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.findCalls++

	if f.FindErr != nil {
		return nil, f.FindErr
	}

	p, ok := f.rows[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &p, nil
}

func (f *FakeProfileStore) Create(_ context.Context, p user.Profile) (*user.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.CreateErr != nil {
		return nil, f.CreateErr
	}

	if f.ConflictWith != nil {
		f.rows[f.ConflictWith.ID] = *f.ConflictWith
		return nil, user.ErrAlreadyExists
	}

	if _, exists := f.rows[p.ID]; exists {
		return nil, user.ErrAlreadyExists
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	f.rows[p.ID] = p

	return &p, nil
}

func (f *FakeProfileStore) Upsert(_ context.Context, id, email, name string, isPremium bool) (*user.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.upsertCalls++

	if f.UpsertErr != nil {
		return nil, f.UpsertErr
	}

	now := time.Now().UTC()
	p, exists := f.rows[id]
	if !exists {
		p = user.Profile{ID: id, CreatedAt: now}
	}
	p.Email = email
	p.Name = name
	p.IsPremium = isPremium
	p.UpdatedAt = now
	f.rows[id] = p

	return &p, nil
}

func (f *FakeProfileStore) Update(_ context.Context, id string, fields user.UpdateFields) (*user.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.rows[id]
	if !ok {
		return nil, user.ErrNotFound
	}

	if fields.Name != nil {
		p.Name = *fields.Name
	}
	if fields.PhotoURL != nil {
		p.PhotoURL = *fields.PhotoURL
	}
	p.UpdatedAt = time.Now().UTC()
	f.rows[id] = p

	return &p, nil
}

func (f *FakeProfileStore) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

func (f *FakeProfileStore) Get(id string) (user.Profile, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	return p, ok
}

func (f *FakeProfileStore) Put(p user.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[p.ID] = p
}

func (f *FakeProfileStore) FindCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findCalls
}

// FakeOrphanRegistry records orphaned identities in memory.
type FakeOrphanRegistry struct {
	mu      sync.Mutex
	records map[string]orphan.Record
}

func NewFakeOrphanRegistry() *FakeOrphanRegistry {
	return &FakeOrphanRegistry{records: make(map[string]orphan.Record)}
}

func (f *FakeOrphanRegistry) Record(_ context.Context, r orphan.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[r.IdentityID] = r
	return nil
}

func (f *FakeOrphanRegistry) Get(_ context.Context, identityID string) (*orphan.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.records[identityID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *FakeOrphanRegistry) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}
