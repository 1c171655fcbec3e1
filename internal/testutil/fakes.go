// Package testutil provides in-memory stand-ins for the two external
// collaborators. Every test wires its own instances; nothing here is
// shared process-wide.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kassiods/Estude/internal/auth"
	"github.com/kassiods/Estude/internal/auth/provider"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type account struct {
	identity auth.Identity
	hash     []byte
}

// FakeIdentityProvider mimics a GoTrue-style provider in memory. Email
// uniqueness is enforced atomically, matching the real provider's role
// as sole arbiter of duplicate registrations.
type FakeIdentityProvider struct {
	mu       sync.Mutex
	accounts map[string]*account // by id
	byEmail  map[string]string   // lowercased email -> id
	tokens   map[string]string   // token -> id

	// Failure injection.
	CreateErr      error
	DeleteErr      error
	DeleteFailures int // fail this many deletes, then succeed

	// OnAccountCreated runs after a successful CreateAccount, before
	// returning. Used to cancel caller contexts mid-saga.
	OnAccountCreated func()

	createCalls int
	deleteCalls int
	verifyCalls int
}

func NewFakeIdentityProvider() *FakeIdentityProvider {
	return &FakeIdentityProvider{
		accounts: make(map[string]*account),
		byEmail:  make(map[string]string),
		tokens:   make(map[string]string),
	}
}

func (f *FakeIdentityProvider) CreateAccount(
	_ context.Context,
	email, password string,
	metadata map[string]any,
) (*auth.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++

	if f.CreateErr != nil {
		return nil, f.CreateErr
	}

	if len(password) < provider.MinPasswordLength {
		return nil, &provider.AccountError{
			Class: provider.ClassWeakPassword,
			Msg:   fmt.Sprintf("Password should be at least %d characters", provider.MinPasswordLength),
		}
	}

	if _, taken := f.byEmail[strings.ToLower(email)]; taken {
		return nil, &provider.AccountError{
			Class: provider.ClassDuplicateEmail,
			Msg:   "A user with this email address has already been registered",
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	f.accounts[id] = &account{
		identity: auth.Identity{
			ID:       id,
			Email:    email,
			Metadata: metadata,
		},
		hash: hash,
	}
	f.byEmail[strings.ToLower(email)] = id

	if f.OnAccountCreated != nil {
		f.OnAccountCreated()
	}

	identity := f.accounts[id].identity
	return &identity, nil
}

func (f *FakeIdentityProvider) DeleteAccount(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleteCalls++

	if f.DeleteFailures > 0 {
		f.DeleteFailures--
		return fmt.Errorf("provider unavailable")
	}
	if f.DeleteErr != nil {
		return f.DeleteErr
	}

	acc, ok := f.accounts[id]
	if !ok {
		return &provider.AccountError{Class: provider.ClassOther, Msg: "user not found"}
	}

	delete(f.byEmail, strings.ToLower(acc.identity.Email))
	delete(f.accounts, id)
	return nil
}

func (f *FakeIdentityProvider) VerifyToken(_ context.Context, token string) (*auth.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.verifyCalls++

	id, ok := f.tokens[token]
	if !ok {
		return nil, &provider.AccountError{
			Class: provider.ClassInvalidCredentials,
			Msg:   "invalid token",
		}
	}

	identity := f.accounts[id].identity
	return &identity, nil
}

func (f *FakeIdentityProvider) SignIn(_ context.Context, email, password string) (*auth.Identity, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, "", invalidCredentials()
	}

	acc := f.accounts[id]
	if bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return nil, "", invalidCredentials()
	}

	token := uuid.NewString()
	f.tokens[token] = id

	identity := acc.identity
	return &identity, token, nil
}

func (f *FakeIdentityProvider) UpdateMetadata(_ context.Context, id string, metadata map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	acc, ok := f.accounts[id]
	if !ok {
		return &provider.AccountError{Class: provider.ClassOther, Msg: "user not found"}
	}

	if acc.identity.Metadata == nil {
		acc.identity.Metadata = make(map[string]any)
	}
	for k, v := range metadata {
		acc.identity.Metadata[k] = v
	}
	return nil
}

// IssueToken registers an identity-bound token directly, bypassing
// SignIn, for tests that only need an authenticated request.
func (f *FakeIdentityProvider) IssueToken(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	token := uuid.NewString()
	f.tokens[token] = id
	return token
}

// Seed creates an account directly and returns its identity.
func (f *FakeIdentityProvider) Seed(email, password string, metadata map[string]any) auth.Identity {
	identity, err := f.CreateAccount(context.Background(), email, password, metadata)
	if err != nil {
		panic(err)
	}
	return *identity
}

func (f *FakeIdentityProvider) HasAccountWithEmail(email string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byEmail[strings.ToLower(email)]
	return ok
}

func (f *FakeIdentityProvider) HasAccount(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.accounts[id]
	return ok
}

func (f *FakeIdentityProvider) CreateCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls
}

func (f *FakeIdentityProvider) VerifyCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.verifyCalls
}

func (f *FakeIdentityProvider) DeleteCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteCalls
}

func invalidCredentials() error {
	return &provider.AccountError{
		Class: provider.ClassInvalidCredentials,
		Msg:   "Invalid login credentials",
	}
}
