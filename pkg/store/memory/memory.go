// Package memory provides an in-memory implementation of auth.UserStore for
// testing and lightweight deployments. Identities are lost when the process
// restarts.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sigil-dev/sigil/pkg/auth"
	"github.com/sigil-dev/sigil/pkg/store"
)

// Store is an in-memory UserStore. Email uniqueness is enforced
// case-insensitively under a single lock, so concurrent duplicate
// registrations resolve to exactly one winner.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]*auth.Identity
	byEmail map[string]string // lower-cased email -> id
}

// Ensure Store implements auth.UserStore at compile time.
var _ auth.UserStore = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		byID:    make(map[string]*auth.Identity),
		byEmail: make(map[string]string),
	}
}

// Save inserts or updates an identity, enforcing email uniqueness.
// An empty ID is assigned. Returns store.ErrConflict if the email belongs
// to a different identity.
func (s *Store) Save(ctx context.Context, identity *auth.Identity) (*auth.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(identity.Email)
	if ownerID, ok := s.byEmail[key]; ok && ownerID != identity.ID {
		return nil, store.ErrConflict
	}

	saved := *identity
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}

	// Drop a stale email mapping when an update changes the address.
	if prev, ok := s.byID[saved.ID]; ok {
		delete(s.byEmail, strings.ToLower(prev.Email))
	}

	s.byID[saved.ID] = &saved
	s.byEmail[key] = saved.ID

	out := saved
	return &out, nil
}

// FindByEmail looks up an identity by login email, case-insensitively.
func (s *Store) FindByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *s.byID[id]
	return &out, nil
}

// FindByID looks up an identity by ID.
func (s *Store) FindByID(ctx context.Context, id string) (*auth.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *identity
	return &out, nil
}

// Delete removes an identity. Returns store.ErrNotFound if it is not present.
func (s *Store) Delete(ctx context.Context, identity *auth.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[identity.ID]
	if !ok {
		return store.ErrNotFound
	}

	delete(s.byEmail, strings.ToLower(existing.Email))
	delete(s.byID, identity.ID)
	return nil
}

// Count returns the number of stored identities.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), nil
}

// FindAll returns all identities ordered by email.
func (s *Store) FindAll(ctx context.Context) ([]*auth.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*auth.Identity, 0, len(s.byID))
	for _, identity := range s.byID {
		cp := *identity
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}
