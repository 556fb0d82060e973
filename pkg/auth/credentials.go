package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sigil-dev/sigil/pkg/store"
)

// Hasher is the password-hashing capability: hash on registration, verify
// on login. Both operations are CPU-bound; callers treat them as blocking.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// BcryptHasher implements Hasher with bcrypt.
type BcryptHasher struct {
	// Cost is the bcrypt cost factor. Zero means bcrypt.DefaultCost.
	Cost int
}

func (h BcryptHasher) Hash(plaintext string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(b), nil
}

func (h BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// dummyHash is verified against on lookup misses so that "no such email"
// and "wrong password" pay the same hashing cost.
var dummyHash string

func init() {
	b, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("generating dummy hash: %v", err))
	}
	dummyHash = string(b)
}

// Verifier checks submitted credentials against the stored hash. It is the
// sole gate for the authenticate flow.
type Verifier struct {
	users  UserStore
	hasher Hasher
}

// NewVerifier creates a Verifier backed by the given store and hasher.
func NewVerifier(users UserStore, hasher Hasher) *Verifier {
	return &Verifier{users: users, hasher: hasher}
}

// Verify returns the identity matching the email and password, or
// ErrInvalidCredentials. A store miss and a hash mismatch are
// indistinguishable in both the returned error and the time spent.
func (v *Verifier) Verify(ctx context.Context, email, password string) (*Identity, error) {
	identity, err := v.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			v.hasher.Verify(password, dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up identity: %w", err)
	}

	if !v.hasher.Verify(password, identity.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return identity, nil
}

// Registrar creates new identities with hashed credentials and role USER.
type Registrar struct {
	users  UserStore
	hasher Hasher
	logger *slog.Logger
}

// NewRegistrar creates a Registrar backed by the given store and hasher.
func NewRegistrar(users UserStore, hasher Hasher, logger *slog.Logger) *Registrar {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registrar{users: users, hasher: hasher, logger: logger}
}

// Register creates a new identity. A pre-existing email yields a
// ConflictError, as does a store-level uniqueness violation at insert time:
// the store's constraint is the authority, so a race between two concurrent
// registrations produces exactly one success and one conflict.
func (r *Registrar) Register(ctx context.Context, email, password, firstName, lastName string) (*Identity, error) {
	if _, err := r.users.FindByEmail(ctx, email); err == nil {
		return nil, &ConflictError{Message: fmt.Sprintf("user with email %s already exists", email)}
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking for existing identity: %w", err)
	}

	hash, err := r.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	identity := &Identity{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         RoleUser,
		CreatedAt:    time.Now().UTC(),
	}

	saved, err := r.users.Save(ctx, identity)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, &ConflictError{Message: fmt.Sprintf("user with email %s already exists", email)}
		}
		return nil, fmt.Errorf("saving identity: %w", err)
	}

	r.logger.Info("user registered", "email", saved.Email)
	return saved, nil
}
