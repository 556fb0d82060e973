package auth

import (
	"context"
	"fmt"
	"time"
)

// Role is the authorization role carried by an identity.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole converts a stored role string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Identity is the stored authenticated principal. The password hash is the
// only credential material ever persisted; plaintext passwords exist only
// transiently during registration and login.
type Identity struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	CreatedAt    time.Time
}

// UserStore is the contract the auth core requires from the user record
// store. Save enforces email uniqueness and returns store.ErrConflict on
// violation; lookups return store.ErrNotFound on a miss.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	FindByID(ctx context.Context, id string) (*Identity, error)
	Save(ctx context.Context, identity *Identity) (*Identity, error)
	Delete(ctx context.Context, identity *Identity) error
	Count(ctx context.Context) (int, error)
	FindAll(ctx context.Context) ([]*Identity, error)
}
