package auth

import "context"

// Principal is the request-scoped view of the authenticated caller. It is
// written once by the authentication middleware and read-only afterward.
type Principal struct {
	// Subject is the identity's login email.
	Subject string

	// Role is the identity's authorization role.
	Role Role
}

// principalKey is a private type for the principal context key.
type principalKey struct{}

// WithPrincipal stores the authenticated principal in the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext retrieves the authenticated principal.
// Returns nil for anonymous requests.
func PrincipalFromContext(ctx context.Context) *Principal {
	if p, ok := ctx.Value(principalKey{}).(*Principal); ok {
		return p
	}
	return nil
}
