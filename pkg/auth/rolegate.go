package auth

import "context"

// Require checks that the bound principal carries exactly the given role.
// Anonymous requests fail with ErrUnauthenticated, authenticated requests
// with a different role fail with ErrForbidden. No side effects.
func Require(ctx context.Context, role Role) error {
	p := PrincipalFromContext(ctx)
	if p == nil {
		return ErrUnauthenticated
	}
	if p.Role != role {
		return ErrForbidden
	}
	return nil
}

// RequireAuthenticated returns the bound principal, or ErrUnauthenticated
// for anonymous requests. Used by routes that need an identity but no
// particular role.
func RequireAuthenticated(ctx context.Context) (*Principal, error) {
	p := PrincipalFromContext(ctx)
	if p == nil {
		return nil, ErrUnauthenticated
	}
	return p, nil
}
