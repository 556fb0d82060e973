// Package auth implements the token-based authentication and authorization
// core: credential verification, registration, per-request token
// authentication, and role-gated access control.
//
// Authentication is implemented as HTTP middleware that verifies the bearer
// token, resolves the subject through the user store, and binds the resulting
// principal to the request context. The middleware is tolerant: a missing or
// invalid token leaves the request anonymous and lets route-level
// authorization decide, so public routes stay reachable without credentials.
//
// Authorization is an explicit Require call evaluated after the middleware
// and before the handler body. Roles are exact-match; there is no hierarchy.
package auth
