// Package store defines the shared contract for user store implementations.
//
// Implementations live in subpackages: memory (for tests and lightweight
// deployments) and postgres (pgx-backed, for production). Consumers depend
// on the auth.UserStore interface and on the sentinel errors defined here,
// never on a concrete implementation.
package store
