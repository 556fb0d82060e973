// Package postgres provides a PostgreSQL implementation of auth.UserStore.
// It uses pgx/v5 for connection pooling; email uniqueness is enforced by a
// unique index on lower(email), making the database the authority for
// concurrent registration races.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sigil-dev/sigil/pkg/auth"
	"github.com/sigil-dev/sigil/pkg/store"
)

// Store is a PostgreSQL-backed UserStore.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements auth.UserStore at compile time.
var _ auth.UserStore = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

const identityColumns = "id, email, password_hash, first_name, last_name, role, created_at"

// Save inserts or updates an identity, assigning an ID if empty. A unique
// violation on the email index maps to store.ErrConflict.
func (s *Store) Save(ctx context.Context, identity *auth.Identity) (*auth.Identity, error) {
	saved := *identity
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			role = EXCLUDED.role
	`,
		saved.ID, saved.Email, saved.PasswordHash,
		saved.FirstName, saved.LastName, string(saved.Role), saved.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, fmt.Errorf("saving user: %w", err)
	}

	return &saved, nil
}

// FindByEmail looks up an identity by login email, case-insensitively.
func (s *Store) FindByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+identityColumns+" FROM users WHERE lower(email) = lower($1)", email)
	return scanIdentity(row)
}

// FindByID looks up an identity by ID.
func (s *Store) FindByID(ctx context.Context, id string) (*auth.Identity, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+identityColumns+" FROM users WHERE id = $1", id)
	return scanIdentity(row)
}

// Delete removes an identity. Returns store.ErrNotFound if no row matched.
func (s *Store) Delete(ctx context.Context, identity *auth.Identity) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", identity.ID)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Count returns the number of stored identities.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM users").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}

// FindAll returns all identities ordered by email.
func (s *Store) FindAll(ctx context.Context) ([]*auth.Identity, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+identityColumns+" FROM users ORDER BY email")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var out []*auth.Identity
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, identity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return out, nil
}

// HealthCheck verifies database connectivity.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// scanIdentity reads one identity row from a pgx row scanner.
func scanIdentity(row pgx.Row) (*auth.Identity, error) {
	var identity auth.Identity
	var role string

	err := row.Scan(
		&identity.ID, &identity.Email, &identity.PasswordHash,
		&identity.FirstName, &identity.LastName, &role, &identity.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	identity.Role, err = auth.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	return &identity, nil
}

// isUniqueViolation checks for a PostgreSQL unique violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
