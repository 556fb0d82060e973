package config

import (
	"encoding/base64"
	"fmt"

	"github.com/sigil-dev/sigil/pkg/auth/token"
)

// Validate checks the configuration for consistency and required values.
// Any failure here is startup-fatal.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Auth.SigningKey == "" {
		return fmt.Errorf("auth.signing_key is required")
	}
	key, err := base64.StdEncoding.DecodeString(c.Auth.SigningKey)
	if err != nil {
		return fmt.Errorf("auth.signing_key must be base64: %w", err)
	}
	if len(key) < token.MinKeyBytes {
		return fmt.Errorf("auth.signing_key must decode to at least %d bytes, got %d",
			token.MinKeyBytes, len(key))
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}

	switch c.Storage.Type {
	case "memory":
	case "postgres":
		if c.Storage.Postgres.DSN == "" && c.Storage.Postgres.DSNFile == "" {
			return fmt.Errorf("storage.postgres.dsn is required for storage.type=postgres")
		}
	default:
		return fmt.Errorf("storage.type must be \"memory\" or \"postgres\", got %q", c.Storage.Type)
	}

	return nil
}
