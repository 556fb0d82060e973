// Package config provides unified configuration for the sigil auth service.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (SIGIL_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
//
// Missing or invalid required values (notably the signing key) are
// startup-fatal, never deferred to request time.
package config

import "time"

// Config holds all configuration for the sigil service.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Auth          AuthConfig          `yaml:"auth"`
	Storage       StorageConfig       `yaml:"storage"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 8080
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 15s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 10s
}

// AuthConfig holds token issuance settings.
type AuthConfig struct {
	// SigningKey is the base64-encoded symmetric signing key. Required;
	// must decode to at least 256 bits.
	SigningKey string `yaml:"signing_key"`

	// SigningKeyFile is the _file variant for signing_key.
	SigningKeyFile string `yaml:"signing_key_file"`

	// TokenTTL is the issued-token lifetime. Default: 24h.
	TokenTTL time.Duration `yaml:"token_ttl"`

	// SeedAdmin creates the bootstrap admin account when the store is
	// empty. Default: true.
	SeedAdmin bool `yaml:"seed_admin"`
}

// StorageConfig holds user store settings.
type StorageConfig struct {
	Type     string         `yaml:"type"` // "memory" or "postgres", default: "memory"
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	DSNFile        string `yaml:"dsn_file"`         // _file variant for dsn
	MaxConns       int32  `yaml:"max_conns"`        // default: 25
	MigrateOnStart bool   `yaml:"migrate_on_start"` // default: true
}

// ObservabilityConfig holds monitoring and logging settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`

	// LogLevel is one of ERROR, WARN, INFO, DEBUG, TRACE. Default: INFO.
	// The SIGIL_LOG_LEVEL environment variable takes precedence.
	LogLevel string `yaml:"log_level"`

	// Debug is a comma-separated list of debug categories
	// (auth, token, store, transport, config, all). The SIGIL_DEBUG
	// environment variable takes precedence.
	Debug string `yaml:"debug"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			TokenTTL:  24 * time.Hour,
			SeedAdmin: true,
		},
		Storage: StorageConfig{
			Type: "memory",
			Postgres: PostgresConfig{
				MaxConns:       25,
				MigrateOnStart: true,
			},
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
			LogLevel: "INFO",
		},
	}
}
