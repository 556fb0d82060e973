package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, SIGIL_CONFIG env, ./config.yaml, /etc/sigil/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. SIGIL_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/sigil/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("SIGIL_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{
		"config.yaml",
		"/etc/sigil/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps SIGIL_* environment variables to config fields.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("SIGIL_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SIGIL_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("SIGIL_SIGNING_KEY"); v != "" {
		cfg.Auth.SigningKey = v
	}
	if v := os.Getenv("SIGIL_SIGNING_KEY_FILE"); v != "" {
		cfg.Auth.SigningKeyFile = v
	}
	if v := os.Getenv("SIGIL_TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SIGIL_TOKEN_TTL %q: %w", v, err)
		}
		cfg.Auth.TokenTTL = ttl
	}
	if v := os.Getenv("SIGIL_SEED_ADMIN"); v != "" {
		cfg.Auth.SeedAdmin = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("SIGIL_STORAGE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("SIGIL_POSTGRES_DSN"); v != "" {
		cfg.Storage.Postgres.DSN = v
	}
	if v := os.Getenv("SIGIL_METRICS"); v != "" {
		cfg.Observability.Metrics.Enabled = strings.EqualFold(v, "true")
	}
	return nil
}

// resolveFileReferences loads _file variant fields into their targets.
// A populated direct value takes priority over the file reference.
func resolveFileReferences(cfg *Config) error {
	if cfg.Auth.SigningKey == "" && cfg.Auth.SigningKeyFile != "" {
		data, err := os.ReadFile(cfg.Auth.SigningKeyFile)
		if err != nil {
			return fmt.Errorf("reading signing key file: %w", err)
		}
		cfg.Auth.SigningKey = strings.TrimSpace(string(data))
	}
	if cfg.Storage.Postgres.DSN == "" && cfg.Storage.Postgres.DSNFile != "" {
		data, err := os.ReadFile(cfg.Storage.Postgres.DSNFile)
		if err != nil {
			return fmt.Errorf("reading DSN file: %w", err)
		}
		cfg.Storage.Postgres.DSN = strings.TrimSpace(string(data))
	}
	return nil
}
