package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// 33 bytes decoded, comfortably above the minimum.
const testSigningKey = "dGVzdC1zaWduaW5nLWtleS10ZXN0LXNpZ25pbmcta2V5"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadDefaultsWithKeyFromEnv(t *testing.T) {
	t.Setenv("SIGIL_SIGNING_KEY", testSigningKey)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %s, want 24h", cfg.Auth.TokenTTL)
	}
	if !cfg.Auth.SeedAdmin {
		t.Error("SeedAdmin default should be true")
	}
	if cfg.Storage.Type != "memory" {
		t.Errorf("Storage.Type = %q, want memory", cfg.Storage.Type)
	}
	if !cfg.Observability.Metrics.Enabled || cfg.Observability.Metrics.Path != "/metrics" {
		t.Errorf("Metrics = %+v", cfg.Observability.Metrics)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  port: 9090
  shutdown_timeout: 5s
auth:
  signing_key: `+testSigningKey+`
  token_ttl: 1h
  seed_admin: false
storage:
  type: memory
observability:
  metrics:
    enabled: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %s, want 5s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("TokenTTL = %s, want 1h", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.SeedAdmin {
		t.Error("SeedAdmin should be false")
	}
	if cfg.Observability.Metrics.Enabled {
		t.Error("Metrics.Enabled should be false")
	}
	// Fields absent from the file keep their defaults.
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("ReadTimeout = %s, want default 15s", cfg.Server.ReadTimeout)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  port: 9090
auth:
  signing_key: `+testSigningKey+`
`)
	t.Setenv("SIGIL_PORT", "7070")
	t.Setenv("SIGIL_TOKEN_TTL", "30m")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Port = %d, want env override 7070", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL != 30*time.Minute {
		t.Errorf("TokenTTL = %s, want 30m", cfg.Auth.TokenTTL)
	}
}

func TestSigningKeyFileReference(t *testing.T) {
	keyPath := writeFile(t, "signing.key", testSigningKey+"\n")
	t.Setenv("SIGIL_SIGNING_KEY_FILE", keyPath)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.SigningKey != testSigningKey {
		t.Errorf("SigningKey = %q, want trimmed file contents", cfg.Auth.SigningKey)
	}
}

func TestDirectValueBeatsFileReference(t *testing.T) {
	keyPath := writeFile(t, "signing.key", "ignored")
	t.Setenv("SIGIL_SIGNING_KEY", testSigningKey)
	t.Setenv("SIGIL_SIGNING_KEY_FILE", keyPath)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.SigningKey != testSigningKey {
		t.Errorf("SigningKey = %q, want direct value", cfg.Auth.SigningKey)
	}
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing signing key", func(c *Config) { c.Auth.SigningKey = "" }, "signing_key"},
		{"non-base64 key", func(c *Config) { c.Auth.SigningKey = "!!!" }, "base64"},
		{"short key", func(c *Config) { c.Auth.SigningKey = "c2hvcnQ=" }, "at least"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "port"},
		{"zero ttl", func(c *Config) { c.Auth.TokenTTL = 0 }, "token_ttl"},
		{"unknown storage", func(c *Config) { c.Storage.Type = "redis" }, "storage.type"},
		{"postgres without dsn", func(c *Config) { c.Storage.Type = "postgres" }, "dsn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Auth.SigningKey = testSigningKey
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadRejectsBadEnvValues(t *testing.T) {
	t.Setenv("SIGIL_SIGNING_KEY", testSigningKey)
	t.Setenv("SIGIL_PORT", "not-a-number")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for invalid SIGIL_PORT")
	}
}
