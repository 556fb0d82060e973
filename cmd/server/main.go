// Command server runs the sigil authentication service.
//
// Configuration is layered: built-in defaults, then an optional YAML config
// file (-config flag, SIGIL_CONFIG env, ./config.yaml, /etc/sigil/config.yaml),
// then SIGIL_* environment overrides. The signing key is required; startup
// fails without it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sigil-dev/sigil/pkg/auth"
	"github.com/sigil-dev/sigil/pkg/auth/token"
	"github.com/sigil-dev/sigil/pkg/config"
	"github.com/sigil-dev/sigil/pkg/debug"
	"github.com/sigil-dev/sigil/pkg/observability"
	"github.com/sigil-dev/sigil/pkg/store/memory"
	"github.com/sigil-dev/sigil/pkg/store/postgres"
	"github.com/sigil-dev/sigil/pkg/transport"
)

// seedAdminEmail and seedAdminPassword bootstrap the first admin account
// when the store is empty. The password must be changed after first login.
const (
	seedAdminEmail    = "admin@admin.com"
	seedAdminPassword = "admin"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	debug.Init(cfg.Observability.Debug, cfg.Observability.LogLevel)
	logger := slog.Default()

	codec, err := token.NewCodec(cfg.Auth.SigningKey)
	if err != nil {
		return fmt.Errorf("configuring token codec: %w", err)
	}

	ctx := context.Background()

	// Select the user store.
	var users auth.UserStore
	switch cfg.Storage.Type {
	case "postgres":
		pg, err := postgres.New(ctx, postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		})
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		defer pg.Close()
		users = pg
		logger.Info("storage enabled", "type", "postgres")
	default:
		users = memory.New()
		logger.Info("storage enabled", "type", "memory")
	}

	hasher := &auth.BcryptHasher{}
	registrar := auth.NewRegistrar(users, hasher, logger)
	verifier := auth.NewVerifier(users, hasher)

	if cfg.Auth.SeedAdmin {
		if err := seedAdmin(ctx, users, hasher, logger); err != nil {
			return fmt.Errorf("seeding admin account: %w", err)
		}
	}

	handler := transport.NewHandler(registrar, verifier, codec, cfg.Auth.TokenTTL, users, logger)
	mux := handler.Routes()

	if cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+cfg.Observability.Metrics.Path, promhttp.Handler())
	}

	chain := transport.Chain(
		transport.Recovery(),
		transport.RequestID(),
		transport.Logging(logger),
		observability.MetricsMiddleware(mux),
		auth.Middleware(codec, users, logger),
	)

	srv := transport.NewServer(chain(mux), transport.ServerConfig{
		Addr:            fmt.Sprintf(":%d", cfg.Server.Port),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          logger,
	})

	return srv.ListenAndServe()
}

// seedAdmin creates the bootstrap admin account if the store holds no users.
func seedAdmin(ctx context.Context, users auth.UserStore, hasher auth.Hasher, logger *slog.Logger) error {
	n, err := users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := hasher.Hash(seedAdminPassword)
	if err != nil {
		return err
	}

	admin := &auth.Identity{
		Email:        seedAdminEmail,
		PasswordHash: hash,
		FirstName:    "Admin",
		LastName:     "Admin",
		Role:         auth.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := users.Save(ctx, admin); err != nil {
		return err
	}

	logger.Warn("seeded default admin account, change its password",
		"email", seedAdminEmail)
	return nil
}
