package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	electionservice "clubsync/contexts/club-governance/election-service"
	electionpostgres "clubsync/contexts/club-governance/election-service/adapters/postgres"
	authservice "clubsync/contexts/identity-access/auth-service"
	authpostgres "clubsync/contexts/identity-access/auth-service/adapters/postgres"
	"clubsync/internal/platform/config"
	"clubsync/internal/platform/db"
	"clubsync/internal/platform/httpserver"
	"clubsync/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	if len(strings.TrimSpace(cfg.JWTSecret)) == 0 {
		return nil, errors.New("JWT_SECRET is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	var publisher *messaging.Bus
	if cfg.EnableEventPublisher {
		publisher = messaging.NewBus(logger)
	}

	repo := electionpostgres.NewRepository(pg.DB, logger)
	deps := electionservice.Dependencies{
		Elections: repo,
		Tokens:    repo,
		Ballots:   repo,
		Clubs:     repo,
		Clock:     electionpostgres.SystemClock{},
		IDGen:     electionpostgres.UUIDGenerator{},
		Logger:    logger,
	}
	if publisher != nil {
		deps.Publisher = publisher
	}
	elections := electionservice.NewModule(deps)

	authRepo := authpostgres.NewRepository(pg.DB, logger)
	auth := authservice.NewModule(authservice.Dependencies{
		Sessions:  authRepo,
		Clock:     authpostgres.SystemClock{},
		JWTSecret: []byte(cfg.JWTSecret),
		Logger:    logger,
	})

	server := httpserver.New(elections, auth, logger, httpserver.Options{
		Addr:           normalizeAddr(cfg.HTTPPort),
		SessionCookie:  cfg.SessionCookie,
		RequestTimeout: cfg.RequestTimeout,
	})
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
