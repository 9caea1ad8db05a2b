// cmd/commitlens/app.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"commitlens/internal/config"
	"commitlens/internal/database"
	"commitlens/internal/identity"
	"commitlens/internal/platform"
	"commitlens/internal/syncer"
)

// app holds the wired components shared by every command.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	pool     *pgxpool.Pool
	store    *database.PgStore
	resolver *identity.Resolver
	syncer   *syncer.Syncer
}

func newLogger(level string) *slog.Logger {
	logLevel := new(slog.LevelVar)
	setLogLevel(level, logLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return logger
}

func setLogLevel(level string, v *slog.LevelVar) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}

// bootstrap loads configuration, connects to the database, registers the configured
// platforms and builds their clients.
func bootstrap(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := newLogger(cfg.LogLevel)
	logger.Info("Configuration loaded successfully", "platforms", len(cfg.Platforms))

	if err := database.Migrate(cfg.DBURL); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DBURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	logger.Info("Database connection established")

	store := database.NewStore(pool)
	clients, err := registerPlatforms(ctx, store, cfg, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}

	resolver := identity.NewResolver(store, logger)
	s := syncer.NewSyncer(store, clients, resolver, logger, syncer.Options{
		RepoConcurrency:   cfg.RepoConcurrency,
		CommitConcurrency: cfg.CommitConcurrency,
		FetchDiffs:        cfg.FetchDiffs,
		SyncWindow:        cfg.SyncWindow,
		Interval:          cfg.SyncInterval,
	})

	return &app{
		cfg:      cfg,
		logger:   logger,
		pool:     pool,
		store:    store,
		resolver: resolver,
		syncer:   s,
	}, nil
}

// registerPlatforms upserts every configured platform and returns a client per enabled one, keyed by platform id.
func registerPlatforms(ctx context.Context, q database.Querier, cfg *config.Config, logger *slog.Logger) (map[int64]platform.Client, error) {
	clients := make(map[int64]platform.Client, len(cfg.Platforms))
	for _, pc := range cfg.Platforms {
		row, err := q.UpsertPlatform(ctx, database.UpsertPlatformParams{
			Name:     pc.Name,
			Kind:     pc.Kind,
			BaseUrl:  pc.BaseURL,
			Token:    pc.Token,
			Username: pc.Username,
			Enabled:  pc.IsEnabled(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to register platform %q: %w", pc.Name, err)
		}
		if !row.Enabled {
			logger.Info("Platform disabled, skipping", "platform", pc.Name)
			continue
		}
		client, err := platform.New(pc, platform.Options{
			Logger:         logger,
			Timeout:        cfg.HTTPTimeout,
			ConnectTimeout: cfg.ConnectTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create client for platform %q: %w", pc.Name, err)
		}
		clients[row.ID] = client
	}
	return clients, nil
}

func (a *app) close() {
	a.pool.Close()
}
