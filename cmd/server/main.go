// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

// Command server runs the Screenlog API: configuration load, database and
// session store startup, TMDB client construction, and the supervised HTTP
// server.
//
// @title Screenlog API
// @version 1.0
// @description Movie review REST API with TMDB catalog caching.
// @BasePath /api/v1
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/screenlog/screenlog/internal/api"
	"github.com/screenlog/screenlog/internal/auth"
	"github.com/screenlog/screenlog/internal/config"
	"github.com/screenlog/screenlog/internal/database"
	"github.com/screenlog/screenlog/internal/logging"
	"github.com/screenlog/screenlog/internal/metrics"
	"github.com/screenlog/screenlog/internal/movies"
	"github.com/screenlog/screenlog/internal/supervisor"
	"github.com/screenlog/screenlog/internal/supervisor/services"
	"github.com/screenlog/screenlog/internal/tmdb"

	_ "github.com/screenlog/screenlog/docs" // OpenAPI registration
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("go_version", runtime.Version()).
		Msg("Starting Screenlog")
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn().Err(err).Msg("Database close failed")
		}
	}()

	sessions, err := auth.NewBadgerSessionStore(&cfg.Sessions)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			logging.Warn().Err(err).Msg("Session store close failed")
		}
	}()

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("initializing JWT manager: %w", err)
	}

	catalog := tmdb.NewCircuitBreakerClient(cfg.TMDB)
	movieService := movies.NewService(db, catalog, cfg.Cache)

	handler := api.NewHandler(movieService, db, jwtManager, sessions, cfg, version)
	authMW := auth.NewMiddleware(jwtManager, sessions)
	router := api.NewRouter(handler, authMW)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPServerService(server, supervisor.DefaultTreeConfig().ShutdownTimeout))
	tree.AddMaintenanceService(services.NewSessionReaperService(sessions, cfg.Sessions.CleanupInterval))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", cfg.Server.Addr()).Msg("HTTP server listening")
	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	logging.Info().Msg("Shutdown complete")
	return nil
}
