// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

// Package database implements the relational cache store on DuckDB:
// cached movie rows with local vote aggregates, a normalized per-user
// votes table, explicit cache freshness checkpoints, and user accounts.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/screenlog/screenlog/internal/config"
	"github.com/screenlog/screenlog/internal/logging"
	"github.com/screenlog/screenlog/internal/metrics"
)

// DB wraps the DuckDB connection and provides data access methods.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New creates a new database connection and initializes the schema.
// An empty or ":memory:" path opens an in-memory database.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	// Ensure parent directory exists for a file-backed database.
	if path != ":memory:" {
		dbDir := filepath.Dir(path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "512MB"
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
		path, numThreads, maxMemory)
	if path == ":memory:" {
		connStr = ""
	}

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn: conn,
		cfg:  cfg,
	}

	db.configureConnectionPool()

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return db, nil
}

// configureConnectionPool applies connection pool limits. DuckDB is an
// embedded engine, so a small pool is enough and avoids writer contention.
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(4)
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
}

// initialize creates the schema if it does not exist.
func (db *DB) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	statements := []string{
		// Descriptive columns mirror the upstream record; vote_average and
		// vote_count are local aggregates over movie_votes and survive
		// descriptive refetches.
		`CREATE TABLE IF NOT EXISTS movies (
			id                    BIGINT PRIMARY KEY,
			title                 VARCHAR NOT NULL,
			original_title        VARCHAR,
			original_language     VARCHAR,
			overview              VARCHAR,
			tagline               VARCHAR,
			poster_path           VARCHAR NOT NULL,
			backdrop_path         VARCHAR,
			release_date          VARCHAR NOT NULL,
			runtime               INTEGER,
			genre_ids             INTEGER[],
			popularity            DOUBLE NOT NULL,
			vote_average          DOUBLE NOT NULL DEFAULT 0,
			vote_count            INTEGER NOT NULL DEFAULT 0,
			adult                 BOOLEAN DEFAULT FALSE,
			video                 BOOLEAN DEFAULT FALSE,
			budget                BIGINT DEFAULT 0,
			revenue               BIGINT DEFAULT 0,
			homepage              VARCHAR,
			imdb_id               VARCHAR,
			status                VARCHAR,
			belongs_to_collection JSON,
			production_companies  JSON,
			production_countries  JSON,
			spoken_languages      JSON,
			origin_country        VARCHAR[],
			cached_at             TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// One row per (movie, user). The aggregates on movies are derived
		// from this table and always agree with it.
		`CREATE TABLE IF NOT EXISTS movie_votes (
			movie_id   BIGINT NOT NULL,
			user_id    VARCHAR NOT NULL,
			score      INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (movie_id, user_id)
		)`,

		// One row per batch-refreshed cache unit; the popular list uses the
		// row named 'popular'.
		`CREATE TABLE IF NOT EXISTS cache_state (
			name         VARCHAR PRIMARY KEY,
			refreshed_at TIMESTAMP NOT NULL,
			version      BIGINT NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS users (
			id            VARCHAR PRIMARY KEY,
			email         VARCHAR NOT NULL UNIQUE,
			username      VARCHAR NOT NULL,
			password_hash VARCHAR NOT NULL,
			created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_movies_popularity ON movies(popularity)`,
		`CREATE INDEX IF NOT EXISTS idx_movie_votes_movie ON movie_votes(movie_id)`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}

	logging.Debug().Msg("Database schema initialized")
	return nil
}

// Ping verifies the database connection.
func (db *DB) Ping(ctx context.Context) error {
	metrics.DBConnectionPoolSize.Set(float64(db.conn.Stats().OpenConnections))
	return db.conn.PingContext(ctx)
}

// Conn returns the underlying SQL database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func closeQuietly(conn *sql.DB) {
	if err := conn.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close database connection")
	}
}
