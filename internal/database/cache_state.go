// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/screenlog/screenlog/internal/metrics"
	"github.com/screenlog/screenlog/internal/models"
)

// PopularCacheName is the cache_state row tracking the popular list.
const PopularCacheName = "popular"

// GetCacheState reads the freshness checkpoint for a named cache unit.
// Returns ErrNotFound when the unit has never been refreshed; callers treat
// that as maximally stale.
func (db *DB) GetCacheState(ctx context.Context, name string) (*models.CacheState, error) {
	start := time.Now()

	var cs models.CacheState
	err := db.conn.QueryRowContext(ctx,
		`SELECT name, refreshed_at, version FROM cache_state WHERE name = ?`, name).
		Scan(&cs.Name, &cs.RefreshedAt, &cs.Version)
	metrics.RecordDBQuery("select", "cache_state", time.Since(start), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("cache state %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("get cache state %q: %w", name, err)
	}
	return &cs, nil
}

// TouchCacheState records a completed refresh for a cache unit, setting
// refreshed_at to now and bumping the version counter.
func (db *DB) TouchCacheState(ctx context.Context, name string) error {
	start := time.Now()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO cache_state (name, refreshed_at, version)
		VALUES (?, CURRENT_TIMESTAMP, 1)
		ON CONFLICT (name) DO UPDATE SET
			refreshed_at = now(),
			version = cache_state.version + 1`, name)
	metrics.RecordDBQuery("upsert", "cache_state", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("touch cache state %q: %w", name, err)
	}
	return nil
}
