// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package database

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGetCacheStateMissing(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetCacheState(context.Background(), PopularCacheName)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for untouched cache, got %v", err)
	}
}

func TestTouchCacheState(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	if err := db.TouchCacheState(ctx, PopularCacheName); err != nil {
		t.Fatalf("TouchCacheState failed: %v", err)
	}

	state, err := db.GetCacheState(ctx, PopularCacheName)
	if err != nil {
		t.Fatalf("GetCacheState failed: %v", err)
	}
	if state.Name != PopularCacheName {
		t.Errorf("name = %q, want %q", state.Name, PopularCacheName)
	}
	if state.RefreshedAt.Before(before) {
		t.Errorf("refreshedAt %v predates the touch", state.RefreshedAt)
	}
	if state.Version != 1 {
		t.Errorf("version = %d, want 1", state.Version)
	}
}

func TestTouchCacheStateIncrementsVersion(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := db.TouchCacheState(ctx, PopularCacheName); err != nil {
			t.Fatalf("touch %d failed: %v", i, err)
		}
	}

	state, err := db.GetCacheState(ctx, PopularCacheName)
	if err != nil {
		t.Fatalf("GetCacheState failed: %v", err)
	}
	if state.Version != 3 {
		t.Errorf("version = %d, want 3", state.Version)
	}
}
