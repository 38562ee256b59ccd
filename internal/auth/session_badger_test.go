// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/screenlog/screenlog/internal/config"
)

func setupSessionStore(t *testing.T) *BadgerSessionStore {
	t.Helper()
	store, err := NewBadgerSessionStore(&config.SessionsConfig{InMemory: true})
	if err != nil {
		t.Fatalf("NewBadgerSessionStore failed: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("closing session store: %v", err)
		}
	})
	return store
}

func testSessionUser(id string) *SessionUser {
	return &SessionUser{ID: id, Email: id + "@example.com", Username: id}
}

func TestSessionCreateAndGet(t *testing.T) {
	store := setupSessionStore(t)
	ctx := context.Background()

	session := NewSession(testSessionUser("user-1"), time.Hour)
	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.UserID != "user-1" || got.Email != "user-1@example.com" {
		t.Errorf("session = %+v", got)
	}
}

func TestSessionGetMissing(t *testing.T) {
	store := setupSessionStore(t)

	_, err := store.Get(context.Background(), "no-such-session")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionGetExpired(t *testing.T) {
	store := setupSessionStore(t)
	ctx := context.Background()

	session := NewSession(testSessionUser("user-1"), -time.Minute)
	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := store.Get(ctx, session.ID)
	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
}

func TestSessionDelete(t *testing.T) {
	store := setupSessionStore(t)
	ctx := context.Background()

	session := NewSession(testSessionUser("user-1"), time.Hour)
	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Delete(ctx, session.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := store.Get(ctx, session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestSessionDeleteByUser(t *testing.T) {
	store := setupSessionStore(t)
	ctx := context.Background()

	var userSessions []*Session
	for i := 0; i < 3; i++ {
		s := NewSession(testSessionUser("user-1"), time.Hour)
		if err := store.Create(ctx, s); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		userSessions = append(userSessions, s)
	}
	other := NewSession(testSessionUser("user-2"), time.Hour)
	if err := store.Create(ctx, other); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.DeleteByUser(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteByUser failed: %v", err)
	}

	for _, s := range userSessions {
		if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("session %s survived DeleteByUser: %v", s.ID, err)
		}
	}
	if _, err := store.Get(ctx, other.ID); err != nil {
		t.Errorf("other user's session was deleted: %v", err)
	}
}

func TestSessionDeleteExpired(t *testing.T) {
	store := setupSessionStore(t)
	ctx := context.Background()

	expired := NewSession(testSessionUser("user-1"), -time.Minute)
	live := NewSession(testSessionUser("user-2"), time.Hour)
	for _, s := range []*Session{expired, live} {
		if err := store.Create(ctx, s); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	deleted, err := store.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("DeleteExpired failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted %d sessions, want 1", deleted)
	}

	if _, err := store.Get(ctx, expired.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expired session still retrievable: %v", err)
	}
	if _, err := store.Get(ctx, live.ID); err != nil {
		t.Errorf("live session was reaped: %v", err)
	}
}
