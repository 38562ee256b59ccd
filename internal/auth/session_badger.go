// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/screenlog/screenlog/internal/config"
	"github.com/screenlog/screenlog/internal/logging"
	"github.com/screenlog/screenlog/internal/metrics"
)

// Key prefixes for BadgerDB storage.
const (
	sessionKeyPrefix     = "session:"
	sessionUserKeyPrefix = "session_user:"
)

// BadgerSessionStore implements SessionStore on BadgerDB, giving sessions
// durability across restarts. The sessions.in_memory config flag swaps in
// a non-persistent Badger instance for tests and ephemeral deployments.
type BadgerSessionStore struct {
	db *badger.DB
}

// NewBadgerSessionStore opens the session database per configuration.
func NewBadgerSessionStore(cfg *config.SessionsConfig) (*BadgerSessionStore, error) {
	opts := badger.DefaultOptions(cfg.Path).
		WithLogger(nil)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").
			WithInMemory(true).
			WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}
	return &BadgerSessionStore{db: db}, nil
}

// Create stores a new session and its user index entry.
func (s *BadgerSessionStore) Create(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		sessionKey := []byte(sessionKeyPrefix + session.ID)
		if err := txn.Set(sessionKey, data); err != nil {
			return fmt.Errorf("set session: %w", err)
		}

		// User-to-session mapping for logout-everywhere.
		userKey := []byte(sessionUserKeyPrefix + session.UserID + ":" + session.ID)
		if err := txn.Set(userKey, []byte(session.ID)); err != nil {
			return fmt.Errorf("set user mapping: %w", err)
		}

		return nil
	})
	if err == nil {
		metrics.ActiveSessions.Inc()
	}
	return err
}

// Get retrieves a session by ID. Expired sessions surface as
// ErrSessionExpired without being deleted; the cleanup routine reaps them.
func (s *BadgerSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	var session Session

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &session)
		})
	})
	if err != nil {
		return nil, err
	}

	if session.IsExpired() {
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// Delete removes a session and its user index entry.
func (s *BadgerSessionStore) Delete(ctx context.Context, id string) error {
	var session Session
	found := false

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // already gone
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &session)
		}); err != nil {
			return err
		}
		found = true

		if err := txn.Delete([]byte(sessionKeyPrefix + id)); err != nil {
			return err
		}
		return txn.Delete([]byte(sessionUserKeyPrefix + session.UserID + ":" + id))
	})
	if err == nil && found {
		metrics.ActiveSessions.Dec()
	}
	return err
}

// DeleteByUser removes all sessions belonging to a user.
func (s *BadgerSessionStore) DeleteByUser(ctx context.Context, userID string) error {
	prefix := []byte(sessionUserKeyPrefix + userID + ":")

	var sessionIDs []string
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := it.Item().Value(func(val []byte) error {
				sessionIDs = append(sessionIDs, string(val))
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("listing sessions for user %s: %w", userID, err)
	}

	for _, id := range sessionIDs {
		if err := s.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// DeleteExpired reaps sessions past their expiry, returning how many were
// removed.
func (s *BadgerSessionStore) DeleteExpired(ctx context.Context) (int, error) {
	prefix := []byte(sessionKeyPrefix)

	var expired []string
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var session Session
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &session)
			}); err != nil {
				continue // skip undecodable entries
			}
			if session.IsExpired() {
				expired = append(expired, session.ID)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scanning sessions: %w", err)
	}

	for _, id := range expired {
		if err := s.Delete(ctx, id); err != nil {
			return 0, err
		}
	}

	if len(expired) > 0 {
		logging.Debug().Int("count", len(expired)).Msg("Expired sessions reaped")
	}
	return len(expired), nil
}

// Close closes the underlying Badger database.
func (s *BadgerSessionStore) Close() error {
	return s.db.Close()
}
