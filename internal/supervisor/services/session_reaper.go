// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package services

import (
	"context"
	"time"

	"github.com/screenlog/screenlog/internal/auth"
	"github.com/screenlog/screenlog/internal/logging"
)

// SessionReaperService periodically deletes expired sessions from the
// session store. Runs under the maintenance supervisor layer.
type SessionReaperService struct {
	sessions auth.SessionStore
	interval time.Duration
}

// NewSessionReaperService creates the reaper with the given sweep interval.
func NewSessionReaperService(sessions auth.SessionStore, interval time.Duration) *SessionReaperService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SessionReaperService{
		sessions: sessions,
		interval: interval,
	}
}

// Serve implements suture.Service. A failed sweep logs and waits for the
// next tick rather than crashing the service.
func (s *SessionReaperService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			removed, err := s.sessions.DeleteExpired(ctx)
			if err != nil {
				logging.Warn().Err(err).Msg("Session sweep failed")
				continue
			}
			if removed > 0 {
				logging.Info().Int("removed", removed).Msg("Expired sessions removed")
			}
		}
	}
}

// String names the service in supervisor logs.
func (s *SessionReaperService) String() string {
	return "session-reaper"
}
