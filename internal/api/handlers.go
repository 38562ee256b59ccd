// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

// Package api provides the HTTP surface: Chi routing, request parsing and
// validation, and mapping of domain errors onto the response envelope.
package api

import (
	"time"

	"github.com/screenlog/screenlog/internal/auth"
	"github.com/screenlog/screenlog/internal/config"
	"github.com/screenlog/screenlog/internal/database"
	"github.com/screenlog/screenlog/internal/movies"
)

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	movies    *movies.Service
	db        *database.DB
	jwt       *auth.JWTManager
	sessions  auth.SessionStore
	cfg       *config.Config
	version   string
	startTime time.Time
}

// NewHandler builds the handler set.
func NewHandler(movieService *movies.Service, db *database.DB, jwtManager *auth.JWTManager, sessions auth.SessionStore, cfg *config.Config, version string) *Handler {
	return &Handler{
		movies:    movieService,
		db:        db,
		jwt:       jwtManager,
		sessions:  sessions,
		cfg:       cfg,
		version:   version,
		startTime: time.Now(),
	}
}
