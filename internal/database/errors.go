// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package database

import "errors"

var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("database: not found")

	// ErrDuplicateEmail indicates a user row already exists for the email.
	ErrDuplicateEmail = errors.New("database: email already registered")
)
