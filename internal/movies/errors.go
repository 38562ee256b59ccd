// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package movies

import "errors"

var (
	// ErrMovieNotFound indicates the movie exists neither in the cache store
	// nor upstream.
	ErrMovieNotFound = errors.New("movies: movie not found")

	// ErrInvalidScore indicates a vote score outside the accepted 1-10 range.
	ErrInvalidScore = errors.New("movies: score must be between 1 and 10")
)
