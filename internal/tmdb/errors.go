// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package tmdb

import "errors"

// Sentinel errors mapping the upstream HTTP status classes. Callers classify
// failures with errors.Is; the original status code and upstream message are
// preserved in the wrapping error text.
var (
	// ErrInvalidRequest covers 400 and 401 responses: a malformed request or
	// a rejected API key. Both indicate a problem on our side of the call.
	ErrInvalidRequest = errors.New("tmdb: invalid request")

	// ErrNotFound covers 404 responses for a movie id that does not exist
	// upstream.
	ErrNotFound = errors.New("tmdb: resource not found")

	// ErrRateLimited covers 429 responses. The client does not retry;
	// the caller decides whether to surface or degrade.
	ErrRateLimited = errors.New("tmdb: rate limited")

	// ErrUpstream covers every other non-2xx status plus transport-level
	// failures (timeouts, connection resets, malformed bodies).
	ErrUpstream = errors.New("tmdb: upstream error")
)
