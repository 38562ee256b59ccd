// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/screenlog/screenlog/internal/config"
)

func testBreakerClient(t *testing.T, handler http.HandlerFunc) *CircuitBreakerClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewCircuitBreakerClient(config.TMDBConfig{
		BaseURL:   srv.URL,
		APIKey:    "test-key",
		Language:  "en-US",
		Region:    "US",
		Timeout:   5 * time.Second,
		RateLimit: 1000,
		RateBurst: 100,
	})
}

func TestBreakerOpensOnUpstreamFailures(t *testing.T) {
	var calls int
	client := testBreakerClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		if _, err := client.GetPopular(ctx, 1); !errors.Is(err, ErrUpstream) {
			t.Fatalf("call %d: got %v, want ErrUpstream", i, err)
		}
	}

	callsBefore := calls
	_, err := client.GetPopular(ctx, 1)
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("rejected call mapped to %v, want ErrUpstream", err)
	}
	if calls != callsBefore {
		t.Errorf("open breaker still reached upstream (%d -> %d calls)", callsBefore, calls)
	}
}

func TestBreakerIgnoresAnsweredErrors(t *testing.T) {
	var calls int
	client := testBreakerClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	})

	ctx := context.Background()
	for i := 0; i < 15; i++ {
		if _, err := client.GetMovieDetails(ctx, 42); !errors.Is(err, ErrNotFound) {
			t.Fatalf("call %d: got %v, want ErrNotFound", i, err)
		}
	}

	// 404s are answered requests, not outages; the breaker must stay closed.
	if calls != 15 {
		t.Errorf("breaker interfered with answered errors: %d upstream calls, want 15", calls)
	}
}

func TestBreakerPassesThroughSuccess(t *testing.T) {
	client := testBreakerClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"page":1,"results":[],"total_pages":1,"total_results":0}`))
	})

	resp, err := client.GetPopular(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetPopular failed: %v", err)
	}
	if resp.Page != 1 {
		t.Errorf("resp = %+v", resp)
	}
}
