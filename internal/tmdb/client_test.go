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
	"net/url"
	"testing"
	"time"

	"github.com/screenlog/screenlog/internal/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.TMDBConfig{
		BaseURL:   srv.URL,
		APIKey:    "test-key",
		Language:  "en-US",
		Region:    "US",
		Timeout:   5 * time.Second,
		RateLimit: 100,
		RateBurst: 10,
	})
}

func TestGetPopularSendsFixedParams(t *testing.T) {
	var gotQuery url.Values
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":634649,"title":"Spider-Man: No Way Home","poster_path":"/p.jpg","release_date":"2021-12-15","popularity":5083.95}],"total_pages":100,"total_results":2000}`))
	})

	resp, err := client.GetPopular(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetPopular failed: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != 634649 {
		t.Fatalf("unexpected results: %+v", resp.Results)
	}
	if resp.TotalPages != 100 || resp.TotalResults != 2000 {
		t.Errorf("pagination envelope not preserved: %+v", resp)
	}

	for key, want := range map[string]string{
		"api_key":  "test-key",
		"language": "en-US",
		"region":   "US",
		"page":     "1",
	} {
		if got := gotQuery.Get(key); got != want {
			t.Errorf("query param %s = %q, want %q", key, got, want)
		}
	}
}

func TestGetPopularNormalizesPage(t *testing.T) {
	var gotPage string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPage = r.URL.Query().Get("page")
		_, _ = w.Write([]byte(`{"page":1,"results":[],"total_pages":1,"total_results":0}`))
	})

	if _, err := client.GetPopular(context.Background(), -3); err != nil {
		t.Fatalf("GetPopular failed: %v", err)
	}
	if gotPage != "1" {
		t.Errorf("page param = %q, want normalized 1", gotPage)
	}
}

func TestSearchMoviesExcludesAdult(t *testing.T) {
	var gotQuery url.Values
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"page":1,"results":[],"total_pages":1,"total_results":0}`))
	})

	if _, err := client.SearchMovies(context.Background(), "dune", 2); err != nil {
		t.Fatalf("SearchMovies failed: %v", err)
	}
	if gotQuery.Get("include_adult") != "false" {
		t.Errorf("include_adult = %q, want false", gotQuery.Get("include_adult"))
	}
	if gotQuery.Get("query") != "dune" {
		t.Errorf("query = %q, want dune", gotQuery.Get("query"))
	}
	if gotQuery.Get("page") != "2" {
		t.Errorf("page = %q, want 2", gotQuery.Get("page"))
	}
}

func TestSearchMoviesEmptyQuerySkipsNetwork(t *testing.T) {
	called := false
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, _ = w.Write([]byte(`{}`))
	})

	resp, err := client.SearchMovies(context.Background(), "", 1)
	if err != nil {
		t.Fatalf("SearchMovies failed: %v", err)
	}
	if called {
		t.Error("empty query must not reach the network")
	}
	if resp.Page != 1 || len(resp.Results) != 0 {
		t.Errorf("expected empty page, got %+v", resp)
	}
	if resp.TotalPages != 0 || resp.TotalResults != 0 {
		t.Errorf("totals = %d/%d, want 0/0", resp.TotalPages, resp.TotalResults)
	}
}

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"bad request", http.StatusBadRequest, ErrInvalidRequest},
		{"unauthorized", http.StatusUnauthorized, ErrInvalidRequest},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"server error", http.StatusInternalServerError, ErrUpstream},
		{"bad gateway", http.StatusBadGateway, ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"status_code":7,"status_message":"upstream says no"}`))
			})

			_, err := client.GetPopular(context.Background(), 1)
			if !errors.Is(err, tt.want) {
				t.Errorf("status %d mapped to %v, want %v", tt.status, err, tt.want)
			}
		})
	}
}

func TestTransportErrorIsUpstream(t *testing.T) {
	client := NewClient(config.TMDBConfig{
		BaseURL:   "http://127.0.0.1:1", // nothing listens here
		APIKey:    "test-key",
		Language:  "en-US",
		Region:    "US",
		Timeout:   time.Second,
		RateLimit: 100,
		RateBurst: 10,
	})

	_, err := client.GetPopular(context.Background(), 1)
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("transport failure mapped to %v, want ErrUpstream", err)
	}
}

func TestGetMovieDetailsInvalidID(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid id must not reach the network")
	})

	_, err := client.GetMovieDetails(context.Background(), 0)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestGetMovieDetails(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603" {
			t.Errorf("path = %q, want /movie/603", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":603,"title":"The Matrix","original_title":"The Matrix","original_language":"en","poster_path":"/m.jpg","release_date":"1999-03-30","overview":"A hacker learns the truth.","popularity":91.5,"vote_average":8.2,"vote_count":24000,"genres":[{"id":28,"name":"Action"},{"id":878,"name":"Science Fiction"}]}`))
	})

	details, err := client.GetMovieDetails(context.Background(), 603)
	if err != nil {
		t.Fatalf("GetMovieDetails failed: %v", err)
	}
	if details.Title != "The Matrix" {
		t.Errorf("title = %q", details.Title)
	}
	if !details.Valid() {
		t.Error("expected a valid details record")
	}
	if ids := details.GenreIDs(); len(ids) != 2 || ids[0] != 28 || ids[1] != 878 {
		t.Errorf("genre ids = %v, want [28 878]", ids)
	}
}
