// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

// Package tmdb implements the client for The Movie Database v3 API: typed
// movie list and detail fetches, upstream status classification into
// sentinel errors, a static genre translator, and a circuit breaker wrapper
// for sustained upstream failure.
package tmdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/screenlog/screenlog/internal/config"
	"github.com/screenlog/screenlog/internal/logging"
	"github.com/screenlog/screenlog/internal/metrics"
	tmdbmodels "github.com/screenlog/screenlog/internal/models/tmdb"
)

const (
	// maxResponseBody caps upstream response reads at 10MB. TMDB list pages
	// are a few KB; anything near the cap indicates a broken upstream.
	maxResponseBody = 10 * 1024 * 1024

	// maxErrorBody caps how much of an error body is read for diagnostics.
	maxErrorBody = 4 * 1024
)

// statusMessage is the error envelope TMDB returns on non-2xx statuses.
type statusMessage struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// Client calls the TMDB v3 API. All requests carry the configured language
// and region parameters; callers cannot override them. Requests pass through
// a local token-bucket limiter before hitting the network, and every call is
// bounded by the configured timeout regardless of the caller's context.
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	region     string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds a Client from configuration. The underlying http.Client
// enforces the request timeout; no retries are performed at this layer.
func NewClient(cfg config.TMDBConfig) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		region:   cfg.Region,
		timeout:  cfg.Timeout,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
	}
}

// GetPopular fetches one page of the upstream popular-movie list.
// Page numbers are 1-based; values below 1 are normalized to 1.
func (c *Client) GetPopular(ctx context.Context, page int) (*tmdbmodels.MovieListResponse, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var resp tmdbmodels.MovieListResponse
	if err := c.get(ctx, "/movie/popular", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchMovies runs a title search. Adult results are always excluded.
// The caller is responsible for rejecting empty queries before reaching
// the network; an empty query here returns an empty page without a request.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*tmdbmodels.MovieListResponse, error) {
	if query == "" {
		return &tmdbmodels.MovieListResponse{Page: 1, Results: []tmdbmodels.MovieResult{}}, nil
	}
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")

	var resp tmdbmodels.MovieListResponse
	if err := c.get(ctx, "/search/movie", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetMovieDetails fetches the full record for one movie id.
// An unknown id yields ErrNotFound.
func (c *Client) GetMovieDetails(ctx context.Context, movieID int64) (*tmdbmodels.MovieDetails, error) {
	if movieID <= 0 {
		return nil, fmt.Errorf("%w: movie id must be positive, got %d", ErrInvalidRequest, movieID)
	}
	var resp tmdbmodels.MovieDetails
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", movieID), url.Values{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// get performs one GET against the API and decodes the 2xx body into out.
// Non-2xx statuses map onto the package sentinel errors:
//
//	400, 401 -> ErrInvalidRequest
//	404      -> ErrNotFound
//	429      -> ErrRateLimited
//	other    -> ErrUpstream
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter wait: %v", ErrUpstream, err)
	}

	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)
	params.Set("region", c.region)

	reqURL := c.baseURL + path + "?" + params.Encode()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: building request for %s: %v", ErrUpstream, path, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.TMDBRequestsTotal.WithLabelValues(path, "transport_error").Inc()
		return fmt.Errorf("%w: GET %s: %v", ErrUpstream, path, err)
	}
	defer resp.Body.Close()

	metrics.TMDBRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	metrics.TMDBRequestsTotal.WithLabelValues(path, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(path, resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("%w: reading %s response: %v", ErrUpstream, path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %v", ErrUpstream, path, err)
	}
	return nil
}

// statusError classifies a non-2xx response, keeping the upstream status
// message when one is present.
func (c *Client) statusError(path string, resp *http.Response) error {
	var sentinel error
	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized:
		sentinel = ErrInvalidRequest
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusTooManyRequests:
		sentinel = ErrRateLimited
	default:
		sentinel = ErrUpstream
	}

	msg := ""
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil && len(body) > 0 {
		var sm statusMessage
		if json.Unmarshal(body, &sm) == nil && sm.StatusMessage != "" {
			msg = sm.StatusMessage
		}
	}

	logging.Warn().
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("upstream_message", msg).
		Msg("TMDB request failed")

	if msg != "" {
		return fmt.Errorf("%w: GET %s: status %d: %s", sentinel, path, resp.StatusCode, msg)
	}
	return fmt.Errorf("%w: GET %s: status %d", sentinel, path, resp.StatusCode)
}
