// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package tmdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/screenlog/screenlog/internal/config"
	"github.com/screenlog/screenlog/internal/logging"
	"github.com/screenlog/screenlog/internal/metrics"
	tmdbmodels "github.com/screenlog/screenlog/internal/models/tmdb"
)

// CircuitBreakerClient wraps Client with a circuit breaker so that a
// sustained TMDB outage fails fast instead of tying up request goroutines
// on 10-second timeouts.
//
// The breaker uses real time (via sony/gobreaker) for its interval and
// timeout calculations. Unit tests should exercise the wrapped client
// directly rather than waiting out breaker state transitions.
type CircuitBreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerClient creates a TMDB client with circuit breaker:
// max 3 requests in half-open state, 1 minute measurement window, 2 minute
// recovery timeout, opening at a 60% failure rate over at least 10 requests.
func NewCircuitBreakerClient(cfg config.TMDBConfig) *CircuitBreakerClient {
	client := NewClient(cfg)
	cbName := "tmdb-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		// Requests the upstream answered, even unfavorably, are not outages.
		// Only transport failures and 5xx-class errors count toward tripping.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			return errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidRequest) || errors.Is(err, ErrRateLimited)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// execute wraps a TMDB API call with circuit breaker protection.
// A rejected call (open circuit or half-open saturation) surfaces as
// ErrUpstream so callers classify it like any other upstream outage.
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(func() (interface{}, error) {
		return fn()
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, fmt.Errorf("%w: circuit breaker: %v", ErrUpstream, err)
		}

		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()

		counts := cbc.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)

	return result, nil
}

// castResult safely type-casts the circuit breaker result with error checking.
func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// GetPopular fetches a popular-movie page with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetPopular(ctx context.Context, page int) (*tmdbmodels.MovieListResponse, error) {
	return castResult[tmdbmodels.MovieListResponse](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetPopular(ctx, page)
	}))
}

// SearchMovies runs a title search with circuit breaker protection.
func (cbc *CircuitBreakerClient) SearchMovies(ctx context.Context, query string, page int) (*tmdbmodels.MovieListResponse, error) {
	return castResult[tmdbmodels.MovieListResponse](cbc.execute(func() (interface{}, error) {
		return cbc.client.SearchMovies(ctx, query, page)
	}))
}

// GetMovieDetails fetches a movie record with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetMovieDetails(ctx context.Context, movieID int64) (*tmdbmodels.MovieDetails, error) {
	return castResult[tmdbmodels.MovieDetails](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetMovieDetails(ctx, movieID)
	}))
}
