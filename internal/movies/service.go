// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

// Package movies implements the movie aggregator: it decides whether cached
// catalog data is fresh, refetches from TMDB on miss or staleness, persists
// reconciled rows, and records user votes with running-mean aggregates.
package movies

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/screenlog/screenlog/internal/config"
	"github.com/screenlog/screenlog/internal/database"
	"github.com/screenlog/screenlog/internal/logging"
	"github.com/screenlog/screenlog/internal/metrics"
	"github.com/screenlog/screenlog/internal/models"
	tmdbmodels "github.com/screenlog/screenlog/internal/models/tmdb"
	"github.com/screenlog/screenlog/internal/tmdb"
)

// Catalog is the upstream metadata source consumed by the service.
// *tmdb.Client and *tmdb.CircuitBreakerClient both satisfy it.
type Catalog interface {
	GetPopular(ctx context.Context, page int) (*tmdbmodels.MovieListResponse, error)
	SearchMovies(ctx context.Context, query string, page int) (*tmdbmodels.MovieListResponse, error)
	GetMovieDetails(ctx context.Context, movieID int64) (*tmdbmodels.MovieDetails, error)
}

// Store is the cache store contract consumed by the service.
// *database.DB satisfies it.
type Store interface {
	UpsertMovie(ctx context.Context, m *models.Movie) error
	GetMovieByID(ctx context.Context, movieID int64) (*models.Movie, error)
	GetTopMoviesByPopularity(ctx context.Context, limit int) ([]models.Movie, error)
	RecordVote(ctx context.Context, movieID int64, userID string, score int) (*models.RatingSummary, error)
	GetUserVote(ctx context.Context, movieID int64, userID string) (*models.Vote, error)
	GetCacheState(ctx context.Context, name string) (*models.CacheState, error)
	TouchCacheState(ctx context.Context, name string) error
}

// Service is the movie aggregator. It is stateless across requests apart
// from the refresh mutex; all durable state lives in the Store.
type Service struct {
	store   Store
	catalog Catalog
	cfg     config.CacheConfig

	// refreshMu serializes popular-list refreshes so a burst of requests
	// against a stale cache triggers exactly one upstream fetch cycle.
	refreshMu sync.Mutex

	// now is swappable for freshness tests.
	now func() time.Time
}

// NewService builds the aggregator over a store and an upstream catalog.
func NewService(store Store, catalog Catalog, cfg config.CacheConfig) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		cfg:     cfg,
		now:     time.Now,
	}
}

// GetPopular returns the popular-movie list.
//
// The whole list is one cache unit: if the checkpoint row is younger than
// the TTL and cached rows exist, the stored top-N is served with no network
// call. Otherwise one refresh cycle runs: fetch, filter invalid rows, sort
// by popularity, truncate, upsert, checkpoint. A failed refresh fails the
// whole call; stale rows are never served as a fallback.
func (s *Service) GetPopular(ctx context.Context) (*models.PopularMovies, error) {
	if cached, ok := s.popularFromCache(ctx); ok {
		metrics.CacheHits.WithLabelValues("popular").Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues("popular").Inc()

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	// Another request may have completed the refresh while we waited.
	if cached, ok := s.popularFromCache(ctx); ok {
		return cached, nil
	}

	if err := s.refreshPopular(ctx); err != nil {
		return nil, err
	}

	movies, err := s.store.GetTopMoviesByPopularity(ctx, s.cfg.PopularSize)
	if err != nil {
		return nil, fmt.Errorf("reading refreshed popular list: %w", err)
	}
	return popularResponse(movies), nil
}

// popularFromCache serves the stored list when the checkpoint is fresh and
// at least one row exists.
func (s *Service) popularFromCache(ctx context.Context) (*models.PopularMovies, bool) {
	state, err := s.store.GetCacheState(ctx, database.PopularCacheName)
	if err != nil || s.now().Sub(state.RefreshedAt) >= s.cfg.PopularTTL {
		return nil, false
	}

	movies, err := s.store.GetTopMoviesByPopularity(ctx, s.cfg.PopularSize)
	if err != nil || len(movies) == 0 {
		return nil, false
	}
	return popularResponse(movies), true
}

// refreshPopular runs one upstream fetch cycle and checkpoints on success.
func (s *Service) refreshPopular(ctx context.Context) error {
	start := time.Now()

	pages := s.cfg.PopularPages
	if pages < 1 {
		pages = 1
	}

	var results []tmdbmodels.MovieResult
	for page := 1; page <= pages; page++ {
		resp, err := s.catalog.GetPopular(ctx, page)
		if err != nil {
			return fmt.Errorf("fetching popular page %d: %w", page, err)
		}
		for i := range resp.Results {
			if resp.Results[i].Valid() {
				results = append(results, resp.Results[i])
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return *results[i].Popularity > *results[j].Popularity
	})
	if len(results) > s.cfg.PopularSize {
		results = results[:s.cfg.PopularSize]
	}

	for i := range results {
		if err := s.store.UpsertMovie(ctx, movieFromResult(&results[i])); err != nil {
			return fmt.Errorf("caching popular movie %d: %w", results[i].ID, err)
		}
	}

	if err := s.store.TouchCacheState(ctx, database.PopularCacheName); err != nil {
		return fmt.Errorf("checkpointing popular cache: %w", err)
	}

	metrics.CacheRefreshDuration.Observe(time.Since(start).Seconds())
	metrics.CacheLastRefresh.Set(float64(s.now().Unix()))

	logging.Ctx(ctx).Info().
		Int("movies", len(results)).
		Dur("duration", time.Since(start)).
		Msg("Popular cache refreshed")
	return nil
}

// Search runs a live title search against the upstream catalog.
//
// Blank queries short-circuit to an empty page with no network call. Valid
// results are upserted into the cache store as a side effect, warming the
// detail view; search results themselves are never served from cache.
func (s *Service) Search(ctx context.Context, query string, page int) (*models.MoviePage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &models.MoviePage{Page: 1, Results: []models.MovieSummary{}}, nil
	}
	if page < 1 {
		page = 1
	}

	resp, err := s.catalog.SearchMovies(ctx, query, page)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}

	summaries := make([]models.MovieSummary, 0, len(resp.Results))
	for i := range resp.Results {
		r := &resp.Results[i]
		if !r.Valid() {
			continue
		}
		if err := s.store.UpsertMovie(ctx, movieFromResult(r)); err != nil {
			return nil, fmt.Errorf("caching search result %d: %w", r.ID, err)
		}
		summaries = append(summaries, models.MovieSummary{
			ID:          r.ID,
			Title:       r.Title,
			PosterPath:  *r.PosterPath,
			ReleaseDate: r.ReleaseDate,
			Popularity:  *r.Popularity,
		})
	}

	// Pagination envelope passes through from upstream verbatim.
	return &models.MoviePage{
		Page:         resp.Page,
		Results:      summaries,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
	}, nil
}

// GetByID returns one movie, cache-first.
//
// Cached rows are served without a freshness check; a row refreshes only
// when a later search or detail fetch upserts it again. On a cache miss the
// upstream record must carry the full mandatory field set or the call fails
// as an upstream error.
func (s *Service) GetByID(ctx context.Context, movieID int64) (*models.MovieDetail, error) {
	cached, err := s.store.GetMovieByID(ctx, movieID)
	if err == nil {
		metrics.CacheHits.WithLabelValues("movie_detail").Inc()
		return denormalize(cached), nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("looking up movie %d: %w", movieID, err)
	}
	metrics.CacheMisses.WithLabelValues("movie_detail").Inc()

	details, err := s.catalog.GetMovieDetails(ctx, movieID)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return nil, fmt.Errorf("movie %d: %w", movieID, ErrMovieNotFound)
		}
		return nil, fmt.Errorf("fetching movie %d: %w", movieID, err)
	}
	if !details.Valid() {
		return nil, fmt.Errorf("%w: movie %d record is missing mandatory fields", tmdb.ErrUpstream, movieID)
	}

	movie := movieFromDetails(details)
	if err := s.store.UpsertMovie(ctx, movie); err != nil {
		return nil, fmt.Errorf("caching movie %d: %w", movieID, err)
	}
	return denormalize(movie), nil
}

// Rate records a user's score for a cached movie and returns the updated
// aggregate. Voting never creates movie rows: an uncached movie is not found.
func (s *Service) Rate(ctx context.Context, movieID int64, userID string, score int) (*models.RatingSummary, error) {
	if score < 1 || score > 10 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidScore, score)
	}

	summary, err := s.store.RecordVote(ctx, movieID, userID, score)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("movie %d: %w", movieID, ErrMovieNotFound)
		}
		return nil, fmt.Errorf("recording vote for movie %d: %w", movieID, err)
	}

	logging.Ctx(ctx).Debug().
		Int64("movie_id", movieID).
		Int("score", score).
		Float64("average", summary.AverageScore).
		Int("total_votes", summary.TotalVotes).
		Msg("Vote recorded")
	return summary, nil
}

// UserRating returns the vote a user has recorded for a movie, or a
// not-found error when they have not voted on it.
func (s *Service) UserRating(ctx context.Context, movieID int64, userID string) (*models.Vote, error) {
	vote, err := s.store.GetUserVote(ctx, movieID, userID)
	if err != nil {
		return nil, fmt.Errorf("looking up vote for movie %d: %w", movieID, err)
	}
	return vote, nil
}

// movieFromResult converts a validated list row to a cache store row.
// Callers must have checked Valid() first.
func movieFromResult(r *tmdbmodels.MovieResult) *models.Movie {
	return &models.Movie{
		ID:               r.ID,
		Title:            r.Title,
		OriginalTitle:    r.OriginalTitle,
		OriginalLanguage: r.OriginalLanguage,
		Overview:         r.Overview,
		PosterPath:       *r.PosterPath,
		BackdropPath:     deref(r.BackdropPath),
		ReleaseDate:      r.ReleaseDate,
		GenreIDs:         r.GenreIDs,
		Popularity:       *r.Popularity,
		Adult:            r.Adult,
		Video:            r.Video,
	}
}

// movieFromDetails converts a validated detail record to a cache store row.
func movieFromDetails(d *tmdbmodels.MovieDetails) *models.Movie {
	m := &models.Movie{
		ID:               d.ID,
		Title:            d.Title,
		OriginalTitle:    d.OriginalTitle,
		OriginalLanguage: d.OriginalLanguage,
		Overview:         *d.Overview,
		Tagline:          d.Tagline,
		PosterPath:       *d.PosterPath,
		BackdropPath:     deref(d.BackdropPath),
		ReleaseDate:      d.ReleaseDate,
		GenreIDs:         d.GenreIDs(),
		Popularity:       *d.Popularity,
		Adult:            d.Adult,
		Video:            d.Video,
		Budget:           d.Budget,
		Revenue:          d.Revenue,
		Homepage:         d.Homepage,
		IMDBID:           d.IMDBID,
		Status:           d.Status,
		OriginCountry:    d.OriginCountry,
	}
	if d.Runtime != nil {
		m.Runtime = *d.Runtime
	}
	if len(d.BelongsToCollection) > 0 {
		m.BelongsToCollection = d.BelongsToCollection
	}
	m.ProductionCompanies = marshalNested(d.ProductionCompanies)
	m.ProductionCountries = marshalNested(d.ProductionCountries)
	m.SpokenLanguages = marshalNested(d.SpokenLanguages)
	return m
}

// denormalize builds the read-side detail view: genre ids translated to
// pairs, nested JSON columns decoded.
func denormalize(m *models.Movie) *models.MovieDetail {
	detail := &models.MovieDetail{Movie: *m}
	detail.Movie.Genres = tmdb.TranslateGenres(m.GenreIDs)
	detail.PosterURL = tmdb.ImageURL(m.PosterPath, tmdb.ImageSizeW500)
	detail.BackdropURL = tmdb.ImageURL(m.BackdropPath, tmdb.ImageSizeW780)

	detail.BelongsToCollection = unmarshalNested(m.BelongsToCollection)
	detail.ProductionCompanies = unmarshalNested(m.ProductionCompanies)
	detail.ProductionCountries = unmarshalNested(m.ProductionCountries)
	detail.SpokenLanguages = unmarshalNested(m.SpokenLanguages)
	return detail
}

func popularResponse(movies []models.Movie) *models.PopularMovies {
	summaries := make([]models.MovieSummary, 0, len(movies))
	for i := range movies {
		m := &movies[i]
		summaries = append(summaries, models.MovieSummary{
			ID:          m.ID,
			Title:       m.Title,
			PosterPath:  m.PosterPath,
			ReleaseDate: m.ReleaseDate,
			Popularity:  m.Popularity,
			VoteAverage: m.VoteAverage,
			VoteCount:   m.VoteCount,
		})
	}
	return &models.PopularMovies{Movies: summaries, Total: len(summaries)}
}

func marshalNested(v interface{}) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}

func unmarshalNested(raw []byte) interface{} {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
