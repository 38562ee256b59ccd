// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/screenlog/screenlog/internal/metrics"
	"github.com/screenlog/screenlog/internal/models"
)

// movieColumns is the select list shared by the movie readers. List and
// struct columns come back as JSON text so scanning stays uniform across
// driver versions.
const movieColumns = `
	id, title, original_title, original_language, overview, tagline,
	poster_path, backdrop_path, release_date, runtime,
	CAST(to_json(genre_ids) AS VARCHAR), popularity, vote_average, vote_count,
	adult, video, budget, revenue, homepage, imdb_id, status,
	CAST(belongs_to_collection AS VARCHAR),
	CAST(production_companies AS VARCHAR),
	CAST(production_countries AS VARCHAR),
	CAST(spoken_languages AS VARCHAR),
	CAST(to_json(origin_country) AS VARCHAR), cached_at`

// UpsertMovie inserts or refreshes one cached movie row.
//
// On conflict the descriptive columns are overwritten and cached_at is
// bumped; vote_average and vote_count are deliberately left untouched so
// local aggregates survive upstream refetches. A freshly inserted row
// starts at 0/0: aggregates reflect only votes recorded here.
func (db *DB) UpsertMovie(ctx context.Context, m *models.Movie) error {
	start := time.Now()

	query := `
		INSERT INTO movies (
			id, title, original_title, original_language, overview, tagline,
			poster_path, backdrop_path, release_date, runtime, genre_ids,
			popularity, vote_average, vote_count, adult, video, budget,
			revenue, homepage, imdb_id, status, belongs_to_collection,
			production_companies, production_countries, spoken_languages,
			origin_country, cached_at
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CAST(? AS INTEGER[]),
			?, 0, 0, ?, ?, ?, ?, ?, ?, ?, CAST(? AS JSON),
			CAST(? AS JSON), CAST(? AS JSON), CAST(? AS JSON),
			CAST(? AS VARCHAR[]), CURRENT_TIMESTAMP
		)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			original_title = EXCLUDED.original_title,
			original_language = EXCLUDED.original_language,
			overview = EXCLUDED.overview,
			tagline = EXCLUDED.tagline,
			poster_path = EXCLUDED.poster_path,
			backdrop_path = EXCLUDED.backdrop_path,
			release_date = EXCLUDED.release_date,
			runtime = EXCLUDED.runtime,
			genre_ids = EXCLUDED.genre_ids,
			popularity = EXCLUDED.popularity,
			adult = EXCLUDED.adult,
			video = EXCLUDED.video,
			budget = EXCLUDED.budget,
			revenue = EXCLUDED.revenue,
			homepage = EXCLUDED.homepage,
			imdb_id = EXCLUDED.imdb_id,
			status = EXCLUDED.status,
			belongs_to_collection = EXCLUDED.belongs_to_collection,
			production_companies = EXCLUDED.production_companies,
			production_countries = EXCLUDED.production_countries,
			spoken_languages = EXCLUDED.spoken_languages,
			origin_country = EXCLUDED.origin_country,
			cached_at = now()`

	_, err := db.conn.ExecContext(ctx, query,
		m.ID, m.Title, m.OriginalTitle, m.OriginalLanguage, m.Overview, m.Tagline,
		m.PosterPath, m.BackdropPath, m.ReleaseDate, m.Runtime, intArrayLiteral(m.GenreIDs),
		m.Popularity, m.Adult, m.Video, m.Budget,
		m.Revenue, m.Homepage, m.IMDBID, m.Status, jsonOrNull(m.BelongsToCollection),
		jsonOrNull(m.ProductionCompanies), jsonOrNull(m.ProductionCountries), jsonOrNull(m.SpokenLanguages),
		stringArrayLiteral(m.OriginCountry),
	)

	metrics.RecordDBQuery("upsert", "movies", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("upsert movie %d: %w", m.ID, err)
	}
	return nil
}

// GetMovieByID fetches one cached movie row. Returns ErrNotFound when the
// movie has never been cached.
func (db *DB) GetMovieByID(ctx context.Context, movieID int64) (*models.Movie, error) {
	start := time.Now()

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE id = ?`, movieID)

	m, err := scanMovie(row)
	metrics.RecordDBQuery("select", "movies", time.Since(start), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("movie %d: %w", movieID, ErrNotFound)
		}
		return nil, fmt.Errorf("get movie %d: %w", movieID, err)
	}
	return m, nil
}

// GetTopMoviesByPopularity returns up to limit cached movies ordered by
// descending upstream popularity, ties broken by id for stable paging.
func (db *DB) GetTopMoviesByPopularity(ctx context.Context, limit int) ([]models.Movie, error) {
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies ORDER BY popularity DESC, id ASC LIMIT ?`, limit)
	metrics.RecordDBQuery("select", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("top movies: %w", err)
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning movie row: %w", err)
		}
		movies = append(movies, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating movie rows: %w", err)
	}
	return movies, nil
}

// CountMovies returns the number of cached movies.
func (db *DB) CountMovies(ctx context.Context) (int, error) {
	start := time.Now()

	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&count)
	metrics.RecordDBQuery("count", "movies", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return count, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for the shared scan path.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMovie(row rowScanner) (*models.Movie, error) {
	var (
		m                models.Movie
		originalTitle    sql.NullString
		originalLanguage sql.NullString
		overview         sql.NullString
		tagline          sql.NullString
		backdropPath     sql.NullString
		runtime          sql.NullInt32
		genreIDs         sql.NullString
		homepage         sql.NullString
		imdbID           sql.NullString
		status           sql.NullString
		collection       sql.NullString
		companies        sql.NullString
		countries        sql.NullString
		languages        sql.NullString
		originCountry    sql.NullString
	)

	err := row.Scan(
		&m.ID, &m.Title, &originalTitle, &originalLanguage, &overview, &tagline,
		&m.PosterPath, &backdropPath, &m.ReleaseDate, &runtime,
		&genreIDs, &m.Popularity, &m.VoteAverage, &m.VoteCount,
		&m.Adult, &m.Video, &m.Budget, &m.Revenue, &homepage, &imdbID, &status,
		&collection, &companies, &countries, &languages,
		&originCountry, &m.CachedAt,
	)
	if err != nil {
		return nil, err
	}

	m.OriginalTitle = originalTitle.String
	m.OriginalLanguage = originalLanguage.String
	m.Overview = overview.String
	m.Tagline = tagline.String
	m.BackdropPath = backdropPath.String
	m.Runtime = int(runtime.Int32)
	m.Homepage = homepage.String
	m.IMDBID = imdbID.String
	m.Status = status.String

	if genreIDs.Valid && genreIDs.String != "" {
		if err := json.Unmarshal([]byte(genreIDs.String), &m.GenreIDs); err != nil {
			return nil, fmt.Errorf("decoding genre_ids: %w", err)
		}
	}
	if originCountry.Valid && originCountry.String != "" {
		if err := json.Unmarshal([]byte(originCountry.String), &m.OriginCountry); err != nil {
			return nil, fmt.Errorf("decoding origin_country: %w", err)
		}
	}
	if collection.Valid {
		m.BelongsToCollection = []byte(collection.String)
	}
	if companies.Valid {
		m.ProductionCompanies = []byte(companies.String)
	}
	if countries.Valid {
		m.ProductionCountries = []byte(countries.String)
	}
	if languages.Valid {
		m.SpokenLanguages = []byte(languages.String)
	}

	return &m, nil
}

// intArrayLiteral renders ints as a DuckDB list literal, e.g. "[12, 16]".
func intArrayLiteral(ids []int) string {
	if len(ids) == 0 {
		return "[]"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// stringArrayLiteral renders strings as a DuckDB list literal. Values are
// JSON-quoted, which DuckDB accepts for VARCHAR[] casts.
func stringArrayLiteral(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

// jsonOrNull passes raw JSON through, mapping empty to SQL NULL.
func jsonOrNull(raw []byte) interface{} {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return string(raw)
}
