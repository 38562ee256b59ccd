// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

// Package models defines the domain types shared across Screenlog packages:
// cached movie rows, genre pairs, rating summaries, users, and the HTTP
// response envelope. Raw TMDB payload types live in models/tmdb.
package models

import "time"

// Genre is a catalog genre id paired with its display name.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Movie is one catalog entry persisted in the cache store.
//
// Descriptive fields mirror the upstream catalog record and are fully
// overwritten on every refetch. The vote aggregates (VoteAverage, VoteCount)
// are local: they are derived from user votes in the movie_votes table and
// always satisfy VoteCount == number of vote rows for the movie.
type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"originalTitle,omitempty"`
	OriginalLanguage string  `json:"originalLanguage,omitempty"`
	Overview         string  `json:"overview,omitempty"`
	Tagline          string  `json:"tagline,omitempty"`
	PosterPath       string  `json:"posterPath,omitempty"`
	BackdropPath     string  `json:"backdropPath,omitempty"`
	ReleaseDate      string  `json:"releaseDate,omitempty"`
	Runtime          int     `json:"runtime,omitempty"`
	GenreIDs         []int   `json:"genreIds,omitempty"`
	Genres           []Genre `json:"genres,omitempty"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"voteAverage"`
	VoteCount        int     `json:"voteCount"`
	Adult            bool    `json:"adult,omitempty"`
	Video            bool    `json:"video,omitempty"`
	Budget           int64   `json:"budget,omitempty"`
	Revenue          int64   `json:"revenue,omitempty"`
	Homepage         string  `json:"homepage,omitempty"`
	IMDBID           string  `json:"imdbId,omitempty"`
	Status           string  `json:"status,omitempty"`

	// Nested catalog structures, stored as JSON columns on the movie row.
	BelongsToCollection []byte `json:"-"`
	ProductionCompanies []byte `json:"-"`
	ProductionCountries []byte `json:"-"`
	SpokenLanguages     []byte `json:"-"`

	OriginCountry []string  `json:"originCountry,omitempty"`
	CachedAt      time.Time `json:"cachedAt"`
}

// MovieDetail is the denormalized read-side view of a cached movie, with the
// nested JSON columns decoded for the API response.
type MovieDetail struct {
	Movie
	PosterURL           string      `json:"posterUrl,omitempty"`
	BackdropURL         string      `json:"backdropUrl,omitempty"`
	BelongsToCollection interface{} `json:"belongsToCollection,omitempty"`
	ProductionCompanies interface{} `json:"productionCompanies,omitempty"`
	ProductionCountries interface{} `json:"productionCountries,omitempty"`
	SpokenLanguages     interface{} `json:"spokenLanguages,omitempty"`
}

// MovieSummary is the compact list-row shape returned by the popular and
// search endpoints.
type MovieSummary struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"posterPath"`
	ReleaseDate string  `json:"releaseDate"`
	Popularity  float64 `json:"popularity"`
	VoteAverage float64 `json:"voteAverage"`
	VoteCount   int     `json:"voteCount"`
}

// PopularMovies is the popular-list response payload.
type PopularMovies struct {
	Movies []MovieSummary `json:"movies"`
	Total  int            `json:"total"`
}

// MoviePage carries the upstream pagination envelope verbatim alongside the
// transformed search results.
type MoviePage struct {
	Page         int            `json:"page"`
	Results      []MovieSummary `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// RatingSummary is returned after a vote is recorded.
type RatingSummary struct {
	MovieID      int64   `json:"movieId"`
	Score        int     `json:"score"`
	AverageScore float64 `json:"averageScore"`
	TotalVotes   int     `json:"totalVotes"`
}

// Vote is one user's score for one movie.
type Vote struct {
	MovieID   int64     `json:"movieId"`
	UserID    string    `json:"userId"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CacheState is the explicit freshness checkpoint for a batch-refreshed cache
// unit. The popular list uses a single row named "popular": whole-cache-as-unit
// freshness rather than per-row TTLs, so a refresh always replaces the page as
// one consistent set.
type CacheState struct {
	Name        string    `json:"name"`
	RefreshedAt time.Time `json:"refreshedAt"`
	Version     int64     `json:"version"`
}

// User is an authenticated account. PasswordHash never serializes.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
