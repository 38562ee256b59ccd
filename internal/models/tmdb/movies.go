// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

// Package tmdb holds the raw wire types for The Movie Database v3 API.
// Field names and JSON tags follow the upstream payloads exactly; presence
// checks on nullable fields use pointers so that a missing field is
// distinguishable from a zero value.
package tmdb

import "encoding/json"

// Genre is a TMDB genre pair as it appears in movie details.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieResult is one row of a paginated movie list (popular, search).
type MovieResult struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	OriginalTitle    string   `json:"original_title"`
	OriginalLanguage string   `json:"original_language"`
	Overview         string   `json:"overview"`
	PosterPath       *string  `json:"poster_path"`
	BackdropPath     *string  `json:"backdrop_path"`
	ReleaseDate      string   `json:"release_date"`
	GenreIDs         []int    `json:"genre_ids"`
	Popularity       *float64 `json:"popularity"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
	Adult            bool     `json:"adult"`
	Video            bool     `json:"video"`
}

// Valid reports whether the row carries every field the cache store requires:
// a positive id, a non-empty title, a poster path, a release date, and a
// numeric popularity. Rows failing this check are skipped, never persisted.
func (m *MovieResult) Valid() bool {
	return m.ID > 0 &&
		m.Title != "" &&
		m.PosterPath != nil && *m.PosterPath != "" &&
		m.ReleaseDate != "" &&
		m.Popularity != nil
}

// MovieListResponse is the standard TMDB pagination envelope.
type MovieListResponse struct {
	Page         int           `json:"page"`
	Results      []MovieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// ProductionCompany appears in movie details.
type ProductionCompany struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	LogoPath      *string `json:"logo_path"`
	OriginCountry string  `json:"origin_country"`
}

// ProductionCountry appears in movie details.
type ProductionCountry struct {
	ISO3166_1 string `json:"iso_3166_1"`
	Name      string `json:"name"`
}

// SpokenLanguage appears in movie details.
type SpokenLanguage struct {
	ISO639_1    string `json:"iso_639_1"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
}

// MovieDetails is the full movie record returned by /movie/{id}.
type MovieDetails struct {
	ID                  int64               `json:"id"`
	Title               string              `json:"title"`
	OriginalTitle       string              `json:"original_title"`
	OriginalLanguage    string              `json:"original_language"`
	Overview            *string             `json:"overview"`
	Tagline             string              `json:"tagline"`
	PosterPath          *string             `json:"poster_path"`
	BackdropPath        *string             `json:"backdrop_path"`
	ReleaseDate         string              `json:"release_date"`
	Runtime             *int                `json:"runtime"`
	Genres              []Genre             `json:"genres"`
	Popularity          *float64            `json:"popularity"`
	VoteAverage         *float64            `json:"vote_average"`
	VoteCount           *int                `json:"vote_count"`
	Adult               bool                `json:"adult"`
	Video               bool                `json:"video"`
	Budget              int64               `json:"budget"`
	Revenue             int64               `json:"revenue"`
	Homepage            string              `json:"homepage"`
	IMDBID              string              `json:"imdb_id"`
	Status              string              `json:"status"`
	BelongsToCollection json.RawMessage     `json:"belongs_to_collection"`
	ProductionCompanies []ProductionCompany `json:"production_companies"`
	ProductionCountries []ProductionCountry `json:"production_countries"`
	SpokenLanguages     []SpokenLanguage    `json:"spoken_languages"`
	OriginCountry       []string            `json:"origin_country"`
}

// Valid reports whether the details record carries the mandatory field set:
// id, title, original title, original language, overview, poster path,
// release date, popularity, vote average, and vote count all present.
func (m *MovieDetails) Valid() bool {
	return m.ID > 0 &&
		m.Title != "" &&
		m.OriginalTitle != "" &&
		m.OriginalLanguage != "" &&
		m.Overview != nil &&
		m.PosterPath != nil && *m.PosterPath != "" &&
		m.ReleaseDate != "" &&
		m.Popularity != nil &&
		m.VoteAverage != nil &&
		m.VoteCount != nil
}

// GenreIDs flattens the details genre pairs to ids, matching list rows.
func (m *MovieDetails) GenreIDs() []int {
	if len(m.Genres) == 0 {
		return nil
	}
	ids := make([]int, 0, len(m.Genres))
	for _, g := range m.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}
