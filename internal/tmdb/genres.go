// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package tmdb

import "github.com/screenlog/screenlog/internal/models"

// movieGenres is the static TMDB movie genre table. The ids are stable
// upstream, so a network round trip to /genre/movie/list is unnecessary.
var movieGenres = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
}

// GenreName resolves a single genre id. Unknown ids resolve to "Unknown"
// rather than failing, so a new upstream genre never breaks a response.
func GenreName(id int) string {
	if name, ok := movieGenres[id]; ok {
		return name
	}
	return "Unknown"
}

// TranslateGenres maps genre ids to id/name pairs, preserving input order.
// A nil or empty input yields an empty, non-nil slice.
func TranslateGenres(ids []int) []models.Genre {
	genres := make([]models.Genre, 0, len(ids))
	for _, id := range ids {
		genres = append(genres, models.Genre{ID: id, Name: GenreName(id)})
	}
	return genres
}
