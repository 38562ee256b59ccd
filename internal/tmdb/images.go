// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package tmdb

import "strings"

// imageBaseURL is the TMDB CDN root for poster and backdrop assets.
const imageBaseURL = "https://image.tmdb.org/t/p/"

// Common poster size segments accepted by the CDN.
const (
	ImageSizeW185     = "w185"
	ImageSizeW342     = "w342"
	ImageSizeW500     = "w500"
	ImageSizeW780     = "w780"
	ImageSizeOriginal = "original"
)

// ImageURL builds a full CDN URL for a stored image path, e.g.
// ImageURL("/abc.jpg", ImageSizeW500). An empty path yields an empty string.
func ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = ImageSizeW500
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return imageBaseURL + size + path
}
