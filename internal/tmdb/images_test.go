// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package tmdb

import "testing"

func TestImageURL(t *testing.T) {
	tests := []struct {
		name string
		path string
		size string
		want string
	}{
		{"standard poster", "/abc.jpg", ImageSizeW500, "https://image.tmdb.org/t/p/w500/abc.jpg"},
		{"original size", "/abc.jpg", ImageSizeOriginal, "https://image.tmdb.org/t/p/original/abc.jpg"},
		{"missing leading slash", "abc.jpg", ImageSizeW185, "https://image.tmdb.org/t/p/w185/abc.jpg"},
		{"empty size defaults to w500", "/abc.jpg", "", "https://image.tmdb.org/t/p/w500/abc.jpg"},
		{"empty path", "", ImageSizeW500, ""},
		{"empty path and size", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ImageURL(tt.path, tt.size); got != tt.want {
				t.Errorf("ImageURL(%q, %q) = %q, want %q", tt.path, tt.size, got, tt.want)
			}
		})
	}
}
