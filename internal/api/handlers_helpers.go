// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/screenlog/screenlog/internal/database"
	"github.com/screenlog/screenlog/internal/logging"
	"github.com/screenlog/screenlog/internal/models"
	"github.com/screenlog/screenlog/internal/movies"
	"github.com/screenlog/screenlog/internal/tmdb"
)

// respondJSON writes the envelope with the given status code.
func respondJSON(w http.ResponseWriter, statusCode int, resp models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondSuccess writes a success envelope around data.
func respondSuccess(w http.ResponseWriter, statusCode int, data interface{}) {
	respondJSON(w, statusCode, models.APIResponse{
		Status: models.StatusSuccess,
		Data:   data,
	})
}

// respondFail writes a client-failure envelope (status "fail").
func respondFail(w http.ResponseWriter, statusCode int, errorCode, message string) {
	respondJSON(w, statusCode, models.APIResponse{
		Status:    models.StatusFail,
		Message:   message,
		ErrorCode: errorCode,
	})
}

// respondDomainError classifies a service-layer error onto an HTTP status
// and stable error code. 4xx responses use status "fail", 5xx "error".
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode, errorCode, message := classifyError(err)

	envelope := models.StatusFail
	if statusCode >= 500 {
		envelope = models.StatusError
		logging.Ctx(r.Context()).Error().Err(err).Msg("Request failed")
	} else {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Request rejected")
	}

	respondJSON(w, statusCode, models.APIResponse{
		Status:    envelope,
		Message:   message,
		ErrorCode: errorCode,
	})
}

// classifyError maps domain sentinel errors to HTTP semantics. Internal
// error text never leaks to clients on 5xx paths.
func classifyError(err error) (statusCode int, errorCode, message string) {
	switch {
	case errors.Is(err, movies.ErrInvalidScore):
		return http.StatusBadRequest, models.CodeValidationError, "Score must be an integer between 1 and 10"
	case errors.Is(err, movies.ErrMovieNotFound):
		return http.StatusNotFound, models.CodeMovieNotFound, "Movie not found"
	case errors.Is(err, tmdb.ErrNotFound):
		return http.StatusNotFound, models.CodeResourceNotFound, "Resource not found"
	case errors.Is(err, tmdb.ErrRateLimited):
		return http.StatusTooManyRequests, models.CodeRateLimitExceeded, "Upstream rate limit exceeded, try again shortly"
	case errors.Is(err, tmdb.ErrInvalidRequest), errors.Is(err, tmdb.ErrUpstream):
		return http.StatusBadGateway, models.CodeExternalAPIError, "Movie catalog is temporarily unavailable"
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound, models.CodeResourceNotFound, "Resource not found"
	case errors.Is(err, database.ErrDuplicateEmail):
		return http.StatusConflict, models.CodeEmailExists, "An account with this email already exists"
	default:
		return http.StatusInternalServerError, models.CodeInternalServer, "Internal server error"
	}
}

// movieIDParam parses the {id} URL parameter as a positive integer.
func movieIDParam(r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryIntParam parses an optional integer query parameter with a default.
func queryIntParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// decodeBody decodes a JSON request body, rejecting unknown fields.
func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
