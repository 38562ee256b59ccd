// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package api

import (
	"net/http"

	"github.com/screenlog/screenlog/internal/auth"
	"github.com/screenlog/screenlog/internal/models"
	"github.com/screenlog/screenlog/internal/validation"
)

// rateRequest is the POST /movies/{id}/rating body.
type rateRequest struct {
	Score int `json:"score" validate:"required,gte=1,lte=10"`
}

// PopularMovies handles GET /api/v1/movies/popular.
//
// @Summary List popular movies
// @Tags movies
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.PopularMovies}
// @Failure 502 {object} models.APIResponse
// @Router /movies/popular [get]
func (h *Handler) PopularMovies(w http.ResponseWriter, r *http.Request) {
	popular, err := h.movies.GetPopular(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, popular)
}

// SearchMovies handles GET /api/v1/movies/search?query=&page=.
//
// @Summary Search movies by title
// @Tags movies
// @Produce json
// @Param query query string false "Title query; blank returns an empty page"
// @Param page query int false "1-based page number"
// @Success 200 {object} models.APIResponse{data=models.MoviePage}
// @Failure 502 {object} models.APIResponse
// @Router /movies/search [get]
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	page := queryIntParam(r, "page", 1)

	result, err := h.movies.Search(r.Context(), query, page)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, result)
}

// MovieByID handles GET /api/v1/movies/{id}.
//
// @Summary Get one movie with full details
// @Tags movies
// @Produce json
// @Param id path int true "Movie ID"
// @Success 200 {object} models.APIResponse{data=models.MovieDetail}
// @Failure 404 {object} models.APIResponse
// @Router /movies/{id} [get]
func (h *Handler) MovieByID(w http.ResponseWriter, r *http.Request) {
	movieID, ok := movieIDParam(r)
	if !ok {
		respondFail(w, http.StatusBadRequest, models.CodeValidationError, "Movie id must be a positive integer")
		return
	}

	movie, err := h.movies.GetByID(r.Context(), movieID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, movie)
}

// RateMovie handles POST /api/v1/movies/{id}/rating. Requires auth; the
// voting user comes from the session, never the request body.
//
// @Summary Rate a movie
// @Tags movies
// @Accept json
// @Produce json
// @Param id path int true "Movie ID"
// @Param body body rateRequest true "Score from 1 to 10"
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=models.RatingSummary}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /movies/{id}/rating [post]
func (h *Handler) RateMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := movieIDParam(r)
	if !ok {
		respondFail(w, http.StatusBadRequest, models.CodeValidationError, "Movie id must be a positive integer")
		return
	}

	user := auth.UserFromContext(r.Context())
	if user == nil {
		respondFail(w, http.StatusUnauthorized, models.CodeInvalidToken, "Authentication required")
		return
	}

	var req rateRequest
	if err := decodeBody(r, &req); err != nil {
		respondFail(w, http.StatusBadRequest, models.CodeValidationError, "Request body must be JSON with a numeric score")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondFail(w, http.StatusBadRequest, models.CodeValidationError, verr.Message())
		return
	}

	summary, err := h.movies.Rate(r.Context(), movieID, user.ID, req.Score)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, summary)
}

// MyRating handles GET /api/v1/movies/{id}/rating: the caller's own vote.
//
// @Summary Get the caller's rating for a movie
// @Tags movies
// @Produce json
// @Param id path int true "Movie ID"
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=models.Vote}
// @Failure 404 {object} models.APIResponse
// @Router /movies/{id}/rating [get]
func (h *Handler) MyRating(w http.ResponseWriter, r *http.Request) {
	movieID, ok := movieIDParam(r)
	if !ok {
		respondFail(w, http.StatusBadRequest, models.CodeValidationError, "Movie id must be a positive integer")
		return
	}

	user := auth.UserFromContext(r.Context())
	if user == nil {
		respondFail(w, http.StatusUnauthorized, models.CodeInvalidToken, "Authentication required")
		return
	}

	vote, err := h.movies.UserRating(r.Context(), movieID, user.ID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, vote)
}
