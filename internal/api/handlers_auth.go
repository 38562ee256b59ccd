// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/screenlog/screenlog/internal/auth"
	"github.com/screenlog/screenlog/internal/database"
	"github.com/screenlog/screenlog/internal/logging"
	"github.com/screenlog/screenlog/internal/metrics"
	"github.com/screenlog/screenlog/internal/models"
	"github.com/screenlog/screenlog/internal/validation"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=2,max=64"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/v1/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		respondFail(w, http.StatusBadRequest, models.CodeValidationError, "Request body must be valid JSON")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondFail(w, http.StatusBadRequest, models.CodeValidationError, verr.Message())
		return
	}

	hash, err := auth.HashPassword(req.Password, h.cfg.Security.BcryptCost)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	user, err := h.db.CreateUser(r.Context(), req.Email, req.Username, hash)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("register", "failure").Inc()
		if errors.Is(err, database.ErrDuplicateEmail) {
			respondFail(w, http.StatusConflict, models.CodeEmailExists, "An account with this email already exists")
			return
		}
		respondDomainError(w, r, err)
		return
	}

	token, expiresAt, err := h.issueSession(r, user)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	metrics.AuthAttempts.WithLabelValues("register", "success").Inc()
	logging.Ctx(r.Context()).Info().Str("user_id", user.ID).Msg("User registered")
	respondSuccess(w, http.StatusCreated, models.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		User:      user,
	})
}

// Login handles POST /api/v1/auth/login. Unknown email and wrong password
// return the same response so accounts cannot be enumerated.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		respondFail(w, http.StatusBadRequest, models.CodeValidationError, "Request body must be valid JSON")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondFail(w, http.StatusBadRequest, models.CodeValidationError, verr.Message())
		return
	}

	user, err := h.db.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
			respondFail(w, http.StatusUnauthorized, models.CodeInvalidCredentials, "Invalid email or password")
			return
		}
		respondDomainError(w, r, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		respondFail(w, http.StatusUnauthorized, models.CodeInvalidCredentials, "Invalid email or password")
		return
	}

	token, expiresAt, err := h.issueSession(r, user)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	logging.Ctx(r.Context()).Info().Str("user_id", user.ID).Msg("User logged in")
	respondSuccess(w, http.StatusOK, models.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		User:      user,
	})
}

// Logout handles POST /api/v1/auth/logout. Deleting the session invalidates
// the token even though the JWT itself has not expired.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		respondFail(w, http.StatusUnauthorized, models.CodeInvalidToken, "Authentication required")
		return
	}

	if err := h.sessions.DeleteByUser(r.Context(), user.ID); err != nil {
		respondDomainError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("user_id", user.ID).Msg("User logged out")
	respondSuccess(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me handles GET /api/v1/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		respondFail(w, http.StatusUnauthorized, models.CodeInvalidToken, "Authentication required")
		return
	}
	respondSuccess(w, http.StatusOK, user)
}

// issueSession creates a server-side session and a JWT bound to it.
func (h *Handler) issueSession(r *http.Request, user *models.User) (string, time.Time, error) {
	sessionUser := &auth.SessionUser{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
	}

	session := auth.NewSession(sessionUser, h.cfg.Security.SessionTimeout)
	if err := h.sessions.Create(r.Context(), session); err != nil {
		return "", time.Time{}, err
	}

	return h.jwt.GenerateToken(sessionUser, session.ID)
}
