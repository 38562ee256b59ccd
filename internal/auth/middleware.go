// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/screenlog/screenlog/internal/logging"
	"github.com/screenlog/screenlog/internal/models"
)

type contextKey string

// userContextKey carries the authenticated *SessionUser.
const userContextKey contextKey = "auth_user"

// Middleware authenticates requests against a JWT and its backing session.
type Middleware struct {
	jwt      *JWTManager
	sessions SessionStore
}

// NewMiddleware builds the authentication middleware.
func NewMiddleware(jwt *JWTManager, sessions SessionStore) *Middleware {
	return &Middleware{jwt: jwt, sessions: sessions}
}

// Authenticate requires a valid Bearer token whose session still exists.
// A token that parses but whose session was deleted (logout) is rejected,
// which is what makes logout effective despite stateless JWTs.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			unauthorized(w, "Missing authorization token")
			return
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Token validation failed")
			unauthorized(w, "Invalid or expired token")
			return
		}

		if _, err := m.sessions.Get(r.Context(), claims.SessionID); err != nil {
			unauthorized(w, "Session is no longer active")
			return
		}

		user := &SessionUser{
			ID:       claims.UserID,
			Email:    claims.Email,
			Username: claims.Username,
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated user, or nil outside
// Authenticate-wrapped routes.
func UserFromContext(ctx context.Context) *SessionUser {
	if user, ok := ctx.Value(userContextKey).(*SessionUser); ok {
		return user
	}
	return nil
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(models.APIResponse{
		Status:    models.StatusFail,
		Message:   message,
		ErrorCode: models.CodeInvalidToken,
	})
}
