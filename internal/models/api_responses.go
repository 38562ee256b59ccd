// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package models

// APIResponse is the envelope wrapping every HTTP response body.
//
// Success:        {"status": "success", "data": ...}
// Client failure: {"status": "fail", "message": "...", "errorCode": "..."}
// Server failure: {"status": "error", "message": "...", "errorCode": "..."}
type APIResponse struct {
	Status    string      `json:"status"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	ErrorCode string      `json:"errorCode,omitempty"`
}

// Response status values.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Stable machine-readable error codes carried in the failure envelope.
const (
	CodeValidationError    = "VALIDATION_ERROR"
	CodeMovieNotFound      = "MOVIE_NOT_FOUND"
	CodeResourceNotFound   = "RESOURCE_NOT_FOUND"
	CodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	CodeExternalAPIError   = "EXTERNAL_API_ERROR"
	CodeDatabaseError      = "DATABASE_ERROR"
	CodeInternalServer     = "INTERNAL_SERVER_ERROR"
	CodeInvalidToken       = "AUTH_INVALID_TOKEN"
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeEmailExists        = "AUTH_EMAIL_EXISTS"
)

// TokenResponse is returned by login and register.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
	User      *User  `json:"user,omitempty"`
}

// HealthStatus is the liveness/readiness payload.
type HealthStatus struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}
