// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package api

import (
	"net/http"
	"time"

	"github.com/screenlog/screenlog/internal/metrics"
	"github.com/screenlog/screenlog/internal/models"
)

// HealthLive handles GET /api/v1/health/live. Always 200 while the process
// is serving; used as the liveness probe.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, models.HealthStatus{
		Status:  "ok",
		Version: h.version,
	})
}

// HealthReady handles GET /api/v1/health/ready. Reports 503 until the
// database answers a ping; readiness gates traffic, not restarts.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"database": "ok"}
	statusCode := http.StatusOK
	status := "ok"

	if err := h.db.Ping(r.Context()); err != nil {
		checks["database"] = "unavailable"
		statusCode = http.StatusServiceUnavailable
		status = "degraded"
	} else if count, err := h.db.CountMovies(r.Context()); err == nil {
		metrics.CachedMovies.Set(float64(count))
	}

	metrics.AppUptime.Set(time.Since(h.startTime).Seconds())

	respondJSON(w, statusCode, models.APIResponse{
		Status: models.StatusSuccess,
		Data: models.HealthStatus{
			Status:  status,
			Version: h.version,
			Checks:  checks,
		},
	})
}
