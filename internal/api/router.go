// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/screenlog/screenlog/internal/auth"
	"github.com/screenlog/screenlog/internal/metrics"
	"github.com/screenlog/screenlog/internal/middleware"
)

// Router wires handlers and middleware into the HTTP surface.
type Router struct {
	handler *Handler
	authMW  *auth.Middleware
}

// NewRouter builds the router over a handler set and auth middleware.
func NewRouter(handler *Handler, authMW *auth.Middleware) *Router {
	return &Router{handler: handler, authMW: authMW}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	cfg := router.handler.cfg
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	rateLimit := httprate.Limit(
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues(r.URL.Path).Inc()
			respondFail(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests")
		}),
	)

	// Health endpoints stay outside rate limiting so probes never starve.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(rateLimit)
		r.Use(middleware.PrometheusMetrics)

		// Tighter limit on credential endpoints against brute force.
		strict := httprate.LimitByIP(10, cfg.Security.RateLimitWindow)
		r.With(strict).Post("/register", router.handler.Register)
		r.With(strict).Post("/login", router.handler.Login)

		r.Group(func(r chi.Router) {
			r.Use(router.authMW.Authenticate)
			r.Post("/logout", router.handler.Logout)
			r.Get("/me", router.handler.Me)
		})
	})

	r.Route("/api/v1/movies", func(r chi.Router) {
		r.Use(rateLimit)
		r.Use(middleware.PrometheusMetrics)

		r.Get("/popular", router.handler.PopularMovies)
		r.Get("/search", router.handler.SearchMovies)
		r.Get("/{id}", router.handler.MovieByID)

		// Voting requires a logged-in user.
		r.With(router.authMW.Authenticate).Post("/{id}/rating", router.handler.RateMovie)
		r.With(router.authMW.Authenticate).Get("/{id}/rating", router.handler.MyRating)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}
