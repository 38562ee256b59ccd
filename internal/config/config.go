// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

// Package config provides layered configuration loading for Screenlog using
// Koanf v2. Precedence is ENV > config file > built-in defaults.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	TMDB     TMDBConfig     `koanf:"tmdb"`
	Database DatabaseConfig `koanf:"database"`
	Cache    CacheConfig    `koanf:"cache"`
	Security SecurityConfig `koanf:"security"`
	Sessions SessionsConfig `koanf:"sessions"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// Addr returns the listen address in host:port form.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TMDBConfig holds settings for the outbound TMDB catalog client.
//
// Language and Region are merged into every outbound request as fixed default
// query parameters; caller-supplied parameters never override them.
type TMDBConfig struct {
	BaseURL  string        `koanf:"base_url"`
	APIKey   string        `koanf:"api_key"`
	Language string        `koanf:"language"`
	Region   string        `koanf:"region"`
	Timeout  time.Duration `koanf:"timeout"`

	// RateLimit is the client-side request budget per second against the
	// upstream API. RateBurst bounds short bursts (cache refreshes fetch
	// two pages back to back).
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = use runtime.NumCPU()
}

// CacheConfig controls the popular-list cache behavior.
type CacheConfig struct {
	// PopularTTL is the freshness window for the popular-movie list. The
	// whole list is treated as one cache unit with a single checkpoint.
	PopularTTL time.Duration `koanf:"popular_ttl"`

	// PopularSize is the number of movies kept on the popular list.
	PopularSize int `koanf:"popular_size"`

	// PopularPages is how many upstream pages are fetched per refresh.
	// Two pages gives filtering headroom over a single 20-row page.
	PopularPages int `koanf:"popular_pages"`
}

// SecurityConfig holds authentication and rate-limit settings.
type SecurityConfig struct {
	JWTSecret       string        `koanf:"jwt_secret"`
	SessionTimeout  time.Duration `koanf:"session_timeout"`
	BcryptCost      int           `koanf:"bcrypt_cost"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// SessionsConfig holds the BadgerDB session store settings.
type SessionsConfig struct {
	Path string `koanf:"path"`

	// InMemory runs Badger without disk persistence. Used in tests and
	// development; sessions then do not survive restarts.
	InMemory bool `koanf:"in_memory"`

	// CleanupInterval controls how often expired sessions are purged.
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for invalid or missing values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.TMDB.APIKey == "" {
		return fmt.Errorf("tmdb.api_key is required (set TMDB_API_KEY)")
	}
	if _, err := url.ParseRequestURI(c.TMDB.BaseURL); err != nil {
		return fmt.Errorf("tmdb.base_url is not a valid URL: %w", err)
	}
	if c.TMDB.Timeout <= 0 {
		return fmt.Errorf("tmdb.timeout must be positive, got %s", c.TMDB.Timeout)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Cache.PopularTTL <= 0 {
		return fmt.Errorf("cache.popular_ttl must be positive, got %s", c.Cache.PopularTTL)
	}
	if c.Cache.PopularSize < 1 {
		return fmt.Errorf("cache.popular_size must be at least 1, got %d", c.Cache.PopularSize)
	}
	if c.Cache.PopularPages < 1 {
		return fmt.Errorf("cache.popular_pages must be at least 1, got %d", c.Cache.PopularPages)
	}

	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("security.jwt_secret must be at least 32 characters (got %d)", len(c.Security.JWTSecret))
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("security.session_timeout must be positive, got %s", c.Security.SessionTimeout)
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("security.bcrypt_cost must be between 4 and 31, got %d", c.Security.BcryptCost)
	}

	if !c.Sessions.InMemory && c.Sessions.Path == "" {
		return fmt.Errorf("sessions.path is required unless sessions.in_memory is set")
	}

	return nil
}
