// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// validTestConfig returns defaults patched to pass validation.
func validTestConfig() *Config {
	cfg := defaultConfig()
	cfg.TMDB.APIKey = "test-api-key"
	cfg.Security.JWTSecret = "test-secret-key-at-least-32-chars-long"
	return cfg
}

func TestValidateDefaults(t *testing.T) {
	if err := validTestConfig().Validate(); err != nil {
		t.Errorf("patched defaults should validate: %v", err)
	}
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing api key", func(c *Config) { c.TMDB.APIKey = "" }, "tmdb.api_key"},
		{"bad base url", func(c *Config) { c.TMDB.BaseURL = "not a url" }, "tmdb.base_url"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"short jwt secret", func(c *Config) { c.Security.JWTSecret = "short" }, "jwt_secret"},
		{"zero ttl", func(c *Config) { c.Cache.PopularTTL = 0 }, "popular_ttl"},
		{"zero cache size", func(c *Config) { c.Cache.PopularSize = 0 }, "popular_size"},
		{"zero pages", func(c *Config) { c.Cache.PopularPages = 0 }, "popular_pages"},
		{"bcrypt cost too low", func(c *Config) { c.Security.BcryptCost = 2 }, "bcrypt_cost"},
		{"no session path", func(c *Config) { c.Sessions.Path = ""; c.Sessions.InMemory = false }, "sessions.path"},
		{"no database path", func(c *Config) { c.Database.Path = "" }, "database.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 8600}
	if got := cfg.Addr(); got != "127.0.0.1:8600" {
		t.Errorf("Addr() = %q", got)
	}
}

func TestLoadLayersEnvOverFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9000
tmdb:
  api_key: file-key
  language: de-DE
security:
  jwt_secret: file-secret-key-at-least-32-chars!!
sessions:
  in_memory: true
`
	if err := os.WriteFile(configPath, []byte(yaml), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("TMDB_API_KEY", "env-key")
	t.Setenv("POPULAR_CACHE_TTL", "1h")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("file value lost: port = %d", cfg.Server.Port)
	}
	if cfg.TMDB.Language != "de-DE" {
		t.Errorf("file value lost: language = %q", cfg.TMDB.Language)
	}
	if cfg.TMDB.APIKey != "env-key" {
		t.Errorf("env must override file: api_key = %q", cfg.TMDB.APIKey)
	}
	if cfg.Cache.PopularTTL != time.Hour {
		t.Errorf("env duration not parsed: ttl = %s", cfg.Cache.PopularTTL)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("comma-separated origins not split: %v", cfg.Security.CORSOrigins)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("tmdb:\n  api_key: \"\"\n"), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("expected validation failure without an API key")
	}
}

func TestEnvTransformIgnoresUnknown(t *testing.T) {
	if got := envTransformFunc("PATH"); got != "" {
		t.Errorf("unrelated env var mapped to %q", got)
	}
	if got := envTransformFunc("TMDB_API_KEY"); got != "tmdb.api_key" {
		t.Errorf("TMDB_API_KEY mapped to %q", got)
	}
}
