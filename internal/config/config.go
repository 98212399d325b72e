// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package config

import (
	"time"
)

// Config holds all application configuration loaded from environment variables and config files.
// Provides centralized configuration management for all application components including
// the HTTP server, MongoDB storage, upstream content APIs, the refresh scheduler, the
// realtime layer, security, and logging.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Example - Load configuration from environment:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load config")
//	}
//	// cfg.Mongo.URI, cfg.Server.Port, etc. are now populated
//
// Validation:
// Load() validates all required fields and returns an error if:
//   - The MongoDB connection string is missing or malformed
//   - The admin key is missing while running in production mode
//   - Values are out of range (ports, intervals, limits)
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access from
// multiple goroutines.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Mongo      MongoConfig      `koanf:"mongo"`
	TED        TEDConfig        `koanf:"ted"`
	ProPublica ProPublicaConfig `koanf:"propublica"`
	Refresh    RefreshConfig    `koanf:"refresh"`
	NATS       NATSConfig       `koanf:"nats"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - PORT: Listen port (default: 5000)
//   - HOST: Bind address (default: 0.0.0.0)
//   - HTTP_TIMEOUT: Read/write timeout (default: 30s)
//   - SHUTDOWN_TIMEOUT: Graceful shutdown drain budget (default: 15s)
//   - APP_ENV: "development" or "production" (default: development).
//     Production mode enforces admin gating on refresh routes and
//     redacts error detail from API responses.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// IsProduction reports whether the server runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// MongoConfig holds MongoDB connection settings.
//
// Environment Variables:
//   - MONGO_URI: Connection string (required, e.g. mongodb://localhost:27017)
//   - MONGO_DB: Database name (default: uplift)
//   - MONGO_CONNECT_TIMEOUT: Initial connect/ping budget (default: 10s)
//   - MONGO_MAX_POOL_SIZE: Connection pool ceiling (default: 100)
type MongoConfig struct {
	URI            string        `koanf:"uri"`
	Database       string        `koanf:"database"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	MaxPoolSize    uint64        `koanf:"max_pool_size"`
}

// TEDConfig holds settings for the upstream talks API.
//
// Environment Variables:
//   - TED_API_URL: Talks endpoint (default: the public talks API)
//   - TED_API_KEY: API key sent as the api-key query parameter
//   - TED_TIMEOUT: Per-request client timeout (default: 30s)
type TEDConfig struct {
	URL     string        `koanf:"url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`
}

// ProPublicaConfig holds settings for the ProPublica Nonprofit Explorer
// search API.
//
// Environment Variables:
//   - PROPUBLICA_API_URL: Search endpoint (default: the public v2 search API)
//   - PROPUBLICA_API_KEY: Optional API key sent as X-API-Key
//   - PROPUBLICA_QUERY: Fixed search term for the cached NGO set
//     (default: "community development")
//   - PROPUBLICA_TIMEOUT: Per-request client timeout (default: 30s)
type ProPublicaConfig struct {
	URL     string        `koanf:"url"`
	APIKey  string        `koanf:"api_key"`
	Query   string        `koanf:"query"`
	Timeout time.Duration `koanf:"timeout"`
}

// RefreshConfig holds content refresh scheduler settings.
//
// Environment Variables:
//   - REFRESH_INTERVAL: Period between background refreshes (default: 6h)
//   - REFRESH_ON_STARTUP: Run an initial refresh before the timer starts
//     (default: true)
//   - REFRESH_TIMEOUT: Budget for a single refresh run (default: 2m)
type RefreshConfig struct {
	Interval  time.Duration `koanf:"interval"`
	OnStartup bool          `koanf:"on_startup"`
	Timeout   time.Duration `koanf:"timeout"`
}

// NATSConfig holds realtime messaging settings. The chat relay publishes
// stored messages over NATS and bridges them to WebSocket clients; with
// Enabled=false chat messages are persisted but not relayed.
//
// Environment Variables:
//   - NATS_ENABLED: Master toggle for the realtime layer (default: true)
//   - NATS_URL: Broker URL (default: nats://127.0.0.1:4222)
//   - NATS_EMBEDDED: Run an in-process broker instead of connecting to an
//     external one (default: true)
//   - NATS_HOST / NATS_PORT: Bind address for the embedded broker
//   - NATS_SUBSCRIBERS: Bridge subscriber goroutines (default: 2)
//   - NATS_CLOSE_TIMEOUT: Publisher/subscriber close budget (default: 30s)
type NATSConfig struct {
	Enabled          bool          `koanf:"enabled"`
	URL              string        `koanf:"url"`
	EmbeddedServer   bool          `koanf:"embedded_server"`
	Host             string        `koanf:"host"`
	Port             int           `koanf:"port"`
	SubscribersCount int           `koanf:"subscribers_count"`
	CloseTimeout     time.Duration `koanf:"close_timeout"`
}

// SecurityConfig holds access-control and rate limiting settings.
//
// Environment Variables:
//   - ADMIN_KEY: Shared secret for the refresh endpoints, presented in the
//     X-Admin-Key header. Required in production mode; enforcement is
//     skipped outside production.
//   - CORS_ORIGINS: Comma-separated allowed origins (default: *)
//   - TRUSTED_PROXIES: Comma-separated proxy CIDRs for client IP resolution
//   - RATE_LIMIT_REQUESTS: Requests per window per IP (default: 100)
//   - RATE_LIMIT_WINDOW: Rate limit window (default: 1m)
//   - DISABLE_RATE_LIMIT: Turn off rate limiting entirely (default: false)
type SecurityConfig struct {
	AdminKey          string        `koanf:"admin_key"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: Include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
