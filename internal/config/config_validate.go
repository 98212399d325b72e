// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package config

import (
	"fmt"
	"net/netip"
	"time"
)

// Validate checks that required configuration is present and valid.
// A validation failure at startup is fatal; the process must not serve
// traffic with a broken configuration.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateMongo(); err != nil {
		return err
	}

	if err := c.validateUpstreams(); err != nil {
		return err
	}

	if err := c.validateRefresh(); err != nil {
		return err
	}

	if err := c.validateNATS(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates HTTP server settings.
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Environment != "development" && c.Server.Environment != "production" {
		return fmt.Errorf("APP_ENV must be 'development' or 'production', got %q", c.Server.Environment)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// validateMongo validates MongoDB connection settings.
func (c *Config) validateMongo() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if err := validateMongoURI(c.Mongo.URI); err != nil {
		return fmt.Errorf("MONGO_URI is invalid: %w", err)
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("MONGO_DB must not be empty")
	}
	if c.Mongo.ConnectTimeout <= 0 {
		return fmt.Errorf("MONGO_CONNECT_TIMEOUT must be positive")
	}
	return nil
}

// validateUpstreams validates the content fetcher endpoints.
func (c *Config) validateUpstreams() error {
	if c.TED.URL == "" {
		return fmt.Errorf("TED_API_URL is required")
	}
	if err := validateAPIURL(c.TED.URL, "TED_API_URL"); err != nil {
		return err
	}
	if c.TED.Timeout <= 0 {
		return fmt.Errorf("TED_TIMEOUT must be positive")
	}

	if c.ProPublica.URL == "" {
		return fmt.Errorf("PROPUBLICA_API_URL is required")
	}
	if err := validateAPIURL(c.ProPublica.URL, "PROPUBLICA_API_URL"); err != nil {
		return err
	}
	if c.ProPublica.Query == "" {
		return fmt.Errorf("PROPUBLICA_QUERY must not be empty")
	}
	if c.ProPublica.Timeout <= 0 {
		return fmt.Errorf("PROPUBLICA_TIMEOUT must be positive")
	}

	return nil
}

// Refresh interval bounds. The lower bound keeps a misconfigured interval
// from hammering the upstream APIs.
const (
	minRefreshInterval = time.Minute
	maxRefreshInterval = 7 * 24 * time.Hour
)

// validateRefresh validates refresh scheduler settings.
func (c *Config) validateRefresh() error {
	if c.Refresh.Interval < minRefreshInterval || c.Refresh.Interval > maxRefreshInterval {
		return fmt.Errorf("REFRESH_INTERVAL must be between 1m and 168h, got %s", c.Refresh.Interval)
	}
	if c.Refresh.Timeout <= 0 {
		return fmt.Errorf("REFRESH_TIMEOUT must be positive")
	}
	return nil
}

const natsMaxSubscribers = 32

// validateNATS validates realtime settings (only if enabled).
func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}

	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}

	if c.NATS.EmbeddedServer {
		if c.NATS.Port < 1 || c.NATS.Port > 65535 {
			return fmt.Errorf("NATS_PORT must be between 1 and 65535, got %d", c.NATS.Port)
		}
		if c.NATS.Host == "" {
			return fmt.Errorf("NATS_HOST must not be empty when NATS_EMBEDDED=true")
		}
	}

	if c.NATS.SubscribersCount < 1 || c.NATS.SubscribersCount > natsMaxSubscribers {
		return fmt.Errorf("NATS_SUBSCRIBERS must be between 1 and %d", natsMaxSubscribers)
	}

	if c.NATS.CloseTimeout <= 0 {
		return fmt.Errorf("NATS_CLOSE_TIMEOUT must be positive")
	}

	return nil
}

// minAdminKeyLength is the minimum accepted admin key length in production.
// Short shared secrets are guessable; refuse to start with one.
const minAdminKeyLength = 16

// validateSecurity validates access-control settings.
func (c *Config) validateSecurity() error {
	if c.Server.IsProduction() {
		if c.Security.AdminKey == "" {
			return fmt.Errorf("ADMIN_KEY is required when APP_ENV=production")
		}
		if len(c.Security.AdminKey) < minAdminKeyLength {
			return fmt.Errorf("ADMIN_KEY must be at least %d characters in production", minAdminKeyLength)
		}
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if c.Security.RateLimitWindow < time.Second {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s")
		}
	}

	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must not be empty (use * to allow all)")
	}

	for _, proxy := range c.Security.TrustedProxies {
		if !validTrustedProxy(proxy) {
			return fmt.Errorf("TRUSTED_PROXIES entry %q is not an IP address or CIDR", proxy)
		}
	}

	return nil
}

// validTrustedProxy accepts a single IP address or a CIDR range.
func validTrustedProxy(entry string) bool {
	if _, err := netip.ParsePrefix(entry); err == nil {
		return true
	}
	_, err := netip.ParseAddr(entry)
	return err == nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration has security concerns
// that should be logged at startup. Wildcard origins are the expected default
// in development; in production they expose the API to any website.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.Server.IsProduction() && c.hasWildcardCORS()
}

// validateLogging validates logging settings.
func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, panic, disabled; got %q", c.Logging.Level)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'console', got %q", c.Logging.Format)
	}

	return nil
}
