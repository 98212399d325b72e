// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/uplift/config.yaml",
	"/etc/uplift/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development", // Set APP_ENV=production for production checks
		},
		Mongo: MongoConfig{
			URI:            "",
			Database:       "uplift",
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
		},
		TED: TEDConfig{
			URL:     "https://api.ted.com/v1/talks.json",
			APIKey:  "",
			Timeout: 30 * time.Second,
		},
		ProPublica: ProPublicaConfig{
			URL:     "https://projects.propublica.org/nonprofits/api/v2/search.json",
			APIKey:  "",
			Query:   "community development",
			Timeout: 30 * time.Second,
		},
		Refresh: RefreshConfig{
			Interval:  6 * time.Hour,
			OnStartup: true,
			Timeout:   2 * time.Minute,
		},
		NATS: NATSConfig{
			Enabled:          true,
			URL:              "nats://127.0.0.1:4222",
			EmbeddedServer:   true,
			Host:             "127.0.0.1",
			Port:             4222,
			SubscribersCount: 2,
			CloseTimeout:     30 * time.Second,
		},
		Security: SecurityConfig{
			AdminKey:          "",
			CORSOrigins:       []string{"*"},
			TrustedProxies:    []string{},
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// This provides:
//   - Type-safe configuration unmarshaling
//   - Clear precedence: ENV > File > Defaults
//   - Support for nested configuration via koanf struct tags
//   - Flat environment variable names mapped onto the nested structure
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// Transform environment variable names to koanf paths:
	// MONGO_URI -> mongo.uri
	// REFRESH_INTERVAL -> refresh.interval
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// Search default paths
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// If it's already a slice (from YAML file), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		// If it's a string, split by comma
		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables are dropped so random environment variables never pollute
// the configuration.
//
// Examples:
//   - PORT -> server.port
//   - MONGO_URI -> mongo.uri
//   - TED_API_KEY -> ted.api_key
//   - REFRESH_INTERVAL -> refresh.interval
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"port":             "server.port",
		"host":             "server.host",
		"http_timeout":     "server.timeout",
		"shutdown_timeout": "server.shutdown_timeout",
		"app_env":          "server.environment",
		"environment":      "server.environment",

		// Mongo mappings
		"mongo_uri":             "mongo.uri",
		"mongo_db":              "mongo.database",
		"mongo_connect_timeout": "mongo.connect_timeout",
		"mongo_max_pool_size":   "mongo.max_pool_size",

		// Upstream talks API mappings
		"ted_api_url": "ted.url",
		"ted_api_key": "ted.api_key",
		"ted_timeout": "ted.timeout",

		// ProPublica mappings
		"propublica_api_url": "propublica.url",
		"propublica_api_key": "propublica.api_key",
		"propublica_query":   "propublica.query",
		"propublica_timeout": "propublica.timeout",

		// Refresh scheduler mappings
		"refresh_interval":   "refresh.interval",
		"refresh_on_startup": "refresh.on_startup",
		"refresh_timeout":    "refresh.timeout",

		// NATS mappings
		"nats_enabled":       "nats.enabled",
		"nats_url":           "nats.url",
		"nats_embedded":      "nats.embedded_server",
		"nats_host":          "nats.host",
		"nats_port":          "nats.port",
		"nats_subscribers":   "nats.subscribers_count",
		"nats_close_timeout": "nats.close_timeout",

		// Security mappings
		"admin_key":           "security.admin_key",
		"cors_origins":        "security.cors_origins",
		"trusted_proxies":     "security.trusted_proxies",
		"rate_limit_requests": "security.rate_limit_reqs",
		"rate_limit_window":   "security.rate_limit_window",
		"disable_rate_limit":  "security.rate_limit_disabled",
		"rate_limit_disabled": "security.rate_limit_disabled",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	return ""
}
