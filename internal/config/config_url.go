// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validateAPIURL validates that an upstream API endpoint is properly formatted.
// Validates: scheme (http/https), host present. Paths are allowed since the
// upstream endpoints include them; query parameters are not, because
// credentials and search terms are attached per request.
func validateAPIURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}

	return nil
}

// validateMongoURI validates that the MongoDB connection string is properly
// formatted. Supports the mongodb:// and mongodb+srv:// schemes.
func validateMongoURI(rawURI string) error {
	if !strings.HasPrefix(rawURI, "mongodb://") && !strings.HasPrefix(rawURI, "mongodb+srv://") {
		return fmt.Errorf("scheme must be mongodb or mongodb+srv")
	}

	parsedURI, err := url.Parse(rawURI)
	if err != nil {
		return fmt.Errorf("failed to parse URI: %w", err)
	}

	if parsedURI.Host == "" {
		return fmt.Errorf("host is required (e.g., localhost:27017)")
	}

	return nil
}

// validateNATSURL validates that the NATS URL is properly formatted.
// Supports: nats://, tls://, and ws:// schemes with IP addresses/hostnames and optional ports.
func validateNATSURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	validSchemes := map[string]bool{"nats": true, "tls": true, "ws": true, "wss": true}
	if !validSchemes[parsedURL.Scheme] {
		return fmt.Errorf("scheme must be nats, tls, ws, or wss, got: %s", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("host is required (e.g., localhost:4222, nats.example.com)")
	}

	return nil
}
