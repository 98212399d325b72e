// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package logging

import (
	"github.com/rs/zerolog"
)

// SecurityLogger provides audit logging for admin-gated operations.
// It never logs credential material; presented keys are masked before
// they reach the log stream.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a new security logger.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{
		logger: WithComponent("admin"),
	}
}

// NewSecurityLoggerWithLogger creates a security logger with a custom zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{
		logger: logger.With().Str("component", "admin").Logger(),
	}
}

// LogAdminAuthFailure records a rejected admin request. The presented key
// is masked with SanitizeToken before logging, so repeated guesses can be
// correlated without the log stream ever holding usable credentials.
func (l *SecurityLogger) LogAdminAuthFailure(ip, userAgent, path, reason, presentedKey string) {
	l.logger.Warn().
		Str("event", "admin_auth_failed").
		Str("ip", ip).
		Str("user_agent", truncateString(userAgent, 100)).
		Str("path", path).
		Str("reason", reason).
		Str("key", SanitizeToken(presentedKey)).
		Msg("Admin request rejected")
}

// LogAdminAction records an accepted admin-gated operation.
func (l *SecurityLogger) LogAdminAction(ip, path, action string) {
	l.logger.Info().
		Str("event", "admin_action").
		Str("ip", ip).
		Str("path", path).
		Str("action", action).
		Msg("Admin request accepted")
}

// SanitizeToken masks a secret, showing only first and last 4 characters.
// Example: "9f8c2d71aa0b44ce" -> "9f8c...44ce"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// truncateString truncates a string to a maximum length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
