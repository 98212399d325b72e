// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSanitizeToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"short", "abc", "***"},
		{"boundary", "123456789012", "***"},
		{"long", "9f8c2d71aa0b44ce", "9f8c...44ce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeToken(tt.input); got != tt.expected {
				t.Errorf("SanitizeToken(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSecurityLoggerAuthFailure(t *testing.T) {
	t.Run("rejection fields reach the log line", func(t *testing.T) {
		var buf bytes.Buffer

		sl := NewSecurityLoggerWithLogger(zerolog.New(&buf))
		sl.LogAdminAuthFailure("203.0.113.9", "curl/8.0", "/api/refresh/ted-talks", "missing_key", "")

		output := buf.String()
		if !strings.Contains(output, "admin_auth_failed") {
			t.Errorf("expected event field in output: %s", output)
		}
		if !strings.Contains(output, "203.0.113.9") {
			t.Errorf("expected ip field in output: %s", output)
		}
		if !strings.Contains(output, "missing_key") {
			t.Errorf("expected reason field in output: %s", output)
		}
	})

	t.Run("presented key is masked", func(t *testing.T) {
		var buf bytes.Buffer

		sl := NewSecurityLoggerWithLogger(zerolog.New(&buf))
		sl.LogAdminAuthFailure("203.0.113.9", "curl/8.0", "/api/refresh/ngos", "invalid_key", "9f8c2d71aa0b44ce")

		output := buf.String()
		if strings.Contains(output, "9f8c2d71aa0b44ce") {
			t.Errorf("raw key leaked into log output: %s", output)
		}
		if !strings.Contains(output, "9f8c...44ce") {
			t.Errorf("expected masked key in output: %s", output)
		}
	})

	t.Run("short guesses collapse to stars", func(t *testing.T) {
		var buf bytes.Buffer

		sl := NewSecurityLoggerWithLogger(zerolog.New(&buf))
		sl.LogAdminAuthFailure("203.0.113.9", "curl/8.0", "/api/refresh/ngos", "invalid_key", "guess")

		output := buf.String()
		if strings.Contains(output, "guess") {
			t.Errorf("short key leaked into log output: %s", output)
		}
		if !strings.Contains(output, "***") {
			t.Errorf("expected *** placeholder in output: %s", output)
		}
	})

	t.Run("oversized user agent is truncated", func(t *testing.T) {
		var buf bytes.Buffer

		agent := strings.Repeat("a", 150)
		sl := NewSecurityLoggerWithLogger(zerolog.New(&buf))
		sl.LogAdminAuthFailure("203.0.113.9", agent, "/api/refresh/ngos", "invalid_key", "")

		output := buf.String()
		if strings.Contains(output, agent) {
			t.Errorf("full user agent should not appear in output: %s", output)
		}
		if !strings.Contains(output, strings.Repeat("a", 100)+"...") {
			t.Errorf("expected truncated user agent in output: %s", output)
		}
	})
}

func TestSecurityLoggerAdminAction(t *testing.T) {
	var buf bytes.Buffer

	sl := NewSecurityLoggerWithLogger(zerolog.New(&buf))
	sl.LogAdminAction("203.0.113.9", "/api/refresh/ngos", "refresh_ngos")

	output := buf.String()
	if !strings.Contains(output, "admin_action") {
		t.Errorf("expected event field in output: %s", output)
	}
	if !strings.Contains(output, "refresh_ngos") {
		t.Errorf("expected action field in output: %s", output)
	}
}
