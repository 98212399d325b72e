// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/uplift-hq/uplift/internal/config"
	"github.com/uplift-hq/uplift/internal/models"
)

const sampleTalksPayload = `{
	"talks": [
		{
			"id": 2339,
			"title": "How to build community",
			"speaker": "Jordan Avery",
			"description": "A talk about local organizing",
			"duration": 1084,
			"url": "https://talks.example.org/2339",
			"thumbnail": "https://img.example.org/2339.jpg"
		},
		{
			"id": 66,
			"title": "Rebuilding after disaster",
			"speaker": "Sam Okafor",
			"description": "",
			"duration": 1164,
			"url": "https://talks.example.org/66",
			"thumbnail": "https://img.example.org/66.jpg"
		}
	]
}`

func newTestTEDClient(serverURL, apiKey string) *TEDClient {
	client := NewTEDClient(&config.TEDConfig{
		URL:     serverURL,
		APIKey:  apiKey,
		Timeout: 5 * time.Second,
	})
	client.retryBaseDelay = time.Millisecond
	client.limiter = rate.NewLimiter(rate.Inf, 1)
	return client
}

func TestTEDClientFetchTalks(t *testing.T) {
	t.Run("maps upstream fields", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(sampleTalksPayload))
		}))
		defer server.Close()

		client := newTestTEDClient(server.URL, "")

		talks, err := client.FetchTalks(context.Background())
		if err != nil {
			t.Fatalf("FetchTalks() error = %v", err)
		}
		if len(talks) != 2 {
			t.Fatalf("len(talks) = %d, want 2", len(talks))
		}

		first := talks[0]
		if first.TalkID != "2339" {
			t.Errorf("TalkID = %q, want %q", first.TalkID, "2339")
		}
		if first.Title != "How to build community" {
			t.Errorf("Title = %q, want %q", first.Title, "How to build community")
		}
		if first.Speaker != "Jordan Avery" {
			t.Errorf("Speaker = %q, want %q", first.Speaker, "Jordan Avery")
		}
		if first.Description != "A talk about local organizing" {
			t.Errorf("Description = %q, want upstream text", first.Description)
		}
		if first.Duration != 1084 {
			t.Errorf("Duration = %d, want 1084", first.Duration)
		}
		if first.URL != "https://talks.example.org/2339" {
			t.Errorf("URL = %q, want upstream URL", first.URL)
		}
		if first.Thumbnail != "https://img.example.org/2339.jpg" {
			t.Errorf("Thumbnail = %q, want upstream thumbnail", first.Thumbnail)
		}
		if first.Type != models.ContentTypeVideo {
			t.Errorf("Type = %q, want %q", first.Type, models.ContentTypeVideo)
		}
		if !first.CreatedAt.IsZero() {
			t.Errorf("CreatedAt = %v, want zero (stamped by storage)", first.CreatedAt)
		}

		// Blank descriptions use the shared fallback
		if talks[1].Description != models.NoDescription {
			t.Errorf("Description = %q, want %q", talks[1].Description, models.NoDescription)
		}
	})

	t.Run("sends api key as query parameter", func(t *testing.T) {
		gotKey := ""
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.URL.Query().Get("api-key")
			w.Write([]byte(sampleTalksPayload))
		}))
		defer server.Close()

		client := newTestTEDClient(server.URL, "secret-key")

		if _, err := client.FetchTalks(context.Background()); err != nil {
			t.Fatalf("FetchTalks() error = %v", err)
		}
		if gotKey != "secret-key" {
			t.Errorf("api-key = %q, want %q", gotKey, "secret-key")
		}
	})

	t.Run("omits api key when unset", func(t *testing.T) {
		hasKey := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hasKey = r.URL.Query().Has("api-key")
			w.Write([]byte(sampleTalksPayload))
		}))
		defer server.Close()

		client := newTestTEDClient(server.URL, "")

		if _, err := client.FetchTalks(context.Background()); err != nil {
			t.Fatalf("FetchTalks() error = %v", err)
		}
		if hasKey {
			t.Error("api-key parameter sent without a configured key")
		}
	})

	t.Run("upstream error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("upstream down"))
		}))
		defer server.Close()

		client := newTestTEDClient(server.URL, "")

		_, err := client.FetchTalks(context.Background())
		if err == nil {
			t.Fatal("Expected error for non-200 status")
		}

		var upstreamErr *UpstreamError
		if !errors.As(err, &upstreamErr) {
			t.Fatalf("error = %T, want *UpstreamError", err)
		}
		if upstreamErr.Source != SourceTED {
			t.Errorf("Source = %q, want %q", upstreamErr.Source, SourceTED)
		}
		if upstreamErr.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("StatusCode = %d, want %d", upstreamErr.StatusCode, http.StatusServiceUnavailable)
		}
		if !strings.Contains(err.Error(), "upstream down") {
			t.Errorf("Error should include upstream body, got: %v", err)
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json{{"))
		}))
		defer server.Close()

		client := newTestTEDClient(server.URL, "")

		_, err := client.FetchTalks(context.Background())
		if !IsUpstreamError(err) {
			t.Fatalf("error = %v, want *UpstreamError", err)
		}
	})

	t.Run("missing talks array", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"total": 3}`))
		}))
		defer server.Close()

		client := newTestTEDClient(server.URL, "")

		_, err := client.FetchTalks(context.Background())
		if err == nil {
			t.Fatal("Expected error for payload without talks array")
		}
		if !strings.Contains(err.Error(), "missing talks array") {
			t.Errorf("Error should mention missing talks array, got: %v", err)
		}
	})

	t.Run("empty talks array is a valid zero-record catalog", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"talks": []}`))
		}))
		defer server.Close()

		client := newTestTEDClient(server.URL, "")

		talks, err := client.FetchTalks(context.Background())
		if err != nil {
			t.Fatalf("FetchTalks() error = %v", err)
		}
		if len(talks) != 0 {
			t.Errorf("len(talks) = %d, want 0", len(talks))
		}
	})

	t.Run("rate limited then success", func(t *testing.T) {
		attemptCount := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attemptCount++
			if attemptCount < 3 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(sampleTalksPayload))
		}))
		defer server.Close()

		client := newTestTEDClient(server.URL, "")

		talks, err := client.FetchTalks(context.Background())
		if err != nil {
			t.Fatalf("FetchTalks() error = %v", err)
		}
		if attemptCount != 3 {
			t.Errorf("attempt count = %d, want 3", attemptCount)
		}
		if len(talks) != 2 {
			t.Errorf("len(talks) = %d, want 2", len(talks))
		}
	})
}

func TestTEDClientPing(t *testing.T) {
	t.Run("healthy upstream", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(sampleTalksPayload))
		}))
		defer server.Close()

		client := newTestTEDClient(server.URL, "")
		if err := client.Ping(context.Background()); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
	})

	t.Run("unhealthy upstream", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := newTestTEDClient(server.URL, "")
		err := client.Ping(context.Background())
		if err == nil {
			t.Fatal("Expected error for non-200 status")
		}
		if !strings.Contains(err.Error(), "status: 502") {
			t.Errorf("Error should carry the status, got: %v", err)
		}
	})

	t.Run("unreachable upstream", func(t *testing.T) {
		client := newTestTEDClient("http://localhost:1", "")
		if err := client.Ping(context.Background()); err == nil {
			t.Error("Expected error for unreachable upstream")
		}
	})
}

func TestTEDClientRedactsAPIKey(t *testing.T) {
	const key = "9f8c2d71aa0b44ce77aa"

	t.Run("transport error scrubs the key from the URL", func(t *testing.T) {
		client := newTestTEDClient("http://localhost:1", key)
		_, err := client.FetchTalks(context.Background())
		if err == nil {
			t.Fatal("Expected error for unreachable upstream")
		}
		if strings.Contains(err.Error(), key) {
			t.Errorf("Error leaks the API key: %v", err)
		}
		if !strings.Contains(err.Error(), "9f8c...77aa") {
			t.Errorf("Error should carry the masked key, got: %v", err)
		}
	})

	t.Run("query-escaped key is scrubbed too", func(t *testing.T) {
		client := newTestTEDClient("http://localhost:1", "secret+key/with=chars")
		scrubbed := client.redactKey(errors.New(`Get "http://localhost:1?api-key=secret%2Bkey%2Fwith%3Dchars": dial tcp`))
		if strings.Contains(scrubbed.Error(), "secret%2B") {
			t.Errorf("Escaped key not scrubbed: %v", scrubbed)
		}
		if !strings.Contains(scrubbed.Error(), "secr...hars") {
			t.Errorf("Expected masked key in scrubbed error, got: %v", scrubbed)
		}
	})

	t.Run("errors without the key pass through unchanged", func(t *testing.T) {
		client := newTestTEDClient("http://localhost:1", key)
		sentinel := errors.New("plain failure")
		if got := client.redactKey(sentinel); got != sentinel {
			t.Errorf("redactKey rewrote an unrelated error: %v", got)
		}
	})
}
