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

const sampleNgosPayload = `{
	"total_results": 2,
	"organizations": [
		{
			"ein": 131837418,
			"name": "Relief Access Fund",
			"city": "NEW YORK",
			"state": "NY"
		},
		{
			"ein": 581954440,
			"name": "Shelter Works",
			"city": "",
			"state": "GA"
		}
	]
}`

func newTestProPublicaClient(serverURL, apiKey string) *ProPublicaClient {
	client := NewProPublicaClient(&config.ProPublicaConfig{
		URL:     serverURL,
		APIKey:  apiKey,
		Query:   "community development",
		Timeout: 5 * time.Second,
	})
	client.retryBaseDelay = time.Millisecond
	client.limiter = rate.NewLimiter(rate.Inf, 1)
	return client
}

func TestProPublicaClientFetchNgos(t *testing.T) {
	t.Run("maps organizations", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(sampleNgosPayload))
		}))
		defer server.Close()

		client := newTestProPublicaClient(server.URL, "")

		ngos, err := client.FetchNgos(context.Background())
		if err != nil {
			t.Fatalf("FetchNgos() error = %v", err)
		}
		if len(ngos) != 2 {
			t.Fatalf("len(ngos) = %d, want 2", len(ngos))
		}

		first := ngos[0]
		if first.EIN != "131837418" {
			t.Errorf("EIN = %q, want %q", first.EIN, "131837418")
		}
		if first.Name != "Relief Access Fund" {
			t.Errorf("Name = %q, want %q", first.Name, "Relief Access Fund")
		}
		if first.Type != models.ContentTypeNGO {
			t.Errorf("Type = %q, want %q", first.Type, models.ContentTypeNGO)
		}
		if first.Website != "https://projects.propublica.org/nonprofits/organizations/131837418" {
			t.Errorf("Website = %q, want profile URL", first.Website)
		}
		if first.Location != "NEW YORK, NY" {
			t.Errorf("Location = %q, want %q", first.Location, "NEW YORK, NY")
		}
		if first.Description != models.NoDescription {
			t.Errorf("Description = %q, want %q", first.Description, models.NoDescription)
		}
		if first.Mission != models.NoDescription {
			t.Errorf("Mission = %q, want %q", first.Mission, models.NoDescription)
		}
		if !first.CreatedAt.IsZero() {
			t.Errorf("CreatedAt = %v, want zero (stamped by storage)", first.CreatedAt)
		}

		// State-only records keep the bare state
		if ngos[1].Location != "GA" {
			t.Errorf("Location = %q, want %q", ngos[1].Location, "GA")
		}
	})

	t.Run("sends search query", func(t *testing.T) {
		gotQuery := ""
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("q")
			w.Write([]byte(sampleNgosPayload))
		}))
		defer server.Close()

		client := newTestProPublicaClient(server.URL, "")

		if _, err := client.FetchNgos(context.Background()); err != nil {
			t.Fatalf("FetchNgos() error = %v", err)
		}
		if gotQuery != "community development" {
			t.Errorf("q = %q, want %q", gotQuery, "community development")
		}
	})

	t.Run("sends api key header when configured", func(t *testing.T) {
		gotKey := ""
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.Header.Get("X-API-Key")
			w.Write([]byte(sampleNgosPayload))
		}))
		defer server.Close()

		client := newTestProPublicaClient(server.URL, "pp-key")

		if _, err := client.FetchNgos(context.Background()); err != nil {
			t.Fatalf("FetchNgos() error = %v", err)
		}
		if gotKey != "pp-key" {
			t.Errorf("X-API-Key = %q, want %q", gotKey, "pp-key")
		}
	})

	t.Run("omits api key header when unset", func(t *testing.T) {
		gotKey := "unset"
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.Header.Get("X-API-Key")
			w.Write([]byte(sampleNgosPayload))
		}))
		defer server.Close()

		client := newTestProPublicaClient(server.URL, "")

		if _, err := client.FetchNgos(context.Background()); err != nil {
			t.Fatalf("FetchNgos() error = %v", err)
		}
		if gotKey != "" {
			t.Errorf("X-API-Key = %q, want empty", gotKey)
		}
	})

	t.Run("upstream error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("search backend unavailable"))
		}))
		defer server.Close()

		client := newTestProPublicaClient(server.URL, "")

		_, err := client.FetchNgos(context.Background())
		if err == nil {
			t.Fatal("Expected error for non-200 status")
		}

		var upstreamErr *UpstreamError
		if !errors.As(err, &upstreamErr) {
			t.Fatalf("error = %T, want *UpstreamError", err)
		}
		if upstreamErr.Source != SourceProPublica {
			t.Errorf("Source = %q, want %q", upstreamErr.Source, SourceProPublica)
		}
		if upstreamErr.StatusCode != http.StatusInternalServerError {
			t.Errorf("StatusCode = %d, want %d", upstreamErr.StatusCode, http.StatusInternalServerError)
		}
	})

	t.Run("missing organizations array", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"total_results": 0}`))
		}))
		defer server.Close()

		client := newTestProPublicaClient(server.URL, "")

		_, err := client.FetchNgos(context.Background())
		if err == nil {
			t.Fatal("Expected error for payload without organizations array")
		}
		if !strings.Contains(err.Error(), "missing organizations array") {
			t.Errorf("Error should mention missing organizations array, got: %v", err)
		}
	})

	t.Run("empty organizations array is a valid zero-record result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"total_results": 0, "organizations": []}`))
		}))
		defer server.Close()

		client := newTestProPublicaClient(server.URL, "")

		ngos, err := client.FetchNgos(context.Background())
		if err != nil {
			t.Fatalf("FetchNgos() error = %v", err)
		}
		if len(ngos) != 0 {
			t.Errorf("len(ngos) = %d, want 0", len(ngos))
		}
	})
}

func TestJoinLocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		city     string
		state    string
		expected string
	}{
		{"city and state", "Albany", "NY", "Albany, NY"},
		{"city only", "Albany", "", "Albany"},
		{"state only", "", "NY", "NY"},
		{"neither", "", "", ""},
		{"whitespace trimmed", " Albany ", " NY ", "Albany, NY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinLocation(tt.city, tt.state); got != tt.expected {
				t.Errorf("joinLocation(%q, %q) = %q, want %q", tt.city, tt.state, got, tt.expected)
			}
		})
	}
}

func TestProPublicaClientPing(t *testing.T) {
	t.Run("healthy upstream", func(t *testing.T) {
		gotQuery := ""
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("q")
			w.Write([]byte(`{"total_results": 0, "organizations": []}`))
		}))
		defer server.Close()

		client := newTestProPublicaClient(server.URL, "")
		if err := client.Ping(context.Background()); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
		if gotQuery != "a" {
			t.Errorf("probe query = %q, want the minimal single-letter search", gotQuery)
		}
	})

	t.Run("unhealthy upstream", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := newTestProPublicaClient(server.URL, "")
		if err := client.Ping(context.Background()); err == nil {
			t.Error("Expected error for non-200 status")
		}
	})
}
