// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/uplift-hq/uplift/internal/models"
)

func TestCheckIns_Success(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		checkIns: []models.CheckIn{
			{Interest: "beach cleanup", Category: "environment"},
			{Interest: "food bank", Category: "hunger"},
		},
	}
	handler := testHandler(store, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/map", nil)
	rec := httptest.NewRecorder()
	handler.CheckIns(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	if env.Status != "success" {
		t.Errorf("status field = %q, want success", env.Status)
	}

	var checkIns []models.CheckIn
	if err := json.Unmarshal(env.Data, &checkIns); err != nil {
		t.Fatalf("Failed to decode check-ins: %v", err)
	}
	if len(checkIns) != 2 {
		t.Errorf("len(checkIns) = %d, want 2", len(checkIns))
	}
}

func TestCheckIns_CategoryFilter(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		checkIns: []models.CheckIn{
			{Interest: "beach cleanup", Category: "environment"},
			{Interest: "food bank", Category: "hunger"},
		},
	}
	handler := testHandler(store, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/map?category=hunger", nil)
	rec := httptest.NewRecorder()
	handler.CheckIns(rec, req)

	env := decodeEnvelope(t, rec)
	var checkIns []models.CheckIn
	if err := json.Unmarshal(env.Data, &checkIns); err != nil {
		t.Fatalf("Failed to decode check-ins: %v", err)
	}
	if len(checkIns) != 1 || checkIns[0].Category != "hunger" {
		t.Errorf("filtered check-ins = %+v, want single hunger entry", checkIns)
	}
}

func TestCheckIns_EmptyStoreReturnsEmptyArray(t *testing.T) {
	t.Parallel()

	handler := testHandler(&fakeStore{}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/map", nil)
	rec := httptest.NewRecorder()
	handler.CheckIns(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	// Empty result must serialize as [] rather than null
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Errorf("body = %s, want data to be []", rec.Body.String())
	}
}

func TestCheckIns_StorageError(t *testing.T) {
	t.Parallel()

	store := &fakeStore{listErr: errors.New("connection reset")}
	handler := testHandler(store, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/map", nil)
	rec := httptest.NewRecorder()
	handler.CheckIns(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	env := decodeEnvelope(t, rec)
	if env.Status != "error" {
		t.Errorf("status field = %q, want error", env.Status)
	}
	if env.Error == nil || env.Error.Code != "STORAGE_ERROR" {
		t.Errorf("error = %+v, want STORAGE_ERROR", env.Error)
	}
}

func TestCheckIns_InvalidLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "limit zero", query: "?limit=0", want: http.StatusBadRequest},
		{name: "limit above max", query: "?limit=501", want: http.StatusBadRequest},
		{name: "limit at max", query: "?limit=500", want: http.StatusOK},
		{name: "non-numeric limit falls back to default", query: "?limit=abc", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := testHandler(&fakeStore{}, nil, nil, nil)
			req := httptest.NewRequest(http.MethodGet, "/api/map"+tt.query, nil)
			rec := httptest.NewRecorder()
			handler.CheckIns(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestCreateCheckIn_Success(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	handler := testHandler(store, nil, nil, nil)

	body := `{"location":{"type":"Point","coordinates":[-73.97,40.78]},"interest":"park cleanup","category":"environment","userId":"user-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/map", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.CreateCheckIn(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var checkIn models.CheckIn
	if err := json.Unmarshal(env.Data, &checkIn); err != nil {
		t.Fatalf("Failed to decode check-in: %v", err)
	}
	if checkIn.Interest != "park cleanup" {
		t.Errorf("interest = %q, want park cleanup", checkIn.Interest)
	}
	if checkIn.Location.Coordinates[0] != -73.97 || checkIn.Location.Coordinates[1] != 40.78 {
		t.Errorf("coordinates = %v, want [-73.97 40.78]", checkIn.Location.Coordinates)
	}
	if checkIn.CreatedAt.IsZero() {
		t.Error("Expected server-assigned createdAt in response")
	}

	inserts := store.checkInInserts()
	if len(inserts) != 1 {
		t.Fatalf("store inserts = %d, want 1", len(inserts))
	}
}

func TestCreateCheckIn_DefaultCategory(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	handler := testHandler(store, nil, nil, nil)

	body := `{"location":{"type":"Point","coordinates":[2.35,48.85]},"interest":"literacy tutoring"}`
	req := httptest.NewRequest(http.MethodPost, "/api/map", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.CreateCheckIn(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var checkIn models.CheckIn
	if err := json.Unmarshal(env.Data, &checkIn); err != nil {
		t.Fatalf("Failed to decode check-in: %v", err)
	}
	if checkIn.Category != models.DefaultCheckInCategory {
		t.Errorf("category = %q, want %q", checkIn.Category, models.DefaultCheckInCategory)
	}
}

func TestCreateCheckIn_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing interest",
			body: `{"location":{"type":"Point","coordinates":[0,0]}}`,
		},
		{
			name: "missing location",
			body: `{"interest":"tree planting"}`,
		},
		{
			name: "wrong geometry type",
			body: `{"location":{"type":"Polygon","coordinates":[0,0]},"interest":"x"}`,
		},
		{
			name: "one coordinate",
			body: `{"location":{"type":"Point","coordinates":[12.5]},"interest":"x"}`,
		},
		{
			name: "three coordinates",
			body: `{"location":{"type":"Point","coordinates":[1,2,3]},"interest":"x"}`,
		},
		{
			name: "longitude out of range",
			body: `{"location":{"type":"Point","coordinates":[181,0]},"interest":"x"}`,
		},
		{
			name: "latitude out of range",
			body: `{"location":{"type":"Point","coordinates":[0,-91]},"interest":"x"}`,
		},
		{
			name: "malformed JSON",
			body: `{"location":`,
		},
		{
			name: "empty body",
			body: ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &fakeStore{}
			handler := testHandler(store, nil, nil, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/map", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.CreateCheckIn(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, http.StatusBadRequest, rec.Body.String())
			}

			env := decodeEnvelope(t, rec)
			if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("error = %+v, want VALIDATION_ERROR", env.Error)
			}

			// A rejected submission must not reach storage
			if inserts := store.checkInInserts(); len(inserts) != 0 {
				t.Errorf("store inserts = %d, want 0 after validation failure", len(inserts))
			}
		})
	}
}

func TestCreateCheckIn_StorageError(t *testing.T) {
	t.Parallel()

	store := &fakeStore{insertErr: errors.New("write concern failure")}
	handler := testHandler(store, nil, nil, nil)

	body := `{"location":{"type":"Point","coordinates":[0,0]},"interest":"voter registration"}`
	req := httptest.NewRequest(http.MethodPost, "/api/map", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.CreateCheckIn(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != "STORAGE_ERROR" {
		t.Errorf("error = %+v, want STORAGE_ERROR", env.Error)
	}
}

func TestCheckIns_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	handler := testHandler(nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/map", nil)
	rec := httptest.NewRecorder()
	handler.CheckIns(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
