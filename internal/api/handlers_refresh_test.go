// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/uplift-hq/uplift/internal/fetch"
	"github.com/uplift-hq/uplift/internal/models"
)

func TestRefreshTedTalks_Success(t *testing.T) {
	t.Parallel()

	refresher := &fakeRefresher{count: 12}
	handler := testHandler(nil, nil, refresher, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/refresh/ted-talks", nil)
	rec := httptest.NewRecorder()
	handler.RefreshTedTalks(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var result models.RefreshResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("Failed to decode refresh result: %v", err)
	}
	if !result.Success || result.Count != 12 || result.Type != fetch.SourceTED {
		t.Errorf("result = %+v, want success count=12 type=%q", result, fetch.SourceTED)
	}

	talks, ngos := refresher.calls()
	if talks != 1 || ngos != 0 {
		t.Errorf("trigger calls = (%d, %d), want (1, 0)", talks, ngos)
	}
}

func TestRefreshNgos_Success(t *testing.T) {
	t.Parallel()

	refresher := &fakeRefresher{count: 40}
	handler := testHandler(nil, nil, refresher, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/refresh/ngos", nil)
	rec := httptest.NewRecorder()
	handler.RefreshNgos(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var result models.RefreshResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("Failed to decode refresh result: %v", err)
	}
	if !result.Success || result.Count != 40 || result.Type != fetch.SourceProPublica {
		t.Errorf("result = %+v, want success count=40 type=%q", result, fetch.SourceProPublica)
	}

	talks, ngos := refresher.calls()
	if talks != 0 || ngos != 1 {
		t.Errorf("trigger calls = (%d, %d), want (0, 1)", talks, ngos)
	}
}

func TestRefreshTedTalks_UpstreamError(t *testing.T) {
	t.Parallel()

	refresher := &fakeRefresher{
		err: &fetch.UpstreamError{Source: fetch.SourceTED, StatusCode: 503, Err: errors.New("unavailable")},
	}
	handler := testHandler(nil, nil, refresher, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/refresh/ted-talks", nil)
	rec := httptest.NewRecorder()
	handler.RefreshTedTalks(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != "UPSTREAM_ERROR" {
		t.Errorf("error = %+v, want UPSTREAM_ERROR", env.Error)
	}
}

func TestRefreshNgos_StorageError(t *testing.T) {
	t.Parallel()

	refresher := &fakeRefresher{err: errors.New("bulk write failed")}
	handler := testHandler(nil, nil, refresher, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/refresh/ngos", nil)
	rec := httptest.NewRecorder()
	handler.RefreshNgos(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != "STORAGE_ERROR" {
		t.Errorf("error = %+v, want STORAGE_ERROR", env.Error)
	}
}

func TestRefresh_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	refresher := &fakeRefresher{}
	handler := testHandler(nil, nil, refresher, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/refresh/ted-talks", nil)
	rec := httptest.NewRecorder()
	handler.RefreshTedTalks(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}

	// Rejected methods never trigger a refresh
	talks, ngos := refresher.calls()
	if talks != 0 || ngos != 0 {
		t.Errorf("trigger calls = (%d, %d), want (0, 0)", talks, ngos)
	}
}
