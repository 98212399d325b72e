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

	"github.com/uplift-hq/uplift/internal/fetch"
	"github.com/uplift-hq/uplift/internal/models"
)

func TestContent_Success(t *testing.T) {
	t.Parallel()

	pipeline := &fakePipeline{
		talks: []models.Talk{
			{TalkID: "1", Title: "The power of community", Type: models.ContentTypeVideo},
			{TalkID: "2", Title: "Rethinking aid", Type: models.ContentTypeVideo},
		},
	}
	handler := testHandler(nil, pipeline, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/content", nil)
	rec := httptest.NewRecorder()
	handler.Content(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var talks []models.Talk
	if err := json.Unmarshal(env.Data, &talks); err != nil {
		t.Fatalf("Failed to decode talks: %v", err)
	}
	if len(talks) != 2 {
		t.Errorf("len(talks) = %d, want 2", len(talks))
	}
	if env.Metadata == nil || env.Metadata.Refreshed {
		t.Errorf("metadata = %+v, want refreshed=false for cache hit", env.Metadata)
	}
}

func TestContent_RefreshedFlag(t *testing.T) {
	t.Parallel()

	pipeline := &fakePipeline{
		talks:     []models.Talk{{TalkID: "1", Title: "Fresh talk"}},
		refreshed: true,
	}
	handler := testHandler(nil, pipeline, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/content", nil)
	rec := httptest.NewRecorder()
	handler.Content(rec, req)

	env := decodeEnvelope(t, rec)
	if env.Metadata == nil || !env.Metadata.Refreshed {
		t.Errorf("metadata = %+v, want refreshed=true after synchronous refresh", env.Metadata)
	}
}

func TestContent_QueryForwarding(t *testing.T) {
	t.Parallel()

	pipeline := &fakePipeline{}
	handler := testHandler(nil, pipeline, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/content?search=climate&limit=5", nil)
	rec := httptest.NewRecorder()
	handler.Content(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	qs := pipeline.talkQueries()
	if len(qs) != 1 {
		t.Fatalf("pipeline calls = %d, want 1", len(qs))
	}
	if qs[0].Search != "climate" || qs[0].Limit != 5 {
		t.Errorf("query = %+v, want search=climate limit=5", qs[0])
	}
}

func TestContent_DefaultLimit(t *testing.T) {
	t.Parallel()

	pipeline := &fakePipeline{}
	handler := testHandler(nil, pipeline, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/content", nil)
	rec := httptest.NewRecorder()
	handler.Content(rec, req)

	qs := pipeline.talkQueries()
	if len(qs) != 1 || qs[0].Limit != models.DefaultTalkLimit {
		t.Errorf("query = %+v, want default limit %d", qs, models.DefaultTalkLimit)
	}
}

func TestContent_UpstreamError(t *testing.T) {
	t.Parallel()

	pipeline := &fakePipeline{
		err: &fetch.UpstreamError{Source: fetch.SourceTED, StatusCode: 502, Err: errors.New("bad gateway")},
	}
	handler := testHandler(nil, pipeline, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/content", nil)
	rec := httptest.NewRecorder()
	handler.Content(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != "UPSTREAM_ERROR" {
		t.Errorf("error = %+v, want UPSTREAM_ERROR", env.Error)
	}
}

func TestContent_StorageError(t *testing.T) {
	t.Parallel()

	pipeline := &fakePipeline{err: errors.New("cursor timeout")}
	handler := testHandler(nil, pipeline, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/content", nil)
	rec := httptest.NewRecorder()
	handler.Content(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != "STORAGE_ERROR" {
		t.Errorf("error = %+v, want STORAGE_ERROR", env.Error)
	}
}

func TestActionHub_Success(t *testing.T) {
	t.Parallel()

	pipeline := &fakePipeline{
		ngos: []models.NgoRecord{
			{EIN: "13-1234567", Name: "Harbor Relief Fund", Type: models.ContentTypeNGO},
		},
	}
	handler := testHandler(nil, pipeline, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/action-hub", nil)
	rec := httptest.NewRecorder()
	handler.ActionHub(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var ngos []models.NgoRecord
	if err := json.Unmarshal(env.Data, &ngos); err != nil {
		t.Fatalf("Failed to decode NGO records: %v", err)
	}
	if len(ngos) != 1 || ngos[0].EIN != "13-1234567" {
		t.Errorf("ngos = %+v, want single Harbor Relief Fund record", ngos)
	}
}

func TestActionHub_TypeFilterForwarded(t *testing.T) {
	t.Parallel()

	pipeline := &fakePipeline{}
	handler := testHandler(nil, pipeline, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/action-hub?type=NGO&search=relief", nil)
	rec := httptest.NewRecorder()
	handler.ActionHub(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	pipeline.mu.Lock()
	defer pipeline.mu.Unlock()
	if len(pipeline.ngoQs) != 1 {
		t.Fatalf("pipeline calls = %d, want 1", len(pipeline.ngoQs))
	}
	q := pipeline.ngoQs[0]
	if q.Type != "NGO" || q.Search != "relief" || q.Limit != models.DefaultNgoLimit {
		t.Errorf("query = %+v, want type=NGO search=relief limit=%d", q, models.DefaultNgoLimit)
	}
}

func TestActionHub_EmptyResultIsArray(t *testing.T) {
	t.Parallel()

	handler := testHandler(nil, &fakePipeline{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/action-hub", nil)
	rec := httptest.NewRecorder()
	handler.ActionHub(rec, req)

	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Errorf("body = %s, want data to be []", rec.Body.String())
	}
}

func TestContent_InvalidLimitRejected(t *testing.T) {
	t.Parallel()

	pipeline := &fakePipeline{}
	handler := testHandler(nil, pipeline, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/content?limit=9999", nil)
	rec := httptest.NewRecorder()
	handler.Content(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	// Rejected queries never reach the pipeline (no refresh side effects)
	if qs := pipeline.talkQueries(); len(qs) != 0 {
		t.Errorf("pipeline calls = %d, want 0", len(qs))
	}
}
