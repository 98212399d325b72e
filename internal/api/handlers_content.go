// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package api

import (
	"net/http"
	"time"

	"github.com/uplift-hq/uplift/internal/fetch"
	"github.com/uplift-hq/uplift/internal/models"
)

// contentErrorCode classifies a pipeline failure: upstream fetch errors
// and storage errors both surface as 500 but carry distinct codes.
func contentErrorCode(err error) string {
	if fetch.IsUpstreamError(err) {
		return "UPSTREAM_ERROR"
	}
	return "STORAGE_ERROR"
}

// Content handles cached TED talk listing requests
//
// @Summary List cached TED talks
// @Description Returns cached talks, newest first. An empty cache (or a search with no hits) triggers a synchronous upstream refresh before responding; the metadata refreshed flag reports when that happened.
// @Tags Content
// @Accept json
// @Produce json
// @Param search query string false "Keyword search over talk titles"
// @Param limit query int false "Maximum results (1-500)" default(20) minimum(1) maximum(500)
// @Success 200 {object} models.APIResponse{data=[]models.Talk} "Talks retrieved successfully"
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Failure 500 {object} models.APIResponse "Upstream or storage error"
// @Router /content [get]
func (h *Handler) Content(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	start := time.Now()

	req := ContentListRequest{
		Search: r.URL.Query().Get("search"),
		Limit:  getIntParam(r, "limit", models.DefaultTalkLimit),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	talks, refreshed, err := h.pipeline.ServeTalks(r.Context(), models.ContentQuery{
		Search: req.Search,
		Limit:  req.Limit,
	})
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, contentErrorCode(err), "Failed to retrieve talks", err)
		return
	}

	if talks == nil {
		talks = []models.Talk{}
	}

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   talks,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Refreshed:   refreshed,
		},
	})
}

// ActionHub handles cached NGO listing requests
//
// @Summary List cached NGO records
// @Description Returns cached nonprofits for the action hub, newest first, with the same refresh-on-empty behavior as /content.
// @Tags Content
// @Accept json
// @Produce json
// @Param search query string false "Keyword search over NGO names"
// @Param type query string false "Exact-match record type filter"
// @Param limit query int false "Maximum results (1-500)" default(50) minimum(1) maximum(500)
// @Success 200 {object} models.APIResponse{data=[]models.NgoRecord} "NGO records retrieved successfully"
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Failure 500 {object} models.APIResponse "Upstream or storage error"
// @Router /action-hub [get]
func (h *Handler) ActionHub(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	start := time.Now()

	req := ActionHubListRequest{
		Search: r.URL.Query().Get("search"),
		Type:   r.URL.Query().Get("type"),
		Limit:  getIntParam(r, "limit", models.DefaultNgoLimit),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	ngos, refreshed, err := h.pipeline.ServeNgos(r.Context(), models.ContentQuery{
		Search: req.Search,
		Type:   req.Type,
		Limit:  req.Limit,
	})
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, contentErrorCode(err), "Failed to retrieve NGO records", err)
		return
	}

	if ngos == nil {
		ngos = []models.NgoRecord{}
	}

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   ngos,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Refreshed:   refreshed,
		},
	})
}
