// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package api

import (
	"net/http"
	"time"

	"github.com/uplift-hq/uplift/internal/fetch"
	"github.com/uplift-hq/uplift/internal/logging"
	"github.com/uplift-hq/uplift/internal/models"
)

// RefreshTedTalks handles admin force-refresh of the talks cache
//
// @Summary Force-refresh cached TED talks
// @Description Unconditionally fetches the upstream talks catalog and replaces the cached collection, regardless of cache state. Gated by X-Admin-Key in production.
// @Tags Admin
// @Accept json
// @Produce json
// @Param X-Admin-Key header string false "Admin key (required in production)"
// @Success 200 {object} models.APIResponse{data=models.RefreshResult} "Refresh completed"
// @Failure 403 {object} models.APIResponse "Missing or invalid admin key"
// @Failure 500 {object} models.APIResponse "Upstream or storage error"
// @Router /refresh/ted-talks [post]
func (h *Handler) RefreshTedTalks(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	start := time.Now()

	count, err := h.refresher.TriggerTalksRefresh(r.Context())
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, contentErrorCode(err), "Talks refresh failed", err)
		return
	}

	logging.Info().Int("count", count).Dur("duration", time.Since(start)).Msg("Admin talks refresh completed")

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.RefreshResult{
			Success: true,
			Count:   count,
			Type:    fetch.SourceTED,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Refreshed:   true,
		},
	})
}

// RefreshNgos handles admin force-refresh of the NGO cache
//
// @Summary Force-refresh cached NGO records
// @Description Unconditionally fetches the upstream nonprofit listing and replaces the cached collection. Gated by X-Admin-Key in production.
// @Tags Admin
// @Accept json
// @Produce json
// @Param X-Admin-Key header string false "Admin key (required in production)"
// @Success 200 {object} models.APIResponse{data=models.RefreshResult} "Refresh completed"
// @Failure 403 {object} models.APIResponse "Missing or invalid admin key"
// @Failure 500 {object} models.APIResponse "Upstream or storage error"
// @Router /refresh/ngos [post]
func (h *Handler) RefreshNgos(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	start := time.Now()

	count, err := h.refresher.TriggerNgosRefresh(r.Context())
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, contentErrorCode(err), "NGO refresh failed", err)
		return
	}

	logging.Info().Int("count", count).Dur("duration", time.Since(start)).Msg("Admin NGO refresh completed")

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.RefreshResult{
			Success: true,
			Count:   count,
			Type:    fetch.SourceProPublica,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Refreshed:   true,
		},
	})
}
