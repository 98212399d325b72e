// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package api

import (
	"net/http"
	"time"

	"github.com/uplift-hq/uplift/internal/models"
)

// CheckIns handles map check-in listing requests
//
// @Summary List map check-ins
// @Description Returns check-ins for the community map, newest first, optionally filtered by category
// @Tags Map
// @Accept json
// @Produce json
// @Param category query string false "Exact-match category filter"
// @Param limit query int false "Maximum results (1-500)" default(100) minimum(1) maximum(500)
// @Success 200 {object} models.APIResponse{data=[]models.CheckIn} "Check-ins retrieved successfully"
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Failure 500 {object} models.APIResponse "Storage error"
// @Router /map [get]
func (h *Handler) CheckIns(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	start := time.Now()

	req := CheckInListRequest{
		Category: r.URL.Query().Get("category"),
		Limit:    getIntParam(r, "limit", models.DefaultCheckInLimit),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	checkIns, err := h.store.ListCheckIns(r.Context(), models.CheckInQuery{
		Category: req.Category,
		Limit:    req.Limit,
	})
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to retrieve check-ins", err)
		return
	}

	if checkIns == nil {
		checkIns = []models.CheckIn{}
	}

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   checkIns,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// CreateCheckIn handles map check-in submissions
//
// @Summary Create a map check-in
// @Description Stores a user-submitted check-in. Location and interest are required; category defaults to "general". The stored record with server-assigned id and createdAt comes back in the response.
// @Tags Map
// @Accept json
// @Produce json
// @Param checkin body CheckInRequest true "Check-in to create"
// @Success 201 {object} models.APIResponse{data=models.CheckIn} "Check-in created"
// @Failure 400 {object} models.APIResponse "Missing location/interest or malformed body"
// @Failure 500 {object} models.APIResponse "Storage error"
// @Router /map [post]
func (h *Handler) CreateCheckIn(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	start := time.Now()

	var req CheckInRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	// GeoJSON carries a bare [longitude, latitude] array; the per-axis
	// range validators run on the decomposed pair.
	lng, lat := req.Location.Coordinates[0], req.Location.Coordinates[1]
	if apiErr := validateRequest(&coordinatePair{Lng: lng, Lat: lat}); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	checkIn := models.CheckIn{
		Location: models.NewGeoPoint(lng, lat),
		Interest: req.Interest,
		Category: req.Category,
		UserID:   req.UserID,
	}
	if err := h.store.InsertCheckIn(r.Context(), &checkIn); err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to store check-in", err)
		return
	}

	respondJSON(w, r, http.StatusCreated, &models.APIResponse{
		Status: "success",
		Data:   checkIn,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
