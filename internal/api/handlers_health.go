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

// Version is the build version reported by the health endpoint.
const Version = "1.0.0"

// Health handles health check requests
//
// @Summary Get system health status
// @Description Returns health status including database connectivity, last content refresh time, and uptime
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Health status retrieved successfully"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	// Check database connectivity (nil means not connected)
	dbStatus := "disconnected"
	if h.store != nil && h.store.Ping(r.Context()) == nil {
		dbStatus = "connected"
	}

	status := "ok"
	if dbStatus != "connected" {
		status = "degraded"
	}

	var lastRefreshPtr *time.Time
	if h.refresher != nil {
		lastRefresh := h.refresher.LastRefreshTime()
		if !lastRefresh.IsZero() {
			lastRefreshPtr = &lastRefresh
		}
	}

	environment := ""
	if h.config != nil {
		environment = h.config.Server.Environment
	}

	health := models.HealthStatus{
		Status:      status,
		Timestamp:   time.Now(),
		Uptime:      time.Since(h.startTime).Seconds(),
		DBStatus:    dbStatus,
		Version:     Version,
		Environment: environment,
		LastRefresh: lastRefreshPtr,
	}

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Kubernetes liveness probe
// @Description Returns 200 OK if the process is alive, regardless of external dependencies. Used for Kubernetes liveness probes.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only if the service is ready to handle traffic
//
// @Summary Kubernetes readiness probe
// @Description Returns 200 OK only if the service is ready to handle traffic (database and upstream content sources reachable). Returns 503 if not ready.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Service is ready"
// @Failure 503 {object} models.APIResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()

	// Database is the only hard dependency: without it nothing can be
	// served. Upstream sources are reported but do not gate readiness,
	// since stale cached content is still servable when they are down.
	dbConnected := h.store != nil && h.store.Ping(ctx) == nil
	talksConnected := h.talks != nil && h.talks.Ping(ctx) == nil
	ngosConnected := h.ngos != nil && h.ngos.Ping(ctx) == nil
	ready := dbConnected

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, r, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"database_connected": dbConnected,
			"talks_connected":    talksConnected,
			"ngos_connected":     ngosConnected,
			"ready_to_serve":     ready,
			"uptime":             time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
