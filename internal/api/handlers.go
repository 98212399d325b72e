// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/uplift-hq/uplift/internal/config"
	"github.com/uplift-hq/uplift/internal/fetch"
	"github.com/uplift-hq/uplift/internal/logging"
	"github.com/uplift-hq/uplift/internal/models"
	ws "github.com/uplift-hq/uplift/internal/websocket"
)

// Store is the slice of the storage gateway the handlers depend on.
// store.Store implements it; tests substitute fakes.
type Store interface {
	InsertCheckIn(ctx context.Context, checkIn *models.CheckIn) error
	ListCheckIns(ctx context.Context, q models.CheckInQuery) ([]models.CheckIn, error)
	InsertMessage(ctx context.Context, msg *models.ChatMessage) error
	ListMessages(ctx context.Context, q models.MessageQuery) ([]models.ChatMessage, error)
	Ping(ctx context.Context) error
}

// ContentServer is the pipeline surface the content handlers use.
// content.Pipeline implements it.
type ContentServer interface {
	ServeTalks(ctx context.Context, q models.ContentQuery) ([]models.Talk, bool, error)
	ServeNgos(ctx context.Context, q models.ContentQuery) ([]models.NgoRecord, bool, error)
}

// RefreshTrigger is the refresher surface the admin and health handlers
// use. content.Refresher implements it.
type RefreshTrigger interface {
	TriggerTalksRefresh(ctx context.Context) (int, error)
	TriggerNgosRefresh(ctx context.Context) (int, error)
	LastRefreshTime() time.Time
}

// EventNotifier publishes chat events to the realtime layer.
// realtime.Notifier implements it; nil disables publishing and clients
// fall back to polling GET /api/messages.
type EventNotifier interface {
	Publish(channel, event string, payload any)
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct, constructor, WebSocket upgrader (this file)
//   - handlers_helpers.go: Shared helper functions
//   - handlers_health.go: Health/monitoring endpoints
//   - handlers_checkins.go: Map check-in endpoints
//   - handlers_content.go: Cached content endpoints (talks, NGOs)
//   - handlers_messages.go: Chat history and send endpoints
//   - handlers_refresh.go: Admin force-refresh endpoints
type Handler struct {
	store     Store
	pipeline  ContentServer
	refresher RefreshTrigger
	talks     fetch.TalksSource
	ngos      fetch.NgosSource
	notifier  EventNotifier
	wsHub     *ws.Hub
	config    *config.Config
	startTime time.Time
}

// NewHandler creates a new API handler with all required dependencies.
//
// Dependencies:
//   - store: Storage gateway for check-ins, messages, and health pings
//   - pipeline: Content pipeline for cached talks and NGO records
//   - refresher: Background refresher for admin-triggered refreshes
//   - talks, ngos: Upstream sources, consulted only by the readiness probe
//   - notifier: Realtime publisher for new chat messages (nil when NATS is off)
//   - wsHub: WebSocket hub for the chat relay (nil disables GET /api/ws)
//   - cfg: Application configuration
//
// Example:
//
//	handler := api.NewHandler(store, pipeline, refresher, talks, ngos, notifier, hub, cfg)
//	router := api.NewRouter(handler, cfg)
//	http.ListenAndServe(":8080", router.Setup())
func NewHandler(store Store, pipeline ContentServer, refresher RefreshTrigger, talks fetch.TalksSource, ngos fetch.NgosSource, notifier EventNotifier, wsHub *ws.Hub, cfg *config.Config) *Handler {
	return &Handler{
		store:     store,
		pipeline:  pipeline,
		refresher: refresher,
		talks:     talks,
		ngos:      ngos,
		notifier:  notifier,
		wsHub:     wsHub,
		config:    cfg,
		startTime: time.Now(),
	}
}

// getUpgrader creates a WebSocket upgrader with proper origin checking and timeouts.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// If no origin header, REJECT - legitimate browser WebSockets ALWAYS include Origin
	// Only non-browser clients (curl, scripts, mobile apps) omit Origin header
	// Allowing empty Origin bypasses CORS entirely - security vulnerability
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	// If config is nil, allow by default (fail open for tests/development)
	if h.config == nil {
		return true
	}

	// Check against allowed origins from config
	for _, allowedOrigin := range h.config.Security.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	// Origin not in allowed list - sanitize origin to prevent log injection
	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
