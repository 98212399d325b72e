// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

// Package api provides HTTP routing using Chi router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/uplift-hq/uplift/internal/config"
	"github.com/uplift-hq/uplift/internal/middleware"
)

// Router sets up HTTP routes using Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	adminKey      func(http.HandlerFunc) http.HandlerFunc
}

// NewRouter creates a router for the given handler.
//
// CORS origins, rate limits, and the admin key come from the security
// section of the configuration.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	chiMw := NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.TrustedProxies,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)

	return &Router{
		handler:       handler,
		chiMiddleware: chiMw,
		adminKey:      middleware.RequireAdminKey(cfg.Security.AdminKey, cfg.Server.IsProduction()),
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
// This allows our existing middleware to work with Chi's r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Setup configures all HTTP routes using Chi router.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(RequestIDWithLogging())        // Add X-Request-ID header with logging context
	r.Use(router.chiMiddleware.RealIP()) // Honor forwarded headers from trusted proxies only
	r.Use(chimiddleware.Recoverer)       // Recover from panics
	r.Use(router.chiMiddleware.CORS())   // CORS must be global to handle OPTIONS preflight

	// ========================
	// Health Endpoints
	// ========================
	// Permissive rate limiting (1000/min) for health endpoints
	// Allows frequent monitoring while preventing abuse
	r.Route("/api/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	// ========================
	// Admin Refresh Endpoints
	// ========================
	// Strict rate limiting: each trigger fans out to upstream APIs and
	// rewrites an entire cached collection
	r.Route("/api/refresh", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAdmin())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(router.adminKey))

		r.Post("/ted-talks", router.handler.RefreshTedTalks)
		r.Post("/ngos", router.handler.RefreshNgos)
	})

	// ========================
	// Core API Endpoints
	// ========================
	r.Route("/api", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())

		// JSON endpoints carry HTTP metrics instrumentation; cached content
		// lists additionally get gzip compression
		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware(middleware.PrometheusMetrics))

			r.Get("/map", router.handler.CheckIns)
			r.With(router.chiMiddleware.RateLimitWrite()).Post("/map", router.handler.CreateCheckIn)
			r.With(chiMiddleware(middleware.Compression)).Get("/content", router.handler.Content)
			r.With(chiMiddleware(middleware.Compression)).Get("/action-hub", router.handler.ActionHub)
			r.Get("/messages", router.handler.Messages)
			r.With(router.chiMiddleware.RateLimitWrite()).Post("/send-message", router.handler.SendMessage)
		})

		// WebSocket upgrade needs the raw ResponseWriter (http.Hijacker),
		// so it stays outside the instrumented group
		r.Get("/ws", router.handler.WebSocket)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
