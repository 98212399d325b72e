// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

// Package main is the entry point for the Uplift server application.
//
// Uplift is the backend for a community action platform: neighbors drop
// check-ins on a shared map, browse curated TED talks and vetted NGOs,
// and talk to each other in a realtime community chat.
//
// # Application Architecture
//
// The server runs under a suture v4 supervisor tree:
//
//	RootSupervisor ("uplift")
//	├── DataSupervisor ("data-layer")
//	│   └── Content refresher (6h TED talk / NGO cache refresh)
//	├── MessagingSupervisor ("messaging-layer")
//	│   ├── WebSocket hub (realtime chat fan-out)
//	│   └── Chat bridge (NATS -> WebSocket relay)
//	└── APISupervisor ("api-layer")
//	    └── HTTP server (REST API + WebSocket upgrade)
//
// Component initialization order:
//
//  1. Configuration: Koanf v2 with environment variables and config files
//  2. Logging: zerolog with JSON/console output modes
//  3. Storage: MongoDB with index creation (2dsphere for map queries)
//  4. Upstream clients: TED and ProPublica behind circuit breakers
//  5. Content pipeline and refresher: cache-and-refresh for external content
//  6. Realtime: embedded or external NATS, publisher, chat bridge
//  7. HTTP server: Chi router with middleware stack and Swagger docs
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (see .env.example)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// Required settings:
//   - MONGO_URI: MongoDB connection string
//
// Common settings:
//   - PORT: HTTP listen port (default: 5000)
//   - TED_API_KEY / PROPUBLICA_API_KEY: Upstream API credentials
//   - REFRESH_INTERVAL: Content refresh cadence (default: 6h)
//   - NATS_ENABLED: Realtime chat relay (default: true, embedded server)
//   - ADMIN_KEY: Shared secret for the force-refresh endpoints
//   - APP_ENV: Set to "production" to enforce admin auth and redact
//     error details
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete
//   - Stops the refresher, chat bridge, and WebSocket hub
//   - Closes NATS and MongoDB connections
//
// # Example Usage
//
// Local development against a local MongoDB:
//
//	export MONGO_URI=mongodb://localhost:27017
//	./uplift
//
// Production:
//
//	export APP_ENV=production
//	export MONGO_URI=mongodb://mongo:27017
//	export ADMIN_KEY=$(openssl rand -hex 32)
//	export CORS_ORIGINS=https://uplift.example.org
//	./uplift
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	_ "github.com/uplift-hq/uplift/docs" // Import generated swagger docs
	"github.com/uplift-hq/uplift/internal/api"
	"github.com/uplift-hq/uplift/internal/config"
	"github.com/uplift-hq/uplift/internal/content"
	"github.com/uplift-hq/uplift/internal/fetch"
	"github.com/uplift-hq/uplift/internal/logging"
	"github.com/uplift-hq/uplift/internal/metrics"
	"github.com/uplift-hq/uplift/internal/store"
	"github.com/uplift-hq/uplift/internal/supervisor"
	"github.com/uplift-hq/uplift/internal/supervisor/services"
	ws "github.com/uplift-hq/uplift/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Uplift with supervisor tree")
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("mongo_database", cfg.Mongo.Database).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Dur("refresh_interval", cfg.Refresh.Interval).
		Msg("Configuration loaded")

	metrics.AppInfo.WithLabelValues(api.Version, runtime.Version()).Set(1)

	// Initialize MongoDB storage and the indexes the query paths depend on
	st, err := store.New(context.Background(), &cfg.Mongo)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		if err := st.Close(closeCtx); err != nil {
			logging.Error().Err(err).Msg("Error closing MongoDB connection")
		}
	}()

	if err := st.EnsureIndexes(context.Background()); err != nil {
		logging.Fatal().Err(err).Msg("Failed to create MongoDB indexes")
	}
	logging.Info().Msg("Storage initialized successfully")

	// Upstream content clients behind circuit breakers. The breakers prevent
	// cascading failures when TED or ProPublica are unavailable; the cached
	// snapshots keep serving regardless.
	talks := fetch.NewBreakerTalksSource(fetch.NewTEDClient(&cfg.TED))
	ngos := fetch.NewBreakerNgosSource(fetch.NewProPublicaClient(&cfg.ProPublica))

	if err := talks.Ping(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("TED API unreachable at startup (cached talks still served)")
	}
	if err := ngos.Ping(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("ProPublica API unreachable at startup (cached NGOs still served)")
	}

	// Content pipeline and the background refresher over it
	pipeline := content.NewPipeline(st, talks, ngos)
	refresher := content.NewRefresher(pipeline, &cfg.Refresh)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create structured logger for supervisor using our slog adapter
	// This bridges zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	// Create supervisor tree
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// WebSocket hub for realtime chat fan-out (created before the bridge
	// so the relay has a broadcast target)
	wsHub := ws.NewHub()

	// Broadcast a notification to connected clients after each successful
	// content refresh so open tabs can refetch
	refresher.SetOnRefreshCompleted(wsHub.BroadcastRefreshCompleted)

	// Initialize the NATS chat relay (optional via NATS_ENABLED)
	rt, err := InitRealtime(cfg, wsHub)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize realtime chat relay")
	}

	// A typed-nil Notifier must not reach the handler as a non-nil
	// interface, so only assign when the relay is actually up.
	var notifier api.EventNotifier
	if rt.Notifier() != nil {
		notifier = rt.Notifier()
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
		logging.Warn().Msg("This should only be used for CI/CD test environments!")
	}

	if !cfg.Server.IsProduction() && cfg.Security.AdminKey == "" {
		logging.Warn().Msg("ADMIN_KEY is not set; force-refresh endpoints are open (development only)")
	}

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: CORS is configured with wildcard origin (CORS_ORIGINS=*)")
		logging.Warn().Msg("  ")
		logging.Warn().Msg("  This allows ANY website to make cross-origin requests to your API.")
		logging.Warn().Msg("  RECOMMENDED: Set specific origins in production:")
		logging.Warn().Msg("    CORS_ORIGINS=https://yourdomain.com,https://app.yourdomain.com")
		logging.Warn().Msg("============================================================")
	}

	handler := api.NewHandler(st, pipeline, refresher, talks, ngos, notifier, wsHub, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Data layer: the periodic content refresh schedule
	tree.AddDataService(services.NewRefresherService(refresher))
	logging.Info().Msg("Content refresher added to supervisor tree")

	// Messaging layer: hub first, then the bridge feeding it
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	if rt.Bridge() != nil {
		tree.AddMessagingService(services.NewChatBridgeService(rt.Bridge()))
		logging.Info().Msg("Chat bridge added to supervisor tree")
	}
	logging.Info().Msg("WebSocket hub added to supervisor tree")

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	// Close NATS connections after the supervised loops have stopped
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	rt.Shutdown(shutdownCtx)

	logging.Info().Msg("Application stopped gracefully")
}
