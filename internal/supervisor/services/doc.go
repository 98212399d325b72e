// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

/*
Package services provides suture.Service wrappers for Uplift components.

This package adapts existing application components to the suture v4 supervision
model, translating various lifecycle patterns (Start/Stop, Run, ListenAndServe)
into suture's context-aware Serve pattern.

# Overview

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

The wrappers handle:
  - Lifecycle translation (Start/Stop to Serve pattern)
  - Graceful shutdown via context cancellation
  - Error propagation for supervisor restart decisions
  - Service identification via fmt.Stringer

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts ListenAndServe pattern to Serve
  - Configurable shutdown timeout for draining connections

WebSocket Hub (WebSocketHubService):
  - Wraps websocket.Hub with context support
  - Handles client connection cleanup on shutdown
  - Broadcasts shutdown notification to connected clients

Content Refresher (RefresherService):
  - Wraps content.Refresher with Start/Stop lifecycle
  - Runs the periodic TED talk and NGO cache refresh
  - Failures are logged within the refresher, never crash the service

Chat Bridge (ChatBridgeService):
  - Wraps realtime.ChatBridge's NATS-to-WebSocket relay loop
  - A subscription failure triggers a supervised restart
  - The NATS connection itself is owned by the composition root

# Usage Example

Creating and registering services:

	import (
	    "net/http"
	    "time"

	    "github.com/uplift-hq/uplift/internal/supervisor"
	    "github.com/uplift-hq/uplift/internal/supervisor/services"
	)

	func setupSupervisor(server *http.Server, hub *websocket.Hub, refresher *content.Refresher) {
	    tree, _ := supervisor.NewSupervisorTree(logger, config)

	    // HTTP server with 15s shutdown timeout
	    httpSvc := services.NewHTTPServerService(server, 15*time.Second)
	    tree.AddAPIService(httpSvc)

	    // WebSocket hub
	    wsSvc := services.NewWebSocketHubService(hub)
	    tree.AddMessagingService(wsSvc)

	    // Content refresher
	    refSvc := services.NewRefresherService(refresher)
	    tree.AddDataService(refSvc)

	    // Start supervision
	    tree.Serve(ctx)
	}

# Lifecycle Patterns

The package handles three common lifecycle patterns:

Start/Stop Pattern:

	type StartStopper interface {
	    Start(ctx context.Context) error
	    Stop() error
	}

	// Wrapped as:
	func (s *Service) Serve(ctx context.Context) error {
	    if err := s.component.Start(ctx); err != nil {
	        return err
	    }
	    <-ctx.Done()
	    return s.component.Stop()
	}

Run Pattern:

	type Runner interface {
	    Run(ctx context.Context) error  // Blocks until ctx canceled
	}

	// Wrapped as:
	func (s *Service) Serve(ctx context.Context) error {
	    return s.component.Run(ctx)
	}

ListenAndServe Pattern:

	type Listener interface {
	    ListenAndServe() error
	    Shutdown(ctx context.Context) error
	}

	// Wrapped as:
	func (s *Service) Serve(ctx context.Context) error {
	    go s.server.ListenAndServe()
	    <-ctx.Done()
	    return s.server.Shutdown(shutdownCtx)
	}

# Error Handling

Return values determine supervisor behavior:

	ctx.Err() after cancellation   -> shutdown requested, normal termination
	any other return, nil included -> counted as a failure, supervisor restarts
	suture.ErrDoNotRestart         -> service is dropped instead of restarted

Example error handling:

	func (s *RefresherService) Serve(ctx context.Context) error {
	    if err := s.refresher.Start(ctx); err != nil {
	        // Transient error - supervisor should restart
	        return fmt.Errorf("refresher start failed: %w", err)
	    }

	    <-ctx.Done()

	    if err := s.refresher.Stop(); err != nil {
	        return fmt.Errorf("refresher stop failed: %w", err)
	    }

	    return ctx.Err()  // Clean shutdown, no restart
	}

# Service Identification

All services implement fmt.Stringer for logging:

	func (s *HTTPServerService) String() string {
	    return "http-server"
	}

Suture uses this for log messages:

	INFO http-server: starting
	INFO http-server: stopped
	ERROR http-server: restarting after failure

# Testing

Services can be tested with mock components. The mock must mirror the real
lifecycle: ListenAndServe blocks until Shutdown releases it, then returns
http.ErrServerClosed, or Serve will wait forever for the listener goroutine:

	type stubServer struct {
	    closed chan struct{}
	}

	func (s *stubServer) ListenAndServe() error {
	    <-s.closed
	    return http.ErrServerClosed
	}

	func (s *stubServer) Shutdown(ctx context.Context) error {
	    close(s.closed)
	    return nil
	}

	func TestHTTPService(t *testing.T) {
	    stub := &stubServer{closed: make(chan struct{})}
	    svc := services.NewHTTPServerService(stub, time.Second)

	    ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	    defer cancel()

	    if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
	        t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
	    }
	}

# Thread Safety

All service wrappers are safe for concurrent use:
  - State is protected by mutexes where needed
  - Context cancellation is handled atomically
  - Multiple Serve calls are not supported (undefined behavior)

# See Also

  - internal/supervisor: SupervisorTree that manages these services
  - github.com/thejerf/suture/v4: Underlying supervision library
  - internal/websocket: WebSocket hub implementation
  - internal/content: Content refresher implementation
  - internal/realtime: Chat bridge implementation
*/
package services
