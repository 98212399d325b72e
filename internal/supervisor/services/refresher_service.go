// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package services

import (
	"context"
	"fmt"
)

// StartStopRefresher interface matches the content refresher lifecycle.
//
// This interface abstracts the refresher's Start/Stop pattern, allowing the
// RefresherService wrapper to adapt it to suture's Serve pattern without
// modifying the existing refresher code.
//
// Satisfied by *content.Refresher from internal/content/refresher.go:
//   - Start(ctx context.Context) error
//   - Stop() error
type StartStopRefresher interface {
	Start(ctx context.Context) error
	Stop() error
}

// RefresherService wraps the content refresher as a supervised service.
//
// It adapts the Start/Stop lifecycle pattern to suture's Serve pattern:
//  1. Calls Start(ctx) to begin the periodic refresh loop
//  2. Waits for context cancellation
//  3. Calls Stop() for graceful shutdown
//
// The refresher handles its own goroutines internally via WaitGroup,
// so this wrapper simply orchestrates the lifecycle transitions.
type RefresherService struct {
	refresher StartStopRefresher
	name      string
}

// NewRefresherService creates a new refresher service wrapper.
//
// Example usage:
//
//	refresher := content.NewRefresher(pipeline, &cfg.Refresh)
//	svc := services.NewRefresherService(refresher)
//	tree.AddDataService(svc)
func NewRefresherService(refresher StartStopRefresher) *RefresherService {
	return &RefresherService{
		refresher: refresher,
		name:      "content-refresher",
	}
}

// Serve implements suture.Service.
//
// This method:
//  1. Starts the refresher (which spawns its refresh loop goroutine)
//  2. Blocks until the context is canceled
//  3. Stops the refresher (which waits for in-flight refreshes to complete)
//
// If Start() fails, the error is returned immediately, causing suture to
// restart the service according to its backoff policy.
func (s *RefresherService) Serve(ctx context.Context) error {
	// Start the refresher - this spawns the loop goroutine but returns immediately
	if err := s.refresher.Start(ctx); err != nil {
		return fmt.Errorf("content refresher start failed: %w", err)
	}

	// Wait for shutdown signal
	<-ctx.Done()

	// Stop the refresher - this blocks until the loop goroutine completes
	if err := s.refresher.Stop(); err != nil {
		return fmt.Errorf("content refresher stop failed: %w", err)
	}

	return ctx.Err()
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (s *RefresherService) String() string {
	return s.name
}
