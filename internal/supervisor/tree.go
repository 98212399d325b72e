// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig tunes restart behavior for every supervisor in the tree.
// Zero fields fall back to suture's stock values.
type TreeConfig struct {
	FailureThreshold float64       // failures tolerated before backing off (default 5)
	FailureDecay     float64       // seconds for one failure to decay away (default 30)
	FailureBackoff   time.Duration // pause once the threshold is crossed (default 15s)
	ShutdownTimeout  time.Duration // per-service stop budget during shutdown (default 10s)
}

// withDefaults fills zero fields with suture's stock values.
func (c TreeConfig) withDefaults() TreeConfig {
	if c.FailureThreshold == 0 {
		c.FailureThreshold = 5.0
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = 30.0
	}
	if c.FailureBackoff == 0 {
		c.FailureBackoff = 15 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	return c
}

// DefaultTreeConfig returns the tuning used when no overrides apply.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{}.withDefaults()
}

// SupervisorTree is the process-wide suture hierarchy: one root
// supervisor owning a child supervisor per concern.
//
//	uplift
//	├── data-layer       content refresher
//	├── messaging-layer  websocket hub, chat bridge, embedded broker
//	└── api-layer        http server
//
// The split isolates crash loops. A messaging layer stuck in backoff
// does not touch the api layer, so cached content keeps serving while
// the relay recovers, and vice versa.
type SupervisorTree struct {
	root      *suture.Supervisor
	data      *suture.Supervisor
	messaging *suture.Supervisor
	api       *suture.Supervisor
}

// NewSupervisorTree builds the three-layer tree. Suture lifecycle
// events (failures, backoff, restarts) flow through sutureslog into
// the given logger, which child supervisors inherit from the root.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	config = config.withDefaults()

	spec := suture.Spec{
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}

	rootSpec := spec
	rootSpec.EventHook = (&sutureslog.Handler{Logger: logger}).MustHook()

	t := &SupervisorTree{
		root:      suture.New("uplift", rootSpec),
		data:      suture.New("data-layer", spec),
		messaging: suture.New("messaging-layer", spec),
		api:       suture.New("api-layer", spec),
	}
	t.root.Add(t.data)
	t.root.Add(t.messaging)
	t.root.Add(t.api)
	return t, nil
}

// Root exposes the root supervisor for callers that need suture
// operations the tree does not wrap.
func (t *SupervisorTree) Root() *suture.Supervisor {
	return t.root
}

// AddDataService supervises svc under the data layer (the content
// refresher lives here).
func (t *SupervisorTree) AddDataService(svc suture.Service) suture.ServiceToken {
	return t.data.Add(svc)
}

// AddMessagingService supervises svc under the messaging layer (the
// WebSocket hub, the chat bridge, and NATS components when enabled).
func (t *SupervisorTree) AddMessagingService(svc suture.Service) suture.ServiceToken {
	return t.messaging.Add(svc)
}

// AddAPIService supervises svc under the api layer (the HTTP server).
func (t *SupervisorTree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// Serve runs the tree and blocks until ctx is canceled and shutdown
// completes.
func (t *SupervisorTree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground runs the tree in its own goroutine. The returned
// channel yields the terminal error once the tree stops.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that were still running after
// their shutdown budget expired. Main logs this on exit to surface
// hung services.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
