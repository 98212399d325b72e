// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/uplift-hq/uplift/internal/config"
	"github.com/uplift-hq/uplift/internal/logging"
	"github.com/uplift-hq/uplift/internal/realtime"
	ws "github.com/uplift-hq/uplift/internal/websocket"
)

// RealtimeComponents holds the NATS chat relay components for lifecycle
// management.
//
// The bridge's run loop is supervised separately (ChatBridgeService); this
// struct owns the connections underneath it: the optional embedded server,
// the publisher behind the Notifier, and the bridge's subscriber.
type RealtimeComponents struct {
	server     *realtime.EmbeddedServer
	publisher  *realtime.Publisher
	notifier   *realtime.Notifier
	subscriber *realtime.Subscriber
	bridge     *realtime.ChatBridge

	mu     sync.Mutex
	closed bool
}

// InitRealtime initializes the NATS chat relay when NATS_ENABLED=true.
// Returns nil, nil when the relay is disabled; chat then persists to Mongo
// only and clients poll GET /api/messages for updates.
//
// Initialization order:
//  1. Embedded NATS server (if NATS_EMBEDDED_SERVER=true), else external URL
//  2. Publisher with circuit breaker, wrapped in the fire-and-forget Notifier
//  3. Subscriber and ChatBridge feeding the WebSocket hub
//
// Any step failing shuts down the components created so far.
func InitRealtime(cfg *config.Config, hub *ws.Hub) (*RealtimeComponents, error) {
	if !cfg.NATS.Enabled {
		logging.Info().Msg("Realtime chat relay disabled (NATS_ENABLED=false)")
		return nil, nil
	}

	logging.Info().Msg("Initializing realtime chat relay...")

	components := &RealtimeComponents{}

	var natsURL string
	if cfg.NATS.EmbeddedServer {
		server, err := realtime.NewEmbeddedServer(realtime.ServerConfig{
			Host: cfg.NATS.Host,
			Port: cfg.NATS.Port,
		})
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS server: %w", err)
		}
		components.server = server
		natsURL = server.ClientURL()
		logging.Info().Str("url", natsURL).Msg("Embedded NATS server started")
	} else {
		natsURL = cfg.NATS.URL
		logging.Info().Str("url", natsURL).Msg("Using external NATS server")
	}

	wmLogger := realtime.NewWatermillLogger(logging.Logger())

	publisher, err := realtime.NewPublisher(realtime.DefaultPublisherConfig(natsURL), wmLogger)
	if err != nil {
		components.Shutdown(context.Background())
		return nil, fmt.Errorf("create publisher: %w", err)
	}
	publisher.SetCircuitBreaker(realtime.NewPublishBreaker())
	components.publisher = publisher
	components.notifier = realtime.NewNotifier(publisher)
	logging.Info().Msg("Chat publisher created")

	subCfg := realtime.DefaultSubscriberConfig(natsURL)
	if cfg.NATS.SubscribersCount > 0 {
		subCfg.SubscribersCount = cfg.NATS.SubscribersCount
	}
	if cfg.NATS.CloseTimeout > 0 {
		subCfg.CloseTimeout = cfg.NATS.CloseTimeout
	}

	subscriber, err := realtime.NewSubscriber(subCfg, wmLogger)
	if err != nil {
		components.Shutdown(context.Background())
		return nil, fmt.Errorf("create subscriber: %w", err)
	}
	components.subscriber = subscriber
	components.bridge = realtime.NewChatBridge(subscriber, hub)
	logging.Info().Msg("Chat bridge created")

	return components, nil
}

// Notifier returns the fire-and-forget publish surface for HTTP handlers,
// or nil if the relay is disabled.
func (c *RealtimeComponents) Notifier() *realtime.Notifier {
	if c == nil {
		return nil
	}
	return c.notifier
}

// Bridge returns the NATS-to-WebSocket bridge for supervision, or nil if
// the relay is disabled.
func (c *RealtimeComponents) Bridge() *realtime.ChatBridge {
	if c == nil {
		return nil
	}
	return c.bridge
}

// Shutdown closes connections in reverse dependency order: subscriber,
// then publisher, then the embedded server. Safe to call more than once
// and on a nil receiver. The bridge run loop is stopped by the supervisor
// before this runs.
func (c *RealtimeComponents) Shutdown(ctx context.Context) {
	if c == nil {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	logging.Info().Msg("Shutting down realtime components...")

	if c.subscriber != nil {
		if err := c.subscriber.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing subscriber")
		}
	}
	if c.notifier != nil {
		if err := c.notifier.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing publisher")
		}
	}
	if c.server != nil {
		if err := c.server.Shutdown(ctx); err != nil {
			logging.Error().Err(err).Msg("Error shutting down embedded NATS server")
		}
	}

	logging.Info().Msg("Realtime shutdown complete")
}
