// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package services

import (
	"context"
)

// BridgeRunner interface matches the chat bridge's supervised run loop.
//
// This interface allows the ChatBridgeService to work with the bridge
// without importing the realtime package, avoiding circular dependencies.
//
// Satisfied by *realtime.ChatBridge from internal/realtime/bridge.go:
//   - Run(ctx context.Context) error
type BridgeRunner interface {
	Run(ctx context.Context) error
}

// ChatBridgeService wraps the NATS-to-WebSocket chat bridge as a
// supervised service.
//
// The bridge's Run method already implements the suture.Service pattern,
// so this wrapper simply delegates to it and provides a name for logging.
// The underlying NATS subscription is owned by the caller and closed
// during application shutdown, not by this wrapper; a supervised restart
// re-subscribes on the existing connection.
//
// Example usage:
//
//	bridge := realtime.NewChatBridge(subscriber, hub)
//	svc := services.NewChatBridgeService(bridge)
//	tree.AddMessagingService(svc)
type ChatBridgeService struct {
	bridge BridgeRunner
	name   string
}

// NewChatBridgeService creates a new chat bridge service wrapper.
func NewChatBridgeService(bridge BridgeRunner) *ChatBridgeService {
	return &ChatBridgeService{
		bridge: bridge,
		name:   "chat-bridge",
	}
}

// Serve implements suture.Service.
//
// This method delegates to bridge.Run which:
//  1. Subscribes to the chat subjects on NATS
//  2. Relays each decoded event to the WebSocket hub
//  3. Returns ctx.Err() when the context is canceled
//
// A subscription failure is returned as an error, causing suture to
// restart the bridge according to its backoff policy.
func (s *ChatBridgeService) Serve(ctx context.Context) error {
	return s.bridge.Run(ctx)
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (s *ChatBridgeService) String() string {
	return s.name
}
