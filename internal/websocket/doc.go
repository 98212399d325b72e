// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

/*
Package websocket provides real-time delivery of chat and refresh events
to connected browsers.

The package implements a hub-and-spoke pattern on gorilla/websocket: a
single Hub owns the client set and fans messages out; each Client runs a
read pump (application pings) and a write pump (broadcasts plus protocol
pings) on its own goroutines.

Message Types:

  - new_message: a chat message was stored (relayed from NATS by the
    chat bridge, so every process's clients see it)
  - refresh_completed: a content refresh finished (source, count)
  - ping / pong: application-level keepalive

Delivery is best-effort. Broadcasts never block: a full hub buffer drops
the message and a full client buffer drops the client. Browsers recover
missed chat messages from GET /api/messages.

Usage:

	hub := websocket.NewHub()
	go hub.RunWithContext(ctx)

	// After persisting a chat message (bridge path preferred):
	hub.BroadcastNewMessage(stored)

	// Wired as the refresher completion callback:
	refresher.SetOnRefreshCompleted(hub.BroadcastRefreshCompleted)

The HTTP upgrade endpoint lives in internal/api; origin checking happens
there against the configured CORS origins before a Client is created.
*/
package websocket
