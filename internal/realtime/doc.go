// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

// Package realtime provides the NATS-backed chat relay layer.
//
// Chat messages are persisted first; delivery to connected browsers is a
// separate, best-effort concern handled here. The write path publishes
// stored messages to NATS subjects under "chat." and the ChatBridge
// subscribes to "chat.>" and fans the events out to the WebSocket hub.
// Publishing is fire-and-forget: a NATS outage degrades liveness of the
// chat view, never the API response.
//
// Components:
//
//   - Publisher: watermill-nats publisher with reconnect handling and
//     circuit breaker protection (core NATS, no JetStream)
//   - Notifier: the fire-and-forget publish surface used by HTTP handlers
//   - ChatBridge: supervised subscriber forwarding chat events to the hub
//   - EmbeddedServer: optional in-process NATS server for single-binary
//     deployments
//
// With NATS disabled the API constructs no Notifier and chat messages are
// persisted but not relayed; clients fall back to polling /api/messages.
package realtime
