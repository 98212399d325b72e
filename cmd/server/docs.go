// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

// Package main provides the Uplift HTTP server
//
// Uplift API is the backend for a community action platform: a shared
// map of neighborhood check-ins, curated TED talks and vetted NGOs,
// and a realtime community chat.
//
// @title Uplift API
// @version 1.0
// @description Community action platform backend: map check-ins, curated content, and realtime chat
// @description
// @description ## Features
// @description
// @description - **Community Map**: Drop and browse check-ins pinned to GeoJSON points (MongoDB 2dsphere)
// @description - **Curated Content**: Cached TED talks refreshed from the upstream catalog every 6 hours
// @description - **Action Hub**: Vetted NGO listings sourced from the ProPublica Nonprofit Explorer
// @description - **Community Chat**: Message history plus realtime delivery over WebSocket
// @description - **Resilient Upstreams**: Circuit breakers keep cached content serving through outages
// @description
// @description ## Caching
// @description
// @description TED talks and NGO records are served from MongoDB-backed caches. A cache miss
// @description triggers an inline upstream fetch; a background refresher repopulates both
// @description caches on a fixed interval. Responses indicate freshness via `metadata.refreshed`.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address. Write endpoints
// @description and admin refresh endpoints carry stricter limits.
// @description Rate limit headers are included in responses: `X-RateLimit-Limit`, `X-RateLimit-Remaining`, `X-RateLimit-Reset`.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message",
// @description     "details": {}
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-08-25T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/uplift-hq/uplift/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:5000
// @BasePath /api
// @schemes http https
//
// @securityDefinitions.apikey AdminKeyAuth
// @in header
// @name X-Admin-Key
// @description Shared admin key for force-refresh endpoints. Enforced only when APP_ENV=production.
//
// @tag.name Core
// @tag.description Health and readiness endpoints for monitoring and orchestration probes
//
// @tag.name Map
// @tag.description Community map check-ins pinned to GeoJSON locations
//
// @tag.name Content
// @tag.description Cached TED talks and NGO listings served from MongoDB
//
// @tag.name Chat
// @tag.description Community chat history and message submission
//
// @tag.name Realtime
// @tag.description WebSocket connections for live chat and refresh notifications
//
// @tag.name Admin
// @tag.description Administrative force-refresh operations gated by X-Admin-Key
package main
