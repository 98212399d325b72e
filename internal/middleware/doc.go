// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

/*
Package middleware provides HTTP middleware components for the application.

This package implements infrastructure middleware for compression,
Prometheus metrics integration, and admin key authorization. The
components compose with the router's request-ID, CORS, and rate-limiting
layers to form the complete middleware stack for HTTP request processing.

Key Components:

  - Compression: Gzip compression for responses when the client accepts it
  - Prometheus Metrics: HTTP request/response instrumentation
  - Admin Key: X-Admin-Key gate for force-refresh endpoints (production only)

Middleware Stack:

The router adapts these HandlerFunc-shaped components into its chi chain.
A content listing route runs:

	middleware.PrometheusMetrics( // Layer 1: Metrics
	    middleware.Compression(    // Layer 2: Gzip
	        handler,               // Layer 3: Business logic
	    ),
	)

Admin endpoints add RequireAdminKey in front of the handler:

	middleware.RequireAdminKey(cfg.Security.AdminKey, cfg.Server.IsProduction())(
	    handler,
	)

Admin Key Details:

RequireAdminKey enforces the X-Admin-Key header only when the server runs
in production mode. Development and test deployments pass every request
through, so local refresh testing needs no key. Comparison is constant
time and an empty configured key never matches. Rejected requests get a
403 with the standard JSON error envelope before any handler work runs.

Thread Safety:

All middleware components are thread-safe:
  - Compression uses pooled per-request gzip writers
  - Prometheus metrics use atomic operations

See Also:

  - internal/api: HTTP handlers and router wiring these components
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
