// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

/*
Package metrics provides Prometheus metrics collection and export for observability.

All metrics are registered on the default registry via promauto and exposed at
the /metrics endpoint in Prometheus text format.

# Available Metrics

HTTP Metrics:
  - api_requests_total: Total HTTP requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Storage Metrics:
  - mongo_op_duration_seconds: MongoDB operation duration (histogram)
    Labels: operation, collection
  - mongo_op_errors_total: Failed MongoDB operations (counter)
    Labels: operation, collection, error_type

Content Refresh Metrics:
  - content_refresh_duration_seconds: Refresh cycle duration (histogram)
    Labels: source (ted, propublica)
  - content_refresh_total: Completed refresh cycles (counter)
    Labels: source, trigger (startup, scheduled, on_demand, admin)
  - content_refresh_errors_total: Failed refresh cycles (counter)
    Labels: source, error_type
  - content_refresh_last_success_timestamp: Unix timestamp of last success (gauge)
    Labels: source
  - content_records_stored: Records stored by the last refresh (gauge)
    Labels: source

Upstream Fetch Metrics:
  - upstream_request_duration_seconds: Upstream API call duration (histogram)
    Labels: source
  - upstream_request_errors_total: Failed upstream calls (counter)
    Labels: source, error_type
  - upstream_retries_total: Retried upstream calls (counter)
    Labels: source

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests through breakers (counter)
    Labels: name, result (success, failure, rejected)
  - circuit_breaker_state_transitions_total: State transitions (counter)
    Labels: name, from_state, to_state

Realtime Metrics:
  - realtime_publishes_total: Events published to the broker (counter)
    Labels: event
  - realtime_publish_failures_total: Failed publishes (counter)
    Labels: event
  - realtime_messages_relayed_total: Broker messages relayed to clients (counter)

WebSocket Metrics:
  - websocket_connections: Active WebSocket connections (gauge)
  - websocket_messages_sent_total: Messages sent to clients (counter)
  - websocket_broadcasts_dropped_total: Broadcasts dropped on slow clients (counter)
  - websocket_errors_total: WebSocket errors (counter)
    Labels: error_type

# Usage Example

	import (
	    "github.com/uplift-hq/uplift/internal/metrics"
	    "github.com/prometheus/client_golang/prometheus/promhttp"
	)

	func main() {
	    http.Handle("/metrics", promhttp.Handler())

	    metrics.RecordAPIRequest("GET", "/api/content", "200", 23*time.Millisecond)
	    metrics.RecordStoreOp("find", "talks", 5*time.Millisecond, nil)
	    metrics.RecordRefresh("ted", "scheduled", 12*time.Second, 100, nil)
	}

# Cardinality Management

Endpoint labels use chi route patterns rather than raw URL paths, error types
are classified into a fixed set of constants, and per-user or per-channel
labels are avoided.

# Thread Safety

All recording functions are safe for concurrent use. The Prometheus client
library handles synchronization internally.
*/
package metrics
