// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - MongoDB operation performance
// - API endpoint latency and throughput
// - Content refresh cycles (TED talks, ProPublica NGOs)
// - Upstream API calls and circuit breakers
// - Realtime publishing and WebSocket connections

// Error type label values used by the classification helpers. Keeping these
// to a fixed set bounds metric cardinality.
const (
	ErrTypeTimeout  = "timeout"
	ErrTypeUpstream = "upstream"
	ErrTypeStorage  = "storage"
	ErrTypeDecode   = "decode"
	ErrTypeOther    = "other"
)

var (
	// Storage Metrics
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mongo_op_duration_seconds",
			Help:    "Duration of MongoDB operations in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s, 0.01s, 0.025s, 0.05s, 0.1s, 0.25s, 0.5s, 1s, 2.5s, 5s, 10s
		},
		[]string{"operation", "collection"},
	)

	StoreOpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongo_op_errors_total",
			Help: "Total number of failed MongoDB operations",
		},
		[]string{"operation", "collection", "error_type"},
	)

	StoreConnectionState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mongo_connection_state",
			Help: "MongoDB connection state (1=connected, 0=disconnected)",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Content Refresh Metrics
	RefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_refresh_duration_seconds",
			Help:    "Duration of content refresh cycles in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120}, // Upstream fetch plus store replace
		},
		[]string{"source"}, // "ted", "propublica"
	)

	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_refresh_total",
			Help: "Total number of completed content refresh cycles",
		},
		[]string{"source", "trigger"}, // trigger: "startup", "scheduled", "on_demand", "admin"
	)

	RefreshErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_refresh_errors_total",
			Help: "Total number of failed content refresh cycles",
		},
		[]string{"source", "error_type"},
	)

	RefreshLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "content_refresh_last_success_timestamp",
			Help: "Unix timestamp of the last successful refresh per source",
		},
		[]string{"source"},
	)

	RefreshRecordsStored = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "content_records_stored",
			Help: "Number of records stored by the last successful refresh",
		},
		[]string{"source"},
	)

	// Upstream Fetch Metrics
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of upstream API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	UpstreamRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_request_errors_total",
			Help: "Total number of failed upstream API calls",
		},
		[]string{"source", "error_type"},
	)

	UpstreamRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_retries_total",
			Help: "Total number of retried upstream API calls",
		},
		[]string{"source"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Realtime Publish Metrics
	RealtimePublishes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_publishes_total",
			Help: "Total number of events published to the message broker",
		},
		[]string{"event"}, // "new_message", "refresh_completed"
	)

	RealtimePublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_publish_failures_total",
			Help: "Total number of failed event publishes",
		},
		[]string{"event"},
	)

	RealtimeMessagesRelayed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_messages_relayed_total",
			Help: "Total number of broker messages relayed to WebSocket clients",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSBroadcastsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_broadcasts_dropped_total",
			Help: "Total number of broadcasts dropped on slow clients",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// System Metrics. Uptime comes from the default Go collector's
	// process_start_time_seconds, so only build info lives here.
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordStoreOp records a MongoDB operation metric
func RecordStoreOp(operation, collection string, duration time.Duration, err error) {
	StoreOpDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
	if err != nil {
		StoreOpErrors.WithLabelValues(operation, collection, ClassifyError(err)).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRefresh records a complete refresh cycle for one content source.
// On success it also updates the last-success timestamp and records-stored
// gauge; on failure the error is classified into a bounded label set.
func RecordRefresh(source, trigger string, duration time.Duration, count int, err error) {
	RefreshDuration.WithLabelValues(source).Observe(duration.Seconds())
	if err != nil {
		RefreshErrors.WithLabelValues(source, ClassifyError(err)).Inc()
		return
	}
	RefreshTotal.WithLabelValues(source, trigger).Inc()
	RefreshLastSuccess.WithLabelValues(source).Set(float64(time.Now().Unix()))
	RefreshRecordsStored.WithLabelValues(source).Set(float64(count))
}

// RecordUpstreamRequest records an upstream API call metric
func RecordUpstreamRequest(source string, duration time.Duration, err error) {
	UpstreamRequestDuration.WithLabelValues(source).Observe(duration.Seconds())
	if err != nil {
		UpstreamRequestErrors.WithLabelValues(source, ClassifyError(err)).Inc()
	}
}

// RecordPublish records an event publish attempt and its outcome
func RecordPublish(event string, err error) {
	RealtimePublishes.WithLabelValues(event).Inc()
	if err != nil {
		RealtimePublishFailures.WithLabelValues(event).Inc()
	}
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// ClassifyError maps an error to one of the fixed error_type label values.
// Classification is by message text because the packages that own the typed
// errors sit above this one in the import graph.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "context deadline"), strings.Contains(msg, "timeout"):
		return ErrTypeTimeout
	case strings.Contains(msg, "upstream"), strings.Contains(msg, "fetch"), strings.Contains(msg, "status"):
		return ErrTypeUpstream
	case strings.Contains(msg, "mongo"), strings.Contains(msg, "insert"), strings.Contains(msg, "delete"), strings.Contains(msg, "storage"):
		return ErrTypeStorage
	case strings.Contains(msg, "decode"), strings.Contains(msg, "unmarshal"), strings.Contains(msg, "json"):
		return ErrTypeDecode
	default:
		return ErrTypeOther
	}
}
