// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/uplift-hq/uplift/internal/metrics"
)

// statusRecorder captures the status code a handler writes so the request
// can be labeled after the fact. Everything else passes through to the
// wrapped ResponseWriter.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// PrometheusMetrics instruments a handler with the shared HTTP metrics:
// request count and latency labeled by method, path, and status, plus the
// in-flight request gauge.
//
// The route table is flat (no path parameters), so the raw request path is
// a bounded label.
func PrometheusMetrics(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		start := time.Now()
		// Handlers that never call WriteHeader implicitly send 200.
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		metrics.RecordAPIRequest(r.Method, r.URL.Path, strconv.Itoa(rec.status), time.Since(start))
	}
}
