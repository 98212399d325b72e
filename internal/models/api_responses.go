// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package models

import (
	"time"
)

// APIResponse is the envelope every HTTP endpoint answers with. Clients
// branch on Status: "success" means Data holds the payload, "error" means
// Error holds the failure. Metadata is always present.
//
// A successful talks query:
//
//	{
//	  "status": "success",
//	  "data": [{"talkId": "1109", "title": "...", ...}],
//	  "metadata": {
//	    "timestamp": "2026-08-25T12:00:00Z",
//	    "query_time_ms": 18
//	  }
//	}
//
// A rejected check-in:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "location and interest are required"
//	  },
//	  "metadata": {"timestamp": "2026-08-25T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata rides along with every response. Timestamp is the server time
// the response was built (RFC3339), QueryTimeMS the handler execution time,
// and RequestID the correlation ID echoed from the X-Request-ID header.
// Refreshed marks responses that triggered a synchronous upstream refresh
// before answering; served-from-cache responses omit it.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	Refreshed   bool      `json:"refreshed,omitempty"`
}

// APIError carries a machine-readable Code, a human-readable Message, and
// optional Details (per-field validation errors, debug context outside
// production).
//
// Codes in use:
//   - VALIDATION_ERROR: Invalid input parameters
//   - AUTHORIZATION_ERROR: Missing or wrong admin key
//   - UPSTREAM_ERROR: Third-party content API failure
//   - STORAGE_ERROR: Database operation failure
//   - RATE_LIMIT_EXCEEDED: Too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RefreshResult is the payload returned by the admin force-refresh endpoints.
// Count is the number of records stored by the completed refresh.
type RefreshResult struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Type    string `json:"type"`
}
