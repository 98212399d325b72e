// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package models

import (
	"time"
)

// HealthStatus represents the system health payload served by GET /api/health.
//
// Fields:
//   - Status: "ok" when the database responds to ping, "degraded" otherwise
//   - Timestamp: Server time of the health check
//   - Uptime: Seconds since process start
//   - DBStatus: "connected" or "disconnected"
//   - Version: Build version string
//   - Environment: Deployment environment ("production" or "development")
//   - LastRefresh: Completion time of the most recent content refresh,
//     omitted until the first refresh finishes
type HealthStatus struct {
	Status      string     `json:"status"`
	Timestamp   time.Time  `json:"timestamp"`
	Uptime      float64    `json:"uptime"`
	DBStatus    string     `json:"dbStatus"`
	Version     string     `json:"version,omitempty"`
	Environment string     `json:"environment,omitempty"`
	LastRefresh *time.Time `json:"lastRefresh,omitempty"`
}
