// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package middleware

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/uplift-hq/uplift/internal/logging"
	"github.com/uplift-hq/uplift/internal/models"
)

// AdminKeyHeader carries the shared admin key on force-refresh requests.
const AdminKeyHeader = "X-Admin-Key"

// RequireAdminKey gates a handler behind the X-Admin-Key header.
// Enforcement applies only when production is true; development and test
// deployments pass every request through so local refresh testing needs
// no key. An empty configured key never matches, so a production
// deployment without a key fails closed rather than open.
//
// Every production decision is audit-logged; rejected keys are masked
// before they reach the log stream.
func RequireAdminKey(adminKey string, production bool) func(http.HandlerFunc) http.HandlerFunc {
	audit := logging.NewSecurityLogger()
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !production {
				next(w, r)
				return
			}

			presented := r.Header.Get(AdminKeyHeader)
			if adminKey == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(adminKey)) != 1 {
				reason := "invalid_key"
				if presented == "" {
					reason = "missing_key"
				}
				audit.LogAdminAuthFailure(r.RemoteAddr, r.UserAgent(), r.URL.Path, reason, presented)
				writeAdminKeyError(w)
				return
			}

			audit.LogAdminAction(r.RemoteAddr, r.URL.Path, "force_refresh")
			next(w, r)
		}
	}
}

// writeAdminKeyError rejects the request before any handler work happens.
func writeAdminKeyError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)

	resp := models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    "AUTHORIZATION_ERROR",
			Message: "Missing or invalid admin key",
		},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode admin key error response")
	}
}
