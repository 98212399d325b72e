// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

// requestIDKey carries the per-request correlation ID. The request ID
// middleware stores it; Ctx and the response envelope read it back.
const requestIDKey contextKey = "request_id"

// GenerateRequestID creates a new correlation ID. A full UUID keeps IDs
// unique across restarts and replicas.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID returns a context carrying the given request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID stored in ctx, or the
// empty string when the request never passed through the ID middleware.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx returns a logger carrying the request's correlation ID, so every
// line produced while serving a request can be tied back to the
// X-Request-ID the client saw.
//
//	logging.Ctx(r.Context()).Info().Msg("Processing request")
//	// {"level":"info","request_id":"<uuid>","message":"Processing request"}
//
// Outside a request (no ID in ctx) this is the global logger.
func Ctx(ctx context.Context) *zerolog.Logger {
	logger := Logger()
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		logger = logger.With().Str("request_id", requestID).Logger()
	}
	return &logger
}

// WithComponent creates a child logger tagged with a component field.
//
//	audit := logging.WithComponent("admin")
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
