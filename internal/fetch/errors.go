// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package fetch

import (
	"errors"
	"fmt"
)

// Source labels used in errors, logs, and metrics.
const (
	SourceTED        = "ted"
	SourceProPublica = "propublica"
)

// UpstreamError describes a failed call to a third-party content API.
//
// StatusCode is the upstream HTTP status when the call completed with an
// unexpected status, and zero when the call never completed (network
// error, decode failure, rejected by an open circuit breaker).
//
// Handlers map this error to a 500 response with a generic message. The
// wrapped error is for server-side logs only and must not reach clients.
type UpstreamError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream %s: status %d: %v", e.Source, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream %s: %v", e.Source, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsUpstreamError reports whether err is or wraps an *UpstreamError.
func IsUpstreamError(err error) bool {
	var upstreamErr *UpstreamError
	return errors.As(err, &upstreamErr)
}
