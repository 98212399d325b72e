// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/uplift-hq/uplift/internal/metrics"
	"github.com/uplift-hq/uplift/internal/models"
)

// maxErrorBodySize limits how much of an upstream error response is read
// for error reporting. Larger bodies are truncated.
const maxErrorBodySize = 64 * 1024 // 64KB

// defaultTimeout applies when the configuration carries no client timeout.
const defaultTimeout = 30 * time.Second

// Outbound courtesy limit applied before every upstream request. Refreshes
// run every few hours and readiness probes are rate limited inbound, so one
// request per second with a small burst never throttles normal operation.
const (
	courtesyRate  = rate.Limit(1)
	courtesyBurst = 3
)

// readBodyForError reads the response body for error reporting (max 64KB).
// Returns the body content or a placeholder message if reading fails.
func readBodyForError(r io.Reader) []byte {
	limitedReader := io.LimitReader(r, maxErrorBodySize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// retryingClient is the HTTP layer shared by both content fetchers.
//
// It retries HTTP 429 responses with exponential backoff (1s, 2s, 4s,
// 8s, 16s), honoring the Retry-After header when the upstream provides
// one. All other statuses pass through to the caller. Each retry is
// counted in the upstream retry metric. An outbound token-bucket limiter
// paces every request, retries included.
//
// Thread Safety: safe for concurrent use. Each call builds its own request.
type retryingClient struct {
	source         string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
}

func newRetryingClient(source string, timeout time.Duration) retryingClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return retryingClient{
		source:         source,
		client:         &http.Client{Timeout: timeout},
		limiter:        rate.NewLimiter(courtesyRate, courtesyBurst),
		maxRetries:     5,
		retryBaseDelay: time.Second,
	}
}

// get performs a GET request with automatic rate limit handling. The
// context cancels limiter waits, in-flight requests, and backoff waits.
// A non-nil header replaces the default request headers.
func (c *retryingClient) get(ctx context.Context, reqURL string, header http.Header) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		if header != nil {
			req.Header = header.Clone()
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Rate limited. Close the body and retry with backoff.
		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		metrics.UpstreamRetries.WithLabelValues(c.source).Inc()

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// decodePayload decodes a JSON response body into result.
func decodePayload(resp *http.Response, result interface{}) error {
	decoder := json.NewDecoder(resp.Body)
	return decoder.Decode(result)
}

// orFallback substitutes the shared fallback text for blank upstream
// narrative fields.
func orFallback(s string) string {
	if strings.TrimSpace(s) == "" {
		return models.NoDescription
	}
	return s
}
