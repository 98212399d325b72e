// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package fetch

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/uplift-hq/uplift/internal/logging"
	"github.com/uplift-hq/uplift/internal/metrics"
	"github.com/uplift-hq/uplift/internal/models"
)

// Ensure the breaker wrappers implement the source interfaces
var (
	_ TalksSource = (*BreakerTalksSource)(nil)
	_ NgosSource  = (*BreakerNgosSource)(nil)
)

// Breaker names used in logs and metric labels.
const (
	breakerNameTED        = "ted-api"
	breakerNameProPublica = "propublica-api"
)

// newContentBreaker builds the circuit breaker guarding one upstream
// source.
//
// Configuration:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 10 requests
//
// DETERMINISM NOTE: The circuit breaker uses real time (via
// sony/gobreaker) for its interval and timeout calculations.
func newContentBreaker(name string) *gobreaker.CircuitBreaker[interface{}] {
	// Initialize circuit breaker state metrics
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed

	return gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().
					Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening upstream circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().
				Str("breaker", name).
				Str("from", fromStr).
				Str("to", toStr).
				Msg("[CIRCUIT BREAKER] Upstream circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})
}

// executeBreaker wraps one upstream call with circuit breaker protection
// and records the outcome in the breaker request metric.
func executeBreaker(cb *gobreaker.CircuitBreaker[interface{}], name string, fn func() (interface{}, error)) (interface{}, error) {
	result, err := cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(name, "rejected").Inc()
			logging.Warn().Err(err).Str("breaker", name).Msg("[CIRCUIT BREAKER] Upstream request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(name, "failure").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(name, "success").Inc()
	return result, nil
}

// isBreakerRejection reports whether err is the breaker refusing the
// call rather than the wrapped source failing.
func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// BreakerTalksSource wraps a TalksSource with circuit breaker protection.
// Prevents cascading failures when the talks API is unavailable or slow.
type BreakerTalksSource struct {
	source TalksSource
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewBreakerTalksSource wraps source with a talks circuit breaker.
func NewBreakerTalksSource(source TalksSource) *BreakerTalksSource {
	return &BreakerTalksSource{
		source: source,
		cb:     newContentBreaker(breakerNameTED),
		name:   breakerNameTED,
	}
}

// FetchTalks delegates to the wrapped source under breaker protection.
// A rejection by an open circuit surfaces as an *UpstreamError wrapping
// the breaker sentinel.
func (b *BreakerTalksSource) FetchTalks(ctx context.Context) ([]models.Talk, error) {
	result, err := executeBreaker(b.cb, b.name, func() (interface{}, error) {
		return b.source.FetchTalks(ctx)
	})
	if err != nil {
		if isBreakerRejection(err) {
			return nil, &UpstreamError{Source: SourceTED, Err: err}
		}
		return nil, err
	}

	talks, ok := result.([]models.Talk)
	if !ok {
		return nil, errors.New("circuit breaker: unexpected result type for FetchTalks")
	}
	return talks, nil
}

// Ping delegates to the wrapped source under breaker protection, so a
// tripped circuit also reports the upstream as unhealthy.
func (b *BreakerTalksSource) Ping(ctx context.Context) error {
	_, err := executeBreaker(b.cb, b.name, func() (interface{}, error) {
		return nil, b.source.Ping(ctx)
	})
	return err
}

// State returns the current circuit breaker state.
func (b *BreakerTalksSource) State() gobreaker.State {
	return b.cb.State()
}

// BreakerNgosSource wraps an NgosSource with circuit breaker protection.
// Prevents cascading failures when the nonprofit API is unavailable or
// slow.
type BreakerNgosSource struct {
	source NgosSource
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewBreakerNgosSource wraps source with an NGO circuit breaker.
func NewBreakerNgosSource(source NgosSource) *BreakerNgosSource {
	return &BreakerNgosSource{
		source: source,
		cb:     newContentBreaker(breakerNameProPublica),
		name:   breakerNameProPublica,
	}
}

// FetchNgos delegates to the wrapped source under breaker protection.
// A rejection by an open circuit surfaces as an *UpstreamError wrapping
// the breaker sentinel.
func (b *BreakerNgosSource) FetchNgos(ctx context.Context) ([]models.NgoRecord, error) {
	result, err := executeBreaker(b.cb, b.name, func() (interface{}, error) {
		return b.source.FetchNgos(ctx)
	})
	if err != nil {
		if isBreakerRejection(err) {
			return nil, &UpstreamError{Source: SourceProPublica, Err: err}
		}
		return nil, err
	}

	ngos, ok := result.([]models.NgoRecord)
	if !ok {
		return nil, errors.New("circuit breaker: unexpected result type for FetchNgos")
	}
	return ngos, nil
}

// Ping delegates to the wrapped source under breaker protection, so a
// tripped circuit also reports the upstream as unhealthy.
func (b *BreakerNgosSource) Ping(ctx context.Context) error {
	_, err := executeBreaker(b.cb, b.name, func() (interface{}, error) {
		return nil, b.source.Ping(ctx)
	})
	return err
}

// State returns the current circuit breaker state.
func (b *BreakerNgosSource) State() gobreaker.State {
	return b.cb.State()
}
