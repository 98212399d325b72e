// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package content

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/uplift-hq/uplift/internal/config"
	"github.com/uplift-hq/uplift/internal/fetch"
	"github.com/uplift-hq/uplift/internal/logging"
)

// Refresher runs the background content refresh schedule.
//
// After an optional initial refresh on startup, a repeating timer
// refreshes talks and NGOs independently at the configured interval.
// One content type failing does not block the other, and failures never
// stop the schedule. Manual triggers share a mutex with the scheduled
// refreshes, so at most one refresh cycle runs at a time per process.
type Refresher struct {
	pipeline    *Pipeline
	cfg         *config.RefreshConfig
	lastRefresh time.Time
	running     bool
	mu          sync.RWMutex
	refreshMu   sync.Mutex // Serializes scheduled and manual refresh cycles
	stopChan    chan struct{}
	wg          sync.WaitGroup

	onRefreshCompleted func(source string, count int)
}

// NewRefresher creates a refresher for the given pipeline.
func NewRefresher(pipeline *Pipeline, cfg *config.RefreshConfig) *Refresher {
	return &Refresher{
		pipeline: pipeline,
		cfg:      cfg,
		stopChan: make(chan struct{}),
	}
}

// SetOnRefreshCompleted sets the callback invoked after each successful
// refresh of one content type. Used to broadcast refresh notifications
// to connected clients.
func (r *Refresher) SetOnRefreshCompleted(callback func(source string, count int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRefreshCompleted = callback
}

// Start begins the refresh schedule. The initial startup refresh (when
// enabled) runs in the background; the timer starts once it completes.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("content refresher is already running")
	}
	r.running = true
	r.mu.Unlock()

	logging.Info().
		Dur("interval", r.cfg.Interval).
		Bool("on_startup", r.cfg.OnStartup).
		Msg("Starting content refresher")

	r.wg.Add(1)
	go r.run(ctx)

	return nil
}

// Stop halts the schedule and waits for any in-flight refresh to finish.
func (r *Refresher) Stop() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return fmt.Errorf("content refresher is not running")
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopChan)
	r.wg.Wait()
	logging.Info().Msg("Content refresher stopped")

	return nil
}

// LastRefreshTime returns when a refresh of either content type last
// succeeded, or the zero time if none has.
func (r *Refresher) LastRefreshTime() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastRefresh
}

// TriggerTalksRefresh runs a talks refresh now, serialized with the
// scheduled cycles. Returns the stored record count.
func (r *Refresher) TriggerTalksRefresh(ctx context.Context) (int, error) {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()

	ctx, cancel := r.refreshContext(ctx)
	defer cancel()

	count, err := r.pipeline.RefreshTalks(ctx, TriggerAdmin)
	if err != nil {
		return 0, err
	}
	r.noteRefresh(fetch.SourceTED, count)
	return count, nil
}

// TriggerNgosRefresh runs an NGO refresh now, serialized with the
// scheduled cycles. Returns the stored record count.
func (r *Refresher) TriggerNgosRefresh(ctx context.Context) (int, error) {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()

	ctx, cancel := r.refreshContext(ctx)
	defer cancel()

	count, err := r.pipeline.RefreshNgos(ctx, TriggerAdmin)
	if err != nil {
		return 0, err
	}
	r.noteRefresh(fetch.SourceProPublica, count)
	return count, nil
}

// run executes the startup refresh and then the timer loop.
func (r *Refresher) run(ctx context.Context) {
	defer r.wg.Done()

	if r.cfg.OnStartup {
		r.refreshAll(ctx, TriggerStartup)
	}

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopChan:
			return
		case <-ticker.C:
			r.refreshAll(ctx, TriggerScheduled)
		}
	}
}

// refreshContext applies the configured per-run budget to ctx.
func (r *Refresher) refreshContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, r.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// refreshAll refreshes both content types, logging failures without
// propagating them. The schedule continues regardless of outcome.
func (r *Refresher) refreshAll(ctx context.Context, trigger string) {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()

	ctx, cancel := r.refreshContext(ctx)
	defer cancel()

	if count, err := r.pipeline.RefreshTalks(ctx, trigger); err != nil {
		logging.Error().Err(err).Str("trigger", trigger).Msg("Talks refresh failed")
	} else {
		r.noteRefresh(fetch.SourceTED, count)
	}

	if count, err := r.pipeline.RefreshNgos(ctx, trigger); err != nil {
		logging.Error().Err(err).Str("trigger", trigger).Msg("NGO refresh failed")
	} else {
		r.noteRefresh(fetch.SourceProPublica, count)
	}
}

// noteRefresh records a successful refresh and fires the completion
// callback outside the state lock.
func (r *Refresher) noteRefresh(source string, count int) {
	r.mu.Lock()
	r.lastRefresh = time.Now()
	callback := r.onRefreshCompleted
	r.mu.Unlock()

	if callback != nil {
		callback(source, count)
	}
}
