// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package content

import (
	"context"
	"time"

	"github.com/uplift-hq/uplift/internal/fetch"
	"github.com/uplift-hq/uplift/internal/logging"
	"github.com/uplift-hq/uplift/internal/metrics"
	"github.com/uplift-hq/uplift/internal/models"
)

// Refresh trigger labels recorded in refresh metrics and logs.
const (
	TriggerStartup   = "startup"
	TriggerScheduled = "scheduled"
	TriggerOnDemand  = "on_demand"
	TriggerAdmin     = "admin"
)

// Gateway is the slice of the storage API the pipeline uses.
// Implemented by store.Store for production use.
type Gateway interface {
	ListTalks(ctx context.Context, q models.ContentQuery) ([]models.Talk, error)
	ReplaceAllTalks(ctx context.Context, talks []models.Talk) (int, error)
	ListNgos(ctx context.Context, q models.ContentQuery) ([]models.NgoRecord, error)
	ReplaceAllNgos(ctx context.Context, ngos []models.NgoRecord) (int, error)
}

// Pipeline decides, per content type, whether the cached snapshot can be
// served and repopulates it from the upstream source when it cannot.
//
// Concurrent serve-triggered refreshes are not serialized. Two requests
// hitting an empty cache both fetch and both replace; last write wins
// and the collection converges to one complete snapshot.
type Pipeline struct {
	gateway Gateway
	talks   fetch.TalksSource
	ngos    fetch.NgosSource
}

// NewPipeline creates a content pipeline over the given storage gateway
// and upstream sources.
func NewPipeline(gateway Gateway, talks fetch.TalksSource, ngos fetch.NgosSource) *Pipeline {
	return &Pipeline{
		gateway: gateway,
		talks:   talks,
		ngos:    ngos,
	}
}

// ServeTalks returns cached talks matching q. An empty cache result
// triggers a synchronous fetch-and-replace, and the fresh records come
// back truncated to the requested limit. The returned flag reports
// whether a refresh ran.
//
// A search that matches nothing is indistinguishable from an empty
// cache here: both refresh the collection, and the fresh set is
// returned without re-applying the search filter.
func (p *Pipeline) ServeTalks(ctx context.Context, q models.ContentQuery) ([]models.Talk, bool, error) {
	cached, err := p.gateway.ListTalks(ctx, q)
	if err != nil {
		return nil, false, err
	}
	if len(cached) > 0 {
		return cached, false, nil
	}

	fresh, _, err := p.refreshTalks(ctx, TriggerOnDemand)
	if err != nil {
		return nil, false, err
	}

	limit := normalizeLimit(q.Limit, models.DefaultTalkLimit)
	if len(fresh) > limit {
		fresh = fresh[:limit]
	}
	return fresh, true, nil
}

// ServeNgos returns cached NGO records matching q, with the same
// refresh-on-empty behavior as ServeTalks.
func (p *Pipeline) ServeNgos(ctx context.Context, q models.ContentQuery) ([]models.NgoRecord, bool, error) {
	cached, err := p.gateway.ListNgos(ctx, q)
	if err != nil {
		return nil, false, err
	}
	if len(cached) > 0 {
		return cached, false, nil
	}

	fresh, _, err := p.refreshNgos(ctx, TriggerOnDemand)
	if err != nil {
		return nil, false, err
	}

	limit := normalizeLimit(q.Limit, models.DefaultNgoLimit)
	if len(fresh) > limit {
		fresh = fresh[:limit]
	}
	return fresh, true, nil
}

// RefreshTalks unconditionally fetches the upstream talks catalog and
// replaces the cached collection, returning the stored record count.
// The cache's current state is never consulted.
func (p *Pipeline) RefreshTalks(ctx context.Context, trigger string) (int, error) {
	_, count, err := p.refreshTalks(ctx, trigger)
	return count, err
}

// RefreshNgos unconditionally fetches the upstream NGO listing and
// replaces the cached collection, returning the stored record count.
func (p *Pipeline) RefreshNgos(ctx context.Context, trigger string) (int, error) {
	_, count, err := p.refreshNgos(ctx, trigger)
	return count, err
}

func (p *Pipeline) refreshTalks(ctx context.Context, trigger string) ([]models.Talk, int, error) {
	start := time.Now()

	talks, err := p.talks.FetchTalks(ctx)
	var count int
	if err == nil {
		count, err = p.gateway.ReplaceAllTalks(ctx, talks)
	}

	metrics.RecordRefresh(fetch.SourceTED, trigger, time.Since(start), count, err)
	if err != nil {
		return nil, 0, err
	}

	logging.Info().
		Str("trigger", trigger).
		Int("count", count).
		Dur("duration", time.Since(start)).
		Msg("Talks cache replaced")
	return talks, count, nil
}

func (p *Pipeline) refreshNgos(ctx context.Context, trigger string) ([]models.NgoRecord, int, error) {
	start := time.Now()

	ngos, err := p.ngos.FetchNgos(ctx)
	var count int
	if err == nil {
		count, err = p.gateway.ReplaceAllNgos(ctx, ngos)
	}

	metrics.RecordRefresh(fetch.SourceProPublica, trigger, time.Since(start), count, err)
	if err != nil {
		return nil, 0, err
	}

	logging.Info().
		Str("trigger", trigger).
		Int("count", count).
		Dur("duration", time.Since(start)).
		Msg("NGO cache replaced")
	return ngos, count, nil
}

// normalizeLimit resolves a requested limit against the per-type default
// and the global cap.
func normalizeLimit(requested, fallback int) int {
	if requested <= 0 {
		return fallback
	}
	if requested > models.MaxListLimit {
		return models.MaxListLimit
	}
	return requested
}
