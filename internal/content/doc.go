// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

/*
Package content implements the cache-and-refresh pipeline for third-party
content (talks and NGO listings).

Serving model:

Pipeline.ServeTalks and Pipeline.ServeNgos query the cached collection
first, applying any search filter and limit. A non-empty result is
served as-is. An empty result triggers a synchronous fetch from the
upstream source followed by a full replace of the cached collection,
and the freshly fetched records are returned truncated to the requested
limit.

An empty search result is treated identically to an empty cache: both
trigger a full unfiltered refresh, and the fresh set is returned without
re-applying the search filter. The two cases are deliberately not
distinguished.

Replace semantics:

A refresh replaces the whole collection through the storage gateway's
replaceAll operation (delete-all then bulk-insert). The window between
the two steps is not transactionally guarded; a reader landing inside it
observes an empty collection and may trigger a redundant concurrent
refresh. Last write wins, and the collection always converges to one
complete upstream snapshot.

Scheduling:

Refresher runs the background schedule. An initial refresh runs once on
startup (configurable), then a repeating timer refreshes both content
types independently at the configured interval. Refresh failures are
logged and never stop the schedule. Admin-triggered refreshes go through
Refresher.TriggerTalksRefresh and Refresher.TriggerNgosRefresh and are
serialized with the scheduled ones.

Example:

	pipeline := content.NewPipeline(gateway, talksSource, ngosSource)
	refresher := content.NewRefresher(pipeline, &cfg.Refresh)
	if err := refresher.Start(ctx); err != nil {
		return err
	}
	defer refresher.Stop()

	talks, refreshed, err := pipeline.ServeTalks(ctx, models.ContentQuery{Limit: 20})
*/
package content
