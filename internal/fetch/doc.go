// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

/*
Package fetch provides the upstream content clients that populate the
cached talks and NGO collections.

Two independent adapters each expose a single fetch operation:

  - TEDClient implements TalksSource and pulls the talks catalog from
    the upstream talks API, mapping each entry into a models.Talk.
  - ProPublicaClient implements NgosSource and searches the ProPublica
    Nonprofit Explorer, mapping each organization into a
    models.NgoRecord.

Both clients share a common HTTP layer with a configurable timeout and
automatic retry on HTTP 429 responses (exponential backoff, honoring the
Retry-After header when the upstream provides one). Every failure mode
surfaces as an *UpstreamError carrying the source name and, when the
call completed, the upstream HTTP status.

Clients never write to storage. The content pipeline owns persistence
and calls a fetcher only when a cached collection needs repopulating.

Circuit Breakers:

BreakerTalksSource and BreakerNgosSource wrap the raw clients with
circuit breaker protection (sony/gobreaker). A source whose failure rate
reaches 60% over at least 10 requests is cut off for two minutes before
a half-open probe is allowed. Breaker state and transitions are exported
through the metrics package.

Example:

	talks := fetch.NewBreakerTalksSource(fetch.NewTEDClient(&cfg.TED))
	records, err := talks.FetchTalks(ctx)
	if err != nil {
		var upstreamErr *fetch.UpstreamError
		if errors.As(err, &upstreamErr) {
			log.Printf("fetch from %s failed: %v", upstreamErr.Source, err)
		}
	}
*/
package fetch
