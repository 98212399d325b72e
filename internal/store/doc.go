// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

/*
Package store provides MongoDB-backed persistence for the platform.

The Store type wraps a mongo.Client and exposes typed operations over four
collections:

  - checkins: map check-ins with GeoJSON locations
  - talks: cached TED talk records
  - ngos: cached ProPublica nonprofit records
  - messages: community chat messages

# Connection Lifecycle

New connects, pings the deployment, and returns a ready Store. EnsureIndexes
must be called once at startup before serving traffic; an index creation
failure is a fatal startup error because the checkins collection must carry
its 2dsphere index before serving the map. Close releases the underlying
client.

	st, err := store.New(ctx, &cfg.Mongo)
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer st.Close(context.Background())

	if err := st.EnsureIndexes(ctx); err != nil {
	    logging.Fatal().Err(err).Msg("Failed to create indexes")
	}

# Replace Semantics

Cached content collections (talks, ngos) are refreshed wholesale:
ReplaceAllTalks and ReplaceAllNgos delete every document and insert the new
batch. The two steps are not wrapped in a transaction, so a reader can
observe an empty or partial collection during a refresh. Callers accept this
window; the read path treats an empty result as a cache miss and refetches.

# Query Ordering

All list operations sort by createdAt descending (newest first) and apply a
limit. Limits are clamped to the model defaults when unset and to
models.MaxListLimit when oversized.
*/
package store
