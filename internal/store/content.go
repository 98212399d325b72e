// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/uplift-hq/uplift/internal/logging"
	"github.com/uplift-hq/uplift/internal/metrics"
	"github.com/uplift-hq/uplift/internal/models"
)

// ListTalks returns cached talks newest first. An empty result means the
// cache is empty or nothing matched the search; callers treat both as a
// cache miss.
func (s *Store) ListTalks(ctx context.Context, q models.ContentQuery) ([]models.Talk, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(clampLimit(q.Limit, models.DefaultTalkLimit))

	start := time.Now()
	cursor, err := s.talks.Find(ctx, talkFilter(q.Search), opts)
	if err != nil {
		metrics.RecordStoreOp("find", CollTalks, time.Since(start), err)
		return nil, wrapErr("find", CollTalks, err)
	}
	defer cursor.Close(ctx)

	talks := make([]models.Talk, 0)
	err = cursor.All(ctx, &talks)
	metrics.RecordStoreOp("find", CollTalks, time.Since(start), err)
	if err != nil {
		return nil, wrapErr("find", CollTalks, err)
	}
	return talks, nil
}

// ListNgos returns cached NGO records newest first.
func (s *Store) ListNgos(ctx context.Context, q models.ContentQuery) ([]models.NgoRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(clampLimit(q.Limit, models.DefaultNgoLimit))

	start := time.Now()
	cursor, err := s.ngos.Find(ctx, ngoFilter(q), opts)
	if err != nil {
		metrics.RecordStoreOp("find", CollNgos, time.Since(start), err)
		return nil, wrapErr("find", CollNgos, err)
	}
	defer cursor.Close(ctx)

	ngos := make([]models.NgoRecord, 0)
	err = cursor.All(ctx, &ngos)
	metrics.RecordStoreOp("find", CollNgos, time.Since(start), err)
	if err != nil {
		return nil, wrapErr("find", CollNgos, err)
	}
	return ngos, nil
}

// ReplaceAllTalks swaps the entire talks collection for the given batch and
// returns the number of records stored. Delete and insert are two separate
// operations; a concurrent reader can observe the window in between and
// treat it as a cache miss.
func (s *Store) ReplaceAllTalks(ctx context.Context, talks []models.Talk) (int, error) {
	now := time.Now().UTC()
	docs := make([]interface{}, len(talks))
	for i := range talks {
		if talks[i].CreatedAt.IsZero() {
			talks[i].CreatedAt = now
		}
		docs[i] = talks[i]
	}
	return s.replaceAll(ctx, CollTalks, docs)
}

// ReplaceAllNgos swaps the entire ngos collection for the given batch and
// returns the number of records stored.
func (s *Store) ReplaceAllNgos(ctx context.Context, ngos []models.NgoRecord) (int, error) {
	now := time.Now().UTC()
	docs := make([]interface{}, len(ngos))
	for i := range ngos {
		if ngos[i].CreatedAt.IsZero() {
			ngos[i].CreatedAt = now
		}
		docs[i] = ngos[i]
	}
	return s.replaceAll(ctx, CollNgos, docs)
}

// replaceAll implements the delete-then-insert swap shared by both content
// collections. InsertMany preserves slice order, so fetcher order survives
// into the collection.
func (s *Store) replaceAll(ctx context.Context, collection string, docs []interface{}) (int, error) {
	coll := s.db.Collection(collection)

	start := time.Now()
	del, err := coll.DeleteMany(ctx, bson.M{})
	metrics.RecordStoreOp("deleteMany", collection, time.Since(start), err)
	if err != nil {
		return 0, wrapErr("deleteMany", collection, err)
	}

	logging.Debug().
		Str("collection", collection).
		Int64("deleted", del.DeletedCount).
		Int("incoming", len(docs)).
		Msg("Replacing collection contents")

	// InsertMany rejects an empty batch, so an empty fetch result leaves the
	// collection empty after the delete.
	if len(docs) == 0 {
		return 0, nil
	}

	start = time.Now()
	res, err := coll.InsertMany(ctx, docs)
	metrics.RecordStoreOp("insertMany", collection, time.Since(start), err)
	if err != nil {
		return 0, wrapErr("insertMany", collection, err)
	}
	return len(res.InsertedIDs), nil
}

// CountTalks returns the number of cached talks.
func (s *Store) CountTalks(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := s.talks.CountDocuments(ctx, bson.M{})
	metrics.RecordStoreOp("count", CollTalks, time.Since(start), err)
	if err != nil {
		return 0, wrapErr("count", CollTalks, err)
	}
	return n, nil
}

// CountNgos returns the number of cached NGO records.
func (s *Store) CountNgos(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := s.ngos.CountDocuments(ctx, bson.M{})
	metrics.RecordStoreOp("count", CollNgos, time.Since(start), err)
	if err != nil {
		return 0, wrapErr("count", CollNgos, err)
	}
	return n, nil
}
