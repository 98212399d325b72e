// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/uplift-hq/uplift/internal/config"
	"github.com/uplift-hq/uplift/internal/logging"
	"github.com/uplift-hq/uplift/internal/metrics"
)

// Collection names.
const (
	CollCheckins = "checkins"
	CollTalks    = "talks"
	CollNgos     = "ngos"
	CollMessages = "messages"
)

// Store wraps the MongoDB client and provides data access methods.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	cfg    *config.MongoConfig

	checkins *mongo.Collection
	talks    *mongo.Collection
	ngos     *mongo.Collection
	messages *mongo.Collection
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, cfg *config.MongoConfig) (*Store, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize)

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		disconnectQuietly(client)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.Database)
	st := &Store{
		client:   client,
		db:       db,
		cfg:      cfg,
		checkins: db.Collection(CollCheckins),
		talks:    db.Collection(CollTalks),
		ngos:     db.Collection(CollNgos),
		messages: db.Collection(CollMessages),
	}

	metrics.StoreConnectionState.Set(1)
	logging.Info().
		Str("database", cfg.Database).
		Msg("Connected to MongoDB")

	return st, nil
}

// EnsureIndexes creates the indexes the collections depend on. Callers treat
// a failure here as fatal: check-ins carry GeoJSON points for the map and the
// collection must not serve without its 2dsphere index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	start := time.Now()

	indexSets := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{
			coll: s.checkins,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "location", Value: "2dsphere"}},
					Options: options.Index().SetName("location_2dsphere"),
				},
				{
					Keys:    bson.D{{Key: "createdAt", Value: -1}},
					Options: options.Index().SetName("createdAt_desc"),
				},
			},
		},
		{
			coll: s.talks,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "title", Value: "text"}},
					Options: options.Index().SetName("title_text"),
				},
				{
					Keys:    bson.D{{Key: "createdAt", Value: -1}},
					Options: options.Index().SetName("createdAt_desc"),
				},
			},
		},
		{
			coll: s.ngos,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "name", Value: "text"}},
					Options: options.Index().SetName("name_text"),
				},
				{
					Keys:    bson.D{{Key: "createdAt", Value: -1}},
					Options: options.Index().SetName("createdAt_desc"),
				},
			},
		},
		{
			coll: s.messages,
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "createdAt", Value: -1}},
					Options: options.Index().SetName("createdAt_desc"),
				},
			},
		},
	}

	for _, set := range indexSets {
		if _, err := set.coll.Indexes().CreateMany(ctx, set.models); err != nil {
			metrics.RecordStoreOp("createIndexes", set.coll.Name(), time.Since(start), err)
			return wrapErr("createIndexes", set.coll.Name(), err)
		}
	}

	metrics.RecordStoreOp("createIndexes", "all", time.Since(start), nil)
	logging.Info().Msg("MongoDB indexes ensured")
	return nil
}

// Ping checks whether the deployment is reachable and updates the connection
// state gauge.
func (s *Store) Ping(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("mongo client is nil")
	}
	err := s.client.Ping(ctx, readpref.Primary())
	if err != nil {
		metrics.StoreConnectionState.Set(0)
		return err
	}
	metrics.StoreConnectionState.Set(1)
	return nil
}

// Status returns a human-readable connection state for health responses.
func (s *Store) Status(ctx context.Context) string {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.Ping(pingCtx); err != nil {
		return "disconnected"
	}
	return "connected"
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	metrics.StoreConnectionState.Set(0)
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// Database returns the underlying database handle. Used by integration test
// helpers for cleanup between cases.
func (s *Store) Database() *mongo.Database {
	return s.db
}

// disconnectQuietly disconnects a client and explicitly ignores any error.
// Used in error paths where the disconnect error is not actionable.
func disconnectQuietly(client *mongo.Client) {
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = client.Disconnect(ctx)
}
