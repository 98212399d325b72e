// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/uplift-hq/uplift/internal/metrics"
	"github.com/uplift-hq/uplift/internal/models"
)

// InsertCheckIn stores a new map check-in. The creation timestamp and
// category default are applied server-side so clients cannot forge them.
// The generated ObjectID is written back into the check-in.
func (s *Store) InsertCheckIn(ctx context.Context, checkIn *models.CheckIn) error {
	applyCheckInDefaults(checkIn, time.Now().UTC())

	start := time.Now()
	res, err := s.checkins.InsertOne(ctx, checkIn)
	metrics.RecordStoreOp("insertOne", CollCheckins, time.Since(start), err)
	if err != nil {
		return wrapErr("insertOne", CollCheckins, err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		checkIn.ID = oid
	}
	return nil
}

// ListCheckIns returns check-ins newest first, optionally filtered by
// category.
func (s *Store) ListCheckIns(ctx context.Context, q models.CheckInQuery) ([]models.CheckIn, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(clampLimit(q.Limit, models.DefaultCheckInLimit))

	start := time.Now()
	cursor, err := s.checkins.Find(ctx, checkInFilter(q), opts)
	if err != nil {
		metrics.RecordStoreOp("find", CollCheckins, time.Since(start), err)
		return nil, wrapErr("find", CollCheckins, err)
	}
	defer cursor.Close(ctx)

	checkIns := make([]models.CheckIn, 0)
	err = cursor.All(ctx, &checkIns)
	metrics.RecordStoreOp("find", CollCheckins, time.Since(start), err)
	if err != nil {
		return nil, wrapErr("find", CollCheckins, err)
	}
	return checkIns, nil
}

// applyCheckInDefaults fills the server-owned fields on a check-in.
func applyCheckInDefaults(checkIn *models.CheckIn, now time.Time) {
	if checkIn.CreatedAt.IsZero() {
		checkIn.CreatedAt = now
	}
	if checkIn.Category == "" {
		checkIn.Category = models.DefaultCheckInCategory
	}
	if checkIn.Location.Type == "" {
		checkIn.Location.Type = "Point"
	}
}
