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

// InsertMessage stores a chat message. The creation timestamp is applied
// server-side and the generated ObjectID is written back into the message,
// so the caller can publish and return the complete record.
func (s *Store) InsertMessage(ctx context.Context, msg *models.ChatMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	start := time.Now()
	res, err := s.messages.InsertOne(ctx, msg)
	metrics.RecordStoreOp("insertOne", CollMessages, time.Since(start), err)
	if err != nil {
		return wrapErr("insertOne", CollMessages, err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}
	return nil
}

// ListMessages returns chat history newest first.
func (s *Store) ListMessages(ctx context.Context, q models.MessageQuery) ([]models.ChatMessage, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(clampLimit(q.Limit, models.DefaultMessageLimit))

	start := time.Now()
	cursor, err := s.messages.Find(ctx, bson.M{}, opts)
	if err != nil {
		metrics.RecordStoreOp("find", CollMessages, time.Since(start), err)
		return nil, wrapErr("find", CollMessages, err)
	}
	defer cursor.Close(ctx)

	messages := make([]models.ChatMessage, 0)
	err = cursor.All(ctx, &messages)
	metrics.RecordStoreOp("find", CollMessages, time.Since(start), err)
	if err != nil {
		return nil, wrapErr("find", CollMessages, err)
	}
	return messages, nil
}
