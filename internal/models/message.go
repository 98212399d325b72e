// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatMessage is a persisted community chat message. Messages are
// append-only; delivery to connected clients happens separately over the
// realtime channel after the insert succeeds.
//
// User is an opaque display identity supplied by the frontend. PhotoURL
// is the optional avatar shown next to the message.
type ChatMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Text      string             `bson:"text" json:"text"`
	User      string             `bson:"user" json:"user"`
	PhotoURL  string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
