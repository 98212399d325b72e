// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultCheckInCategory is applied when a check-in is submitted without a category.
const DefaultCheckInCategory = "general"

// GeoPoint is a GeoJSON Point as stored in MongoDB and consumed by the
// frontend map. Coordinates are ordered [longitude, latitude] per the
// GeoJSON specification (RFC 7946), which is also the order the 2dsphere
// index expects.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a GeoJSON Point from a longitude/latitude pair.
func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// CheckIn represents a user-submitted map check-in: a location on the map
// tagged with the cause the user cares about.
//
// Check-ins are append-only. They are never mutated or deleted; the map
// view queries them by category and recency.
//
// Fields:
//   - ID: MongoDB object id, assigned on insert
//   - Location: GeoJSON Point, required
//   - Interest: Free-text cause description, required
//   - Category: Interest category, defaults to "general" when omitted
//   - UserID: Optional opaque identity from the frontend auth provider.
//     Stored verbatim with no referential integrity enforcement.
//   - CreatedAt: Server-set insertion time
type CheckIn struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Location  GeoPoint           `bson:"location" json:"location"`
	Interest  string             `bson:"interest" json:"interest"`
	Category  string             `bson:"category" json:"category"`
	UserID    string             `bson:"userId,omitempty" json:"userId,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
