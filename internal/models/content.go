// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Content type constants stamped onto cached records at fetch time.
const (
	ContentTypeVideo = "Video"
	ContentTypeNGO   = "NGO"
)

// NoDescription is the fallback stored when an upstream record carries no
// description or mission text.
const NoDescription = "No description available"

// Talk represents a cached talk from the upstream talks API.
//
// Talks follow the replace-on-refresh lifecycle: every refresh deletes the
// whole collection and bulk-inserts the fresh upstream set. Individual
// talks are never updated in place.
//
// Fields:
//   - TalkID: Upstream talk identifier (not the MongoDB id)
//   - Title, Speaker, Description: Display fields, with fallback text
//     substituted for missing descriptions
//   - Duration: Talk length in seconds
//   - URL: Canonical talk page
//   - Thumbnail: Preview image URL
//   - Type: Always "Video"
//   - CreatedAt: Server-set persist time, the recency sort key
type Talk struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TalkID      string             `bson:"talkId" json:"talkId"`
	Title       string             `bson:"title" json:"title"`
	Speaker     string             `bson:"speaker" json:"speaker"`
	Description string             `bson:"description" json:"description"`
	Duration    int                `bson:"duration" json:"duration"`
	URL         string             `bson:"url" json:"url"`
	Thumbnail   string             `bson:"thumbnail" json:"thumbnail"`
	Type        string             `bson:"type" json:"type"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// NgoRecord represents a cached nonprofit from the ProPublica Nonprofit
// Explorer search API. Same replace-on-refresh lifecycle as Talk.
//
// Fields:
//   - EIN: Employer Identification Number, the upstream identity
//   - Name: Organization name
//   - Type: Always "NGO"
//   - Description, Mission: Display text with fallback for missing values
//   - Website: Organization profile URL
//   - Location: Free-text "City, ST" assembled from upstream fields
//   - CreatedAt: Server-set persist time, the recency sort key
type NgoRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	EIN         string             `bson:"ein" json:"ein"`
	Name        string             `bson:"name" json:"name"`
	Type        string             `bson:"type" json:"type"`
	Description string             `bson:"description" json:"description"`
	Website     string             `bson:"website" json:"website"`
	Location    string             `bson:"location" json:"location"`
	Mission     string             `bson:"mission" json:"mission"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
