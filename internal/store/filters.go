// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package store

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/uplift-hq/uplift/internal/models"
)

// clampLimit normalizes a requested limit: unset or negative falls back to
// the collection default, oversized is capped at MaxListLimit.
func clampLimit(requested, def int) int64 {
	if requested <= 0 {
		return int64(def)
	}
	if requested > models.MaxListLimit {
		return int64(models.MaxListLimit)
	}
	return int64(requested)
}

// searchRegex builds a case-insensitive regex from raw user input. The input
// is quoted so regex metacharacters match literally.
func searchRegex(search string) primitive.Regex {
	return primitive.Regex{
		Pattern: regexp.QuoteMeta(strings.TrimSpace(search)),
		Options: "i",
	}
}

// checkInFilter builds the find filter for check-in queries.
func checkInFilter(q models.CheckInQuery) bson.M {
	filter := bson.M{}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	return filter
}

// talkFilter builds the find filter for talk queries. A non-empty search
// matches title, speaker, or description.
func talkFilter(search string) bson.M {
	if strings.TrimSpace(search) == "" {
		return bson.M{}
	}
	re := searchRegex(search)
	return bson.M{
		"$or": bson.A{
			bson.M{"title": re},
			bson.M{"speaker": re},
			bson.M{"description": re},
		},
	}
}

// ngoFilter builds the find filter for NGO queries. A non-empty search
// matches name, description, mission, or location; a non-empty type is an
// exact match on the stamped content type.
func ngoFilter(q models.ContentQuery) bson.M {
	filter := bson.M{}
	if t := strings.TrimSpace(q.Type); t != "" {
		filter["type"] = t
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		re := searchRegex(search)
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
			bson.M{"mission": re},
			bson.M{"location": re},
		}
	}
	return filter
}
