// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

/*
Package models defines data structures for the Uplift application.

This package contains all data models used throughout the application:
MongoDB document schemas, API response envelopes, and query filter
objects. It serves as the single source of truth for data structure
definitions.

Key Components:

  - CheckIn: Map check-in with a GeoJSON Point location
  - Talk: Cached talk record from the upstream talks API
  - NgoRecord: Cached nonprofit record from the ProPublica search API
  - ChatMessage: Persisted community chat message
  - APIResponse: Standardized API response wrapper
  - HealthStatus: Health endpoint payload

Model Categories:

1. Document Models (bson-tagged, one MongoDB collection each):
  - CheckIn: collection "checkins", append-only
  - Talk: collection "talks", replaced wholesale on refresh
  - NgoRecord: collection "ngos", replaced wholesale on refresh
  - ChatMessage: collection "messages", append-only

2. API Response Models:
  - APIResponse: Standard response wrapper
  - APIError: Error details
  - Metadata: Response metadata (timestamp, query time)

3. Query Models:
  - CheckInQuery: Category/limit filter for check-in listings
  - ContentQuery: Search/type/limit filter for cached content listings

Usage Example - Document Models:

	import "github.com/uplift-hq/uplift/internal/models"

	checkIn := &models.CheckIn{
	    Location: models.GeoPoint{
	        Type:        "Point",
	        Coordinates: []float64{-73.98, 40.74},
	    },
	    Interest: "community gardens",
	    Category: "environment",
	}
	// InsertCheckIn stamps ID and CreatedAt onto checkIn.
	err := store.InsertCheckIn(ctx, checkIn)

Usage Example - API Response:

	import "github.com/uplift-hq/uplift/internal/models"

	response := models.APIResponse{
	    Status: "success",
	    Data:   talks,
	    Metadata: models.Metadata{
	        Timestamp:   time.Now(),
	        QueryTimeMS: 12,
	    },
	}

	// Error response
	errorResponse := models.APIResponse{
	    Status: "error",
	    Error: &models.APIError{
	        Code:    "VALIDATION_ERROR",
	        Message: "location and interest are required",
	    },
	}

JSON Marshaling:

All wire-facing fields use the camelCase names the frontend consumes
(createdAt, userId, photoURL). BSON tags mirror the JSON names so the
stored documents and the API payloads stay field-compatible. Time
fields use RFC3339 in JSON and native BSON datetimes in MongoDB.

Thread Safety:

All models are plain data structures with no internal synchronization.
They are safe for concurrent reads after construction.

See Also:

  - internal/store: MongoDB operations using these models
  - internal/api: HTTP handlers returning these models
  - internal/fetch: Upstream clients producing Talk and NgoRecord values
*/
package models
