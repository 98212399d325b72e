// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

// Package api provides HTTP request validation structs with go-playground/validator tags.
// These structs are used to validate incoming API request parameters before processing.
//
// The validation tags follow the go-playground/validator v10 syntax:
//   - required: field must be present and non-zero
//   - min,max: numeric or string length bounds
//   - oneof: value must be one of the specified options
//   - len: exact collection length
//   - omitempty: skip validation if field is empty/zero
//
// Example usage:
//
//	req := ContentListRequest{
//	    Search: r.URL.Query().Get("search"),
//	    Limit:  getIntParam(r, "limit", models.DefaultTalkLimit),
//	}
//	if apiErr := validateRequest(&req); apiErr != nil {
//	    respondValidationError(w, r, apiErr)
//	    return
//	}
package api

// GeoPointRequest is the GeoJSON Point accepted in check-in submissions.
// Coordinates are [longitude, latitude]; the two positions carry different
// bounds, so range checking runs on the decomposed coordinatePair after
// the shape validates.
type GeoPointRequest struct {
	Type        string    `json:"type" validate:"required,oneof=Point"`
	Coordinates []float64 `json:"coordinates" validate:"required,len=2"`
}

// coordinatePair applies the per-axis range validators to a decomposed
// GeoJSON coordinate pair. The wire format is a bare [longitude, latitude]
// array, which a single slice tag cannot range-check per position.
type coordinatePair struct {
	Lng float64 `validate:"longitude"`
	Lat float64 `validate:"latitude"`
}

// CheckInRequest represents the validated request body for POST /api/map.
//
// Fields:
//   - Location: GeoJSON Point, required
//   - Interest: Free-text cause description, required (1-500 chars)
//   - Category: Optional category, defaulted to "general" by the store
//   - UserID: Optional opaque identity from the frontend auth provider
type CheckInRequest struct {
	Location GeoPointRequest `json:"location" validate:"required"`
	Interest string          `json:"interest" validate:"required,min=1,max=500"`
	Category string          `json:"category" validate:"omitempty,max=100"`
	UserID   string          `json:"userId" validate:"omitempty,max=200"`
}

// CheckInListRequest represents the validated query parameters for GET /api/map.
//
// Fields:
//   - Category: Exact-match category filter
//   - Limit: Maximum results (1-500)
type CheckInListRequest struct {
	Category string `validate:"omitempty,max=100"`
	Limit    int    `validate:"min=1,max=500"`
}

// ContentListRequest represents the validated query parameters for GET /api/content.
//
// Fields:
//   - Search: Keyword search over talk titles
//   - Limit: Maximum results (1-500)
type ContentListRequest struct {
	Search string `validate:"omitempty,max=200"`
	Limit  int    `validate:"min=1,max=500"`
}

// ActionHubListRequest represents the validated query parameters for GET /api/action-hub.
//
// Fields:
//   - Search: Keyword search over NGO names
//   - Type: Exact-match record type filter
//   - Limit: Maximum results (1-500)
type ActionHubListRequest struct {
	Search string `validate:"omitempty,max=200"`
	Type   string `validate:"omitempty,max=100"`
	Limit  int    `validate:"min=1,max=500"`
}

// MessageListRequest represents the validated query parameters for GET /api/messages.
type MessageListRequest struct {
	Limit int `validate:"min=1,max=500"`
}

// SendMessageRequest represents the validated request body for POST /api/send-message.
//
// Fields:
//   - Text: Message body, required (1-2000 chars)
//   - User: Display identity, required
//   - PhotoURL: Optional avatar URL from the frontend auth provider
type SendMessageRequest struct {
	Text     string `json:"text" validate:"required,min=1,max=2000"`
	User     string `json:"user" validate:"required,min=1,max=200"`
	PhotoURL string `json:"photoURL" validate:"omitempty,url,max=1000"`
}
