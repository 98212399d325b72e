// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package models

// Default and maximum result limits for list queries. The defaults match
// what the frontend map and content views request.
const (
	DefaultCheckInLimit = 100
	DefaultTalkLimit    = 20
	DefaultNgoLimit     = 50
	DefaultMessageLimit = 50
	MaxListLimit        = 500
)

// CheckInQuery filters check-in listings.
//
// Fields:
//   - Category: Exact-match category filter, empty means all categories
//   - Limit: Maximum results, defaulted by the store when zero
type CheckInQuery struct {
	Category string
	Limit    int
}

// ContentQuery filters cached content listings (talks and NGO records).
//
// Search is a case-insensitive substring match over the record's display
// fields. Type applies only to NGO queries and is an exact match on the
// record type field. Limit is defaulted per content kind by the store
// when zero.
type ContentQuery struct {
	Search string
	Type   string
	Limit  int
}

// MessageQuery filters chat history listings. Results are always newest
// first.
type MessageQuery struct {
	Limit int
}
