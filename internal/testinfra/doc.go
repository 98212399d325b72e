// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

/*
Package testinfra provides Docker-backed infrastructure for integration tests.

All helpers are guarded by the integration build tag and skip gracefully when
Docker is unavailable:

	//go:build integration

	func TestStoreRoundTrip(t *testing.T) {
	    testinfra.SkipIfNoDocker(t)

	    ctx := context.Background()
	    mongo, err := testinfra.NewMongoContainer(ctx)
	    if err != nil {
	        t.Fatal(err)
	    }
	    defer testinfra.CleanupContainer(t, ctx, mongo)

	    // Use mongo.URI to connect a store.
	}

Run integration tests with:

	go test -tags integration ./...
*/
package testinfra
