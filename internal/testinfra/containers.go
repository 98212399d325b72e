// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

//go:build integration

package testinfra

import (
	"context"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

// SkipIfNoDocker skips the test when no Docker daemon is reachable, so the
// integration suite degrades to a no-op on machines without Docker.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	if !dockerAvailable() {
		t.Skip("docker daemon not reachable")
	}
}

// dockerAvailable probes the daemon once per test binary. `docker info`
// is slow enough that probing per test would dominate short runs.
var dockerAvailable = sync.OnceValue(func() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return exec.CommandContext(ctx, "docker", "info").Run() == nil
})

// CleanupContainer terminates the container, logging failures instead of
// failing the test: a leaked container must not mask the test's own result.
func CleanupContainer(t *testing.T, ctx context.Context, container testcontainers.Container) {
	t.Helper()

	if container == nil {
		return
	}
	if err := container.Terminate(ctx); err != nil {
		t.Logf("terminate container: %v", err)
	}
}
