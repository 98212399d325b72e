// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package supervisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// Compile-time check that MockService satisfies suture.Service.
var _ suture.Service = (*MockService)(nil)

func TestMockService(t *testing.T) {
	t.Run("blocks until context canceled", func(t *testing.T) {
		svc := NewMockService("blocking")
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		err := svc.Serve(ctx)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
		}
		if svc.StartCount() != 1 || svc.StopCount() != 1 {
			t.Errorf("StartCount/StopCount = %d/%d, want 1/1", svc.StartCount(), svc.StopCount())
		}
	})

	t.Run("returns configured error immediately", func(t *testing.T) {
		svc := NewMockService("broken")
		svc.SetError(errors.New("simulated failure"))

		err := svc.Serve(context.Background())
		if err == nil || err.Error() != "simulated failure" {
			t.Errorf("Serve() = %v, want simulated failure", err)
		}
	})

	t.Run("fails the configured number of times then settles", func(t *testing.T) {
		svc := NewMockService("flaky")
		svc.SetFailCount(2)

		for i := 0; i < 2; i++ {
			if err := svc.Serve(context.Background()); err == nil {
				t.Fatalf("Serve() call %d succeeded, want simulated failure", i+1)
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("settled Serve() = %v, want context.DeadlineExceeded", err)
		}
		if svc.StartCount() != 3 {
			t.Errorf("StartCount() = %d, want 3", svc.StartCount())
		}
	})

	t.Run("String reports the service name", func(t *testing.T) {
		svc := NewMockService("content-refresher")
		if got := svc.String(); got != "content-refresher" {
			t.Errorf("String() = %q, want %q", got, "content-refresher")
		}
	})
}

// A service that crashes on startup must be restarted by its supervisor until
// it settles. The refresher and chat bridge both lean on this after transient
// Mongo or NATS outages.
func TestSupervisedRestartAfterTransientFailures(t *testing.T) {
	svc := NewMockService("flaky-refresher")
	svc.SetFailCount(2)

	sup := suture.New("restart-test", suture.Spec{
		FailureThreshold: 10,
		FailureDecay:     1,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          100 * time.Millisecond,
	})
	sup.Add(svc)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	go sup.Serve(ctx)

	deadline := time.Now().Add(400 * time.Millisecond)
	for svc.StartCount() < 3 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	// Two crashes plus the run that settles.
	if svc.StartCount() < 3 {
		t.Errorf("StartCount() = %d, want at least 3", svc.StartCount())
	}
}
