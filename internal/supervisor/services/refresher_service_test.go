// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// MockRefresher simulates the content refresher for testing.
// It matches the StartStopRefresher interface.
type MockRefresher struct {
	started    atomic.Bool
	stopped    atomic.Bool
	startError error
	stopError  error
}

func (m *MockRefresher) Start(ctx context.Context) error {
	if m.startError != nil {
		return m.startError
	}
	m.started.Store(true)
	return nil
}

func (m *MockRefresher) Stop() error {
	m.stopped.Store(true)
	return m.stopError
}

func TestRefresherServiceInterface(t *testing.T) {
	t.Run("implements suture.Service", func(t *testing.T) {
		var _ suture.Service = (*RefresherService)(nil)
	})
}

func TestRefresherService(t *testing.T) {
	t.Run("starts underlying refresher", func(t *testing.T) {
		mockRef := &MockRefresher{}
		svc := NewRefresherService(mockRef)

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			done <- svc.Serve(ctx)
		}()

		// Wait for service to start with polling (more reliable in CI under load)
		var started bool
		for i := 0; i < 10; i++ {
			time.Sleep(20 * time.Millisecond)
			if mockRef.started.Load() {
				started = true
				break
			}
		}
		if !started {
			t.Error("refresher was not started")
		}

		// Let context expire
		<-done
	})

	t.Run("stops refresher on context cancellation", func(t *testing.T) {
		mockRef := &MockRefresher{}
		svc := NewRefresherService(mockRef)

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- svc.Serve(ctx)
		}()

		// Wait for start with polling (more reliable in CI under load)
		for i := 0; i < 10; i++ {
			time.Sleep(20 * time.Millisecond)
			if mockRef.started.Load() {
				break
			}
		}
		cancel()

		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(time.Second):
			t.Error("service did not stop in time")
		}

		if !mockRef.stopped.Load() {
			t.Error("refresher was not stopped")
		}
	})

	t.Run("propagates start error for restart", func(t *testing.T) {
		expectedErr := errors.New("refresh loop start failed")
		mockRef := &MockRefresher{
			startError: expectedErr,
		}
		svc := NewRefresherService(mockRef)

		err := svc.Serve(context.Background())
		if err == nil {
			t.Error("expected error to be propagated")
		}
		if !errors.Is(err, expectedErr) {
			t.Errorf("expected wrapped start error, got %v", err)
		}

		// Refresher should not be marked as started
		if mockRef.started.Load() {
			t.Error("refresher should not be started on error")
		}
	})

	t.Run("handles stop error gracefully", func(t *testing.T) {
		mockRef := &MockRefresher{
			stopError: errors.New("stop failed"),
		}
		svc := NewRefresherService(mockRef)

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- svc.Serve(ctx)
		}()

		// Wait for start with polling (more reliable in CI under load)
		for i := 0; i < 10; i++ {
			time.Sleep(20 * time.Millisecond)
			if mockRef.started.Load() {
				break
			}
		}
		cancel()

		err := <-done
		// Should still get an error (wrapped stop error)
		if err == nil {
			t.Error("expected error from stop failure")
		}
	})

	t.Run("String returns service name", func(t *testing.T) {
		svc := NewRefresherService(&MockRefresher{})
		if svc.String() != "content-refresher" {
			t.Errorf("expected 'content-refresher', got %q", svc.String())
		}
	})
}

func TestRefresherServiceWithSupervisor(t *testing.T) {
	t.Run("supervisor restarts on start failure", func(t *testing.T) {
		startCount := atomic.Int32{}

		mockRef := &restartableMockRefresher{
			startCount: &startCount,
			failUntil:  2, // Fail first 2 starts
		}
		svc := NewRefresherService(mockRef)

		sup := suture.New("refresher-test", suture.Spec{
			FailureThreshold: 10,
			FailureBackoff:   10 * time.Millisecond,
			Timeout:          100 * time.Millisecond,
		})
		sup.Add(svc)

		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		go sup.Serve(ctx)

		deadline := time.Now().Add(400 * time.Millisecond)
		for startCount.Load() < 3 && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}

		// Should have been started at least 3 times (2 failures + 1 success)
		if startCount.Load() < 3 {
			t.Errorf("expected at least 3 start attempts, got %d", startCount.Load())
		}
	})
}

// restartableMockRefresher fails the first N starts, then succeeds
type restartableMockRefresher struct {
	startCount *atomic.Int32
	stopCount  atomic.Int32
	failUntil  int32
}

func (m *restartableMockRefresher) Start(ctx context.Context) error {
	count := m.startCount.Add(1)
	if count <= m.failUntil {
		return errors.New("simulated start failure")
	}
	return nil
}

func (m *restartableMockRefresher) Stop() error {
	m.stopCount.Add(1)
	return nil
}
