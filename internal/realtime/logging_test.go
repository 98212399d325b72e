// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package realtime

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

func TestWatermillLoggerInfo(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewWatermillLogger(zerolog.New(&buf))

	adapter.Info("subscriber started", watermill.LogFields{
		"topic": "chat.messages",
	})

	out := buf.String()
	if !strings.Contains(out, `"message":"subscriber started"`) {
		t.Errorf("output missing message, got: %s", out)
	}
	if !strings.Contains(out, `"topic":"chat.messages"`) {
		t.Errorf("output missing field, got: %s", out)
	}
	if !strings.Contains(out, `"level":"info"`) {
		t.Errorf("output missing level, got: %s", out)
	}
}

func TestWatermillLoggerError(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewWatermillLogger(zerolog.New(&buf))

	adapter.Error("publish failed", errors.New("connection refused"), watermill.LogFields{
		"message_uuid": "abc-123",
	})

	out := buf.String()
	if !strings.Contains(out, `"error":"connection refused"`) {
		t.Errorf("output missing error, got: %s", out)
	}
	if !strings.Contains(out, `"message_uuid":"abc-123"`) {
		t.Errorf("output missing field, got: %s", out)
	}
	if !strings.Contains(out, `"level":"error"`) {
		t.Errorf("output missing level, got: %s", out)
	}
}

func TestWatermillLoggerNilFields(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewWatermillLogger(zerolog.New(&buf))

	// Watermill passes nil fields on connection callbacks.
	adapter.Error("disconnected", errors.New("eof"), nil)

	if !strings.Contains(buf.String(), `"message":"disconnected"`) {
		t.Errorf("nil fields should still log, got: %s", buf.String())
	}
}

func TestWatermillLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewWatermillLogger(zerolog.New(&buf))

	child := adapter.With(watermill.LogFields{"component": "bridge"})
	child.Info("started", nil)

	out := buf.String()
	if !strings.Contains(out, `"component":"bridge"`) {
		t.Errorf("With() fields should persist on child logs, got: %s", out)
	}

	// Parent logger stays untouched.
	buf.Reset()
	adapter.Info("plain", nil)
	if strings.Contains(buf.String(), "component") {
		t.Errorf("parent logger should not carry child fields, got: %s", buf.String())
	}
}
