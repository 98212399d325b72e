// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
)

// fakePublisher records publishes and fails on demand.
type fakePublisher struct {
	mu     sync.Mutex
	topics []string
	msgs   []*message.Message
	err    error
	closed bool
}

func (f *fakePublisher) Publish(_ context.Context, topic string, msg *message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics = append(f.topics, topic)
	f.msgs = append(f.msgs, msg)
	return f.err
}

func (f *fakePublisher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakePublisher) published() ([]string, []*message.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.topics, f.msgs
}

func TestChatTopic(t *testing.T) {
	tests := []struct {
		channel string
		want    string
	}{
		{"messages", "chat.messages"},
		{"announcements", "chat.announcements"},
	}

	for _, tt := range tests {
		if got := ChatTopic(tt.channel); got != tt.want {
			t.Errorf("ChatTopic(%q) = %q, want %q", tt.channel, got, tt.want)
		}
	}
}

func TestNotifierPublish(t *testing.T) {
	fake := &fakePublisher{}
	notifier := NewNotifier(fake)

	payload := map[string]string{"text": "hello", "user": "ana"}
	notifier.Publish(ChannelMessages, EventNewMessage, payload)

	topics, msgs := fake.published()
	if len(topics) != 1 {
		t.Fatalf("expected 1 publish, got %d", len(topics))
	}
	if topics[0] != "chat.messages" {
		t.Errorf("topic = %q, want chat.messages", topics[0])
	}

	msg := msgs[0]
	if msg.UUID == "" {
		t.Error("message UUID should be set")
	}
	if got := msg.Metadata.Get("event"); got != EventNewMessage {
		t.Errorf("event metadata = %q, want %q", got, EventNewMessage)
	}

	var decoded map[string]string
	if err := json.Unmarshal(msg.Payload, &decoded); err != nil {
		t.Fatalf("payload should be JSON: %v", err)
	}
	if decoded["text"] != "hello" || decoded["user"] != "ana" {
		t.Errorf("payload round-trip = %v", decoded)
	}
}

func TestNotifierPublishSwallowsPublisherError(t *testing.T) {
	fake := &fakePublisher{err: errors.New("nats: connection closed")}
	notifier := NewNotifier(fake)

	// Must not panic or surface the error; persistence already succeeded.
	notifier.Publish(ChannelMessages, EventNewMessage, map[string]string{"text": "hi"})

	topics, _ := fake.published()
	if len(topics) != 1 {
		t.Errorf("publish should still be attempted once, got %d", len(topics))
	}
}

func TestNotifierPublishSwallowsMarshalError(t *testing.T) {
	fake := &fakePublisher{}
	notifier := NewNotifier(fake)

	// Channels cannot be serialized; the publish is skipped entirely.
	notifier.Publish(ChannelMessages, EventNewMessage, make(chan int))

	topics, _ := fake.published()
	if len(topics) != 0 {
		t.Errorf("unserializable payload should not reach the publisher, got %d publishes", len(topics))
	}
}

func TestNotifierClose(t *testing.T) {
	fake := &fakePublisher{}
	notifier := NewNotifier(fake)

	if err := notifier.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !fake.closed {
		t.Error("Close() should close the underlying publisher")
	}
}

func TestNewPublishBreakerTripsOnConsecutiveFailures(t *testing.T) {
	cb := NewPublishBreaker()

	fail := func() (interface{}, error) { return nil, errors.New("publish failed") }
	for i := 0; i < 5; i++ {
		_, _ = cb.Execute(fail)
	}

	// Sixth call is rejected by the open circuit, not executed.
	executed := false
	_, err := cb.Execute(func() (interface{}, error) {
		executed = true
		return nil, nil
	})
	if err == nil {
		t.Fatal("expected open-circuit rejection after 5 consecutive failures")
	}
	if executed {
		t.Error("open circuit should not execute the call")
	}
}
