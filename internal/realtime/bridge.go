// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package realtime

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	natsgo "github.com/nats-io/nats.go"

	"github.com/uplift-hq/uplift/internal/logging"
	"github.com/uplift-hq/uplift/internal/metrics"
)

// Subscriber wraps a Watermill NATS subscriber for the chat bridge.
// Core NATS only: chat events are ephemeral, and clients that miss one
// recover from message history over HTTP.
type Subscriber struct {
	subscriber message.Subscriber
	config     SubscriberConfig
	logger     watermill.LoggerAdapter
}

// NewSubscriber creates a core NATS subscriber with a process-unique
// queue group.
func NewSubscriber(cfg SubscriberConfig, logger watermill.LoggerAdapter) (*Subscriber, error) {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("Subscriber disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("Subscriber reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}

	// The queue group carries a per-process suffix so the subscriber
	// goroutines inside one process share a single copy of each event
	// while separate processes each receive their own.
	wmConfig := wmNats.SubscriberConfig{
		URL:              cfg.URL,
		QueueGroupPrefix: fmt.Sprintf("uplift-bridge-%s", uuid.New().String()[:8]),
		SubscribersCount: cfg.SubscribersCount,
		AckWaitTimeout:   cfg.AckWaitTimeout,
		CloseTimeout:     cfg.CloseTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled: true,
		},
	}

	sub, err := wmNats.NewSubscriber(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill subscriber: %w", err)
	}

	return &Subscriber{
		subscriber: sub,
		config:     cfg,
		logger:     logger,
	}, nil
}

// Subscribe returns a channel of messages for the given topic.
// The channel is closed when the context is canceled or the subscriber
// is closed.
func (s *Subscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return s.subscriber.Subscribe(ctx, topic)
}

// Close gracefully shuts down the subscriber.
func (s *Subscriber) Close() error {
	return s.subscriber.Close()
}

// Broadcaster is the hub contract the bridge fans chat events out to.
type Broadcaster interface {
	BroadcastJSON(messageType string, data interface{})
}

// ChatSubscriber is the subscription contract the bridge consumes from.
// Satisfied by *Subscriber.
type ChatSubscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
	Close() error
}

// ChatBridge forwards chat events from NATS to the WebSocket hub.
// It subscribes to every chat subject and rebroadcasts each decoded
// payload under the event name carried in message metadata, so browsers
// connected to any process see messages published through any process.
type ChatBridge struct {
	subscriber ChatSubscriber
	hub        Broadcaster
}

// NewChatBridge creates a bridge between the subscriber and hub.
func NewChatBridge(subscriber ChatSubscriber, hub Broadcaster) *ChatBridge {
	return &ChatBridge{
		subscriber: subscriber,
		hub:        hub,
	}
}

// Run consumes chat events until context cancellation. Designed to run
// under supervision; returns ctx.Err() on shutdown so the supervisor
// treats it as a normal stop.
func (b *ChatBridge) Run(ctx context.Context) error {
	messages, err := b.subscriber.Subscribe(ctx, ChatSubjects)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", ChatSubjects, err)
	}

	logging.Info().Str("subjects", ChatSubjects).Msg("chat bridge started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			b.relay(msg)
		}
	}
}

// relay decodes one chat event and hands it to the hub. Core NATS does
// not redeliver, so every message is acked; a malformed payload is
// logged and dropped.
func (b *ChatBridge) relay(msg *message.Message) {
	defer msg.Ack()

	var payload map[string]interface{}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		logging.Warn().Err(err).
			Str("message_uuid", msg.UUID).
			Msg("dropping malformed chat event")
		return
	}

	event := msg.Metadata.Get(eventMetadataKey)
	if event == "" {
		event = EventNewMessage
	}

	b.hub.BroadcastJSON(event, payload)
	metrics.RealtimeMessagesRelayed.Inc()
}

// Close releases the underlying subscriber connection.
func (b *ChatBridge) Close() error {
	return b.subscriber.Close()
}
