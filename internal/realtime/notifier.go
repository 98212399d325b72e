// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/uplift-hq/uplift/internal/logging"
	"github.com/uplift-hq/uplift/internal/metrics"
)

const (
	// chatTopicPrefix prefixes every chat relay subject.
	chatTopicPrefix = "chat."

	// ChatSubjects is the wildcard subject the bridge subscribes to.
	ChatSubjects = "chat.>"

	// ChannelMessages is the community chat channel.
	ChannelMessages = "messages"

	// EventNewMessage announces a stored chat message.
	EventNewMessage = "new_message"

	// eventMetadataKey carries the WebSocket message type end to end.
	eventMetadataKey = "event"

	// breakerNamePublish labels the publish circuit breaker in logs and
	// metrics.
	breakerNamePublish = "nats-publish"
)

// ChatTopic returns the NATS subject for a chat channel.
func ChatTopic(channel string) string {
	return chatTopicPrefix + channel
}

// Publisher wraps a Watermill NATS publisher with reconnect handling and
// optional circuit breaker protection. The connection runs plain core
// NATS; chat fan-out needs no stream persistence.
type Publisher struct {
	publisher      message.Publisher
	circuitBreaker *gobreaker.CircuitBreaker[interface{}]
	mu             sync.RWMutex
	closed         bool
	logger         watermill.LoggerAdapter
}

// NewPublisher creates a resilient Watermill NATS publisher.
func NewPublisher(cfg PublisherConfig, logger watermill.LoggerAdapter) (*Publisher, error) {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.ReconnectBufSize(cfg.ReconnectBuffer),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
		natsgo.ErrorHandler(func(nc *natsgo.Conn, sub *natsgo.Subscription, err error) {
			logger.Error("NATS error", err, watermill.LogFields{
				"subject": sub.Subject,
			})
		}),
	}

	wmConfig := wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled: true,
		},
	}

	pub, err := wmNats.NewPublisher(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	return &Publisher{
		publisher: pub,
		logger:    logger,
	}, nil
}

// SetCircuitBreaker configures the circuit breaker for publish operations.
func (p *Publisher) SetCircuitBreaker(cb *gobreaker.CircuitBreaker[interface{}]) {
	p.circuitBreaker = cb
}

// Publish sends a message to the specified topic with circuit breaker
// protection. The message UUID is used as Nats-Msg-Id if not already set.
func (p *Publisher) Publish(ctx context.Context, topic string, msg *message.Message) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return fmt.Errorf("publisher is closed")
	}
	p.mu.RUnlock()

	if msg.Metadata.Get(natsgo.MsgIdHdr) == "" {
		msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
	}

	if p.circuitBreaker != nil {
		_, err := p.circuitBreaker.Execute(func() (interface{}, error) {
			return nil, p.publisher.Publish(topic, msg)
		})
		return err
	}

	return p.publisher.Publish(topic, msg)
}

// Close gracefully shuts down the publisher.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	return p.publisher.Close()
}

// NewPublishBreaker creates the circuit breaker guarding chat publishes.
// Trips after 5 consecutive failures; half-opens after 30 seconds.
func NewPublishBreaker() *gobreaker.CircuitBreaker[interface{}] {
	metrics.CircuitBreakerState.WithLabelValues(breakerNamePublish).Set(0) // 0 = closed

	return gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        breakerNamePublish,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] Publish circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// TopicPublisher is the publish contract the Notifier relays through.
// Satisfied by *Publisher.
type TopicPublisher interface {
	Publish(ctx context.Context, topic string, msg *message.Message) error
	Close() error
}

// Notifier is the fire-and-forget publish surface used by HTTP handlers.
//
// By the time Publish runs the chat message is already persisted, so a
// relay failure must not fail the API response. Errors are logged and
// counted; callers get nothing back.
type Notifier struct {
	publisher TopicPublisher
}

// NewNotifier creates a Notifier on top of a connected publisher.
func NewNotifier(publisher TopicPublisher) *Notifier {
	return &Notifier{publisher: publisher}
}

// Publish serializes payload and relays it on the channel's chat subject.
// The event name travels in message metadata and becomes the WebSocket
// message type on the other side of the bridge.
func (n *Notifier) Publish(channel, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		metrics.RecordPublish(event, err)
		logging.Error().Err(err).
			Str("channel", channel).
			Str("event", event).
			Msg("failed to serialize realtime payload")
		return
	}

	msg := message.NewMessage(uuid.New().String(), data)
	msg.Metadata.Set(eventMetadataKey, event)

	err = n.publisher.Publish(context.Background(), ChatTopic(channel), msg)
	metrics.RecordPublish(event, err)
	if err != nil {
		logging.Error().Err(err).
			Str("channel", channel).
			Str("event", event).
			Msg("realtime publish failed, clients will catch up from history")
	}
}

// Close releases the underlying publisher connection.
func (n *Notifier) Close() error {
	return n.publisher.Close()
}
