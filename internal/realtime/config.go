// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package realtime

import (
	"time"
)

// ServerConfig holds embedded NATS server configuration.
// The chat relay uses core NATS only; there is no JetStream storage to
// size, so the embedded server needs nothing beyond a bind address.
type ServerConfig struct {
	Host string
	Port int
}

// DefaultServerConfig returns defaults for the embedded NATS server.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host: "127.0.0.1",
		Port: 4222,
	}
}

// PublisherConfig holds publisher connection configuration.
type PublisherConfig struct {
	URL             string
	MaxReconnects   int
	ReconnectWait   time.Duration
	ReconnectBuffer int
}

// DefaultPublisherConfig returns production defaults for the publisher.
func DefaultPublisherConfig(url string) PublisherConfig {
	return PublisherConfig{
		URL:             url,
		MaxReconnects:   -1, // Unlimited
		ReconnectWait:   2 * time.Second,
		ReconnectBuffer: 8 * 1024 * 1024, // 8MB
	}
}

// SubscriberConfig holds bridge subscriber configuration.
//
// Each process joins its own queue group: the SubscribersCount goroutines
// within one process share a group and receive one copy between them,
// while every process (distinct group) still receives every chat event to
// fan out to its own WebSocket clients.
type SubscriberConfig struct {
	URL              string
	SubscribersCount int
	AckWaitTimeout   time.Duration
	CloseTimeout     time.Duration
	MaxReconnects    int
	ReconnectWait    time.Duration
}

// DefaultSubscriberConfig returns production defaults for the bridge
// subscriber.
func DefaultSubscriberConfig(url string) SubscriberConfig {
	return SubscriberConfig{
		URL:              url,
		SubscribersCount: 2,
		AckWaitTimeout:   30 * time.Second,
		CloseTimeout:     30 * time.Second,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
	}
}
