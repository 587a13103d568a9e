package mq

import (
	"context"
	"fmt"
	"strings"

	"github.com/webmoto/storefront/config"
)

// Message is a broker independent delivery.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes one delivery. A non-nil error asks the broker to
// redeliver the message.
type Handler func(ctx context.Context, msg Message) error

// Broker publishes to and consumes from named channels (queues or topics).
type Broker interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// Open connects to the broker selected by cfg.Backend. It returns a nil
// Broker when messaging is disabled.
func Open(ctx context.Context, cfg config.MQConfig) (Broker, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemory(), nil
	case "rabbitmq":
		client, err := NewRabbitMQ(cfg.RabbitMQ)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq: %w", err)
		}
		return client, nil
	case "pubsub":
		client, err := NewPubSub(ctx, cfg.PubSub)
		if err != nil {
			return nil, fmt.Errorf("pubsub: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.Backend)
	}
}
