package mq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/webmoto/storefront/config"
	"google.golang.org/api/option"
)

const subscriptionAckDeadline = 30 * time.Second

// PubSub maps each channel to a topic. Consumers share the subscription
// named channel plus the configured suffix, so every message is handled
// by one notifier.
type PubSub struct {
	client *pubsub.Client
	suffix string

	mu     sync.Mutex
	topics map[string]*pubsub.Topic
}

func NewPubSub(ctx context.Context, cfg config.PubSubConfig) (*PubSub, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("project id is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, err
	}

	suffix := cfg.SubscriptionSuffix
	if suffix == "" {
		suffix = "-sub"
	}
	return &PubSub{client: client, suffix: suffix, topics: make(map[string]*pubsub.Topic)}, nil
}

func (p *PubSub) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	topic, err := p.topic(ctx, channel)
	if err != nil {
		return "", err
	}
	id, err := topic.Publish(ctx, &pubsub.Message{Data: data, Attributes: attrs}).Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publish to %s: %w", channel, err)
	}
	return id, nil
}

func (p *PubSub) Subscribe(ctx context.Context, channel string, handler Handler) error {
	topic, err := p.topic(ctx, channel)
	if err != nil {
		return err
	}

	sub := p.client.Subscription(channel + p.suffix)
	ok, err := sub.Exists(ctx)
	if err != nil {
		return fmt.Errorf("lookup subscription: %w", err)
	}
	if !ok {
		sub, err = p.client.CreateSubscription(ctx, channel+p.suffix, pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: subscriptionAckDeadline,
		})
		if err != nil {
			return fmt.Errorf("create subscription: %w", err)
		}
	}

	return sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
		if err := handler(ctx, Message{ID: m.ID, Data: m.Data, Attributes: m.Attributes}); err != nil {
			m.Nack()
			return
		}
		m.Ack()
	})
}

// Close flushes pending publishes and releases the client.
func (p *PubSub) Close() error {
	p.mu.Lock()
	for _, t := range p.topics {
		t.Stop()
	}
	p.topics = map[string]*pubsub.Topic{}
	p.mu.Unlock()
	return p.client.Close()
}

func (p *PubSub) topic(ctx context.Context, name string) (*pubsub.Topic, error) {
	if name == "" {
		return nil, errors.New("channel name is required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.topics[name]; ok {
		return t, nil
	}

	t := p.client.Topic(name)
	ok, err := t.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("lookup topic: %w", err)
	}
	if !ok {
		if t, err = p.client.CreateTopic(ctx, name); err != nil {
			return nil, fmt.Errorf("create topic: %w", err)
		}
	}
	p.topics[name] = t
	return t, nil
}
