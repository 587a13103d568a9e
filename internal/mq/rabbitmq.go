package mq

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/webmoto/storefront/config"
)

// RabbitMQ delivers each channel through a queue of the same name on the
// default exchange.
type RabbitMQ struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	cfg  config.RabbitMQConfig

	mu       sync.Mutex
	declared map[string]bool
}

func NewRabbitMQ(cfg config.RabbitMQConfig) (*RabbitMQ, error) {
	if cfg.URL == "" {
		return nil, errors.New("url is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if cfg.PrefetchCount > 0 {
		if err := ch.Qos(cfg.PrefetchCount, 0, false); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("set prefetch: %w", err)
		}
	}

	return &RabbitMQ{conn: conn, ch: ch, cfg: cfg, declared: make(map[string]bool)}, nil
}

func (r *RabbitMQ) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if err := r.declare(channel); err != nil {
		return "", err
	}

	msg := amqp.Publishing{
		MessageId:    uuid.NewString(),
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Headers:      make(amqp.Table, len(attrs)),
		Body:         data,
	}
	for k, v := range attrs {
		msg.Headers[k] = v
	}
	if err := r.ch.PublishWithContext(ctx, "", channel, false, false, msg); err != nil {
		return "", fmt.Errorf("publish to %s: %w", channel, err)
	}
	return msg.MessageId, nil
}

// Subscribe consumes channel until ctx is done. A failed delivery is
// requeued once; a second failure drops it.
func (r *RabbitMQ) Subscribe(ctx context.Context, channel string, handler Handler) error {
	if err := r.declare(channel); err != nil {
		return err
	}

	tag := "webmoto-" + uuid.NewString()
	deliveries, err := r.ch.Consume(channel, tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", channel, err)
	}
	defer func() {
		_ = r.ch.Cancel(tag, false)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			msg := Message{ID: d.MessageId, Data: d.Body, Attributes: attributes(d.Headers)}
			if err := handler(ctx, msg); err != nil {
				_ = d.Nack(false, !d.Redelivered)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (r *RabbitMQ) Close() error {
	_ = r.ch.Close()
	return r.conn.Close()
}

func (r *RabbitMQ) declare(queue string) error {
	if queue == "" {
		return errors.New("channel name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.declared[queue] {
		return nil
	}
	if _, err := r.ch.QueueDeclare(queue, r.cfg.QueueDurable, r.cfg.QueueAutoDelete, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", queue, err)
	}
	r.declared[queue] = true
	return nil
}

// attributes flattens AMQP headers into string attributes.
func attributes(headers amqp.Table) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		switch v := v.(type) {
		case string:
			out[k] = v
		case []byte:
			out[k] = string(v)
		default:
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}
