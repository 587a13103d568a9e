package mq

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultRetryDelay = time.Second

// Memory is an in-process broker for single-instance deployments. Messages
// published before a subscriber attaches are buffered per channel.
type Memory struct {
	mu     sync.Mutex
	queues map[string]chan Message
	closed bool

	// RetryDelay is how long a failed message waits before redelivery.
	RetryDelay time.Duration
}

func NewMemory() *Memory {
	return &Memory{queues: make(map[string]chan Message), RetryDelay: defaultRetryDelay}
}

func (m *Memory) queue(channel string) (chan Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, errors.New("memory broker closed")
	}
	q, ok := m.queues[channel]
	if !ok {
		q = make(chan Message, 64)
		m.queues[channel] = q
	}
	return q, nil
}

func (m *Memory) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	q, err := m.queue(channel)
	if err != nil {
		return "", err
	}
	msg := Message{ID: uuid.NewString(), Data: data, Attributes: attrs}
	select {
	case q <- msg:
		return msg.ID, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Subscribe blocks until ctx is done. A failed message is put back on the
// queue after RetryDelay.
func (m *Memory) Subscribe(ctx context.Context, channel string, handler Handler) error {
	q, err := m.queue(channel)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-q:
			if err := handler(ctx, msg); err != nil {
				m.requeue(ctx, q, msg)
			}
		}
	}
}

func (m *Memory) requeue(ctx context.Context, q chan Message, msg Message) {
	timer := time.NewTimer(m.RetryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}
	select {
	case q <- msg:
	default:
	}
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
