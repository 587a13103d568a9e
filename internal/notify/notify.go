// Package notify delivers outgoing mail such as password reset links.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/webmoto/storefront/internal/logging"
	"github.com/webmoto/storefront/internal/mq"
)

// Notification is one message to a user.
type Notification struct {
	Kind    string `json:"kind"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

const KindPasswordReset = "password-reset"

type Sink interface {
	Send(ctx context.Context, n Notification) error
}

// LogSink writes notifications to the log instead of sending mail.
type LogSink struct {
	logger logging.Logger
}

func NewLogSink(logger logging.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Send(ctx context.Context, n Notification) error {
	s.logger.Info(ctx, "mail delivered", "kind", n.Kind, "to", n.To, "subject", n.Subject, "body", n.Body)
	return nil
}

// QueueSink publishes notifications as JSON to a broker channel.
type QueueSink struct {
	broker  mq.Broker
	channel string
}

func NewQueueSink(broker mq.Broker, channel string) *QueueSink {
	return &QueueSink{broker: broker, channel: channel}
}

func (s *QueueSink) Send(ctx context.Context, n Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	if _, err := s.broker.Publish(ctx, s.channel, data, map[string]string{"kind": n.Kind}); err != nil {
		return fmt.Errorf("publish %s: %w", s.channel, err)
	}
	return nil
}

// Relay consumes a broker channel and hands each notification to a sink.
type Relay struct {
	broker  mq.Broker
	channel string
	sink    Sink
	logger  logging.Logger
}

func NewRelay(broker mq.Broker, channel string, sink Sink, logger logging.Logger) *Relay {
	return &Relay{broker: broker, channel: channel, sink: sink, logger: logger}
}

// Run blocks until ctx is cancelled or the subscription fails. Undecodable
// messages are dropped; sink failures are returned to the broker for
// redelivery.
func (r *Relay) Run(ctx context.Context) error {
	r.logger.Info(ctx, "relay started", "channel", r.channel)
	err := r.broker.Subscribe(ctx, r.channel, r.handle)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (r *Relay) handle(ctx context.Context, msg mq.Message) error {
	var n Notification
	if err := json.Unmarshal(msg.Data, &n); err != nil {
		r.logger.Warn(ctx, "dropping malformed notification", "id", msg.ID, "error", err)
		return nil
	}
	if err := r.sink.Send(ctx, n); err != nil {
		r.logger.Error(ctx, "notification delivery failed", "id", msg.ID, "error", err)
		return err
	}
	return nil
}
