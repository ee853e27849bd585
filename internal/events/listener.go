package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// Invalidator is notified when a schedule-changed event arrives.
type Invalidator interface {
	InvalidateAll(ctx context.Context)
}

// Listener receives schedule-changed events and flushes the local route
// caches. Each API instance owns one subscription on the shared topic.
type Listener struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	invalidator      Invalidator
	logger           zerolog.Logger
}

// ListenerConfig holds configuration for the listener.
type ListenerConfig struct {
	ProjectID        string
	SubscriptionName string
	Invalidator      Invalidator
	Logger           zerolog.Logger
}

// NewListener creates a new Pub/Sub listener.
func NewListener(ctx context.Context, cfg ListenerConfig) (*Listener, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10

	return &Listener{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		invalidator:      cfg.Invalidator,
		logger:           cfg.Logger.With().Str("component", "event_listener").Logger(),
	}, nil
}

// Start receives messages until the context is canceled. Transient Receive
// failures are retried with exponential backoff so a Pub/Sub hiccup does not
// take the listener down for the rest of the process lifetime.
func (l *Listener) Start(ctx context.Context) error {
	l.logger.Info().
		Str("subscription", l.subscriptionName).
		Msg("starting event listener")

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = time.Minute
	bo.MaxElapsedTime = 0

	operation := func() error {
		err := l.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
			l.handleMessage(ctx, msg)
		})
		if err != nil && ctx.Err() == nil {
			l.logger.Warn().Err(err).Msg("event receive failed, retrying")
			return err
		}
		return nil
	}

	return backoff.Retry(operation, backoff.WithContext(bo, ctx))
}

// Close closes the Pub/Sub client.
func (l *Listener) Close() error {
	return l.client.Close()
}

func (l *Listener) handleMessage(ctx context.Context, msg *pubsub.Message) {
	var event Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		l.logger.Error().Err(err).Str("message_id", msg.ID).Msg("failed to parse event")
		// Malformed events can never succeed, drop them.
		msg.Ack()
		return
	}

	switch event.Type {
	case TypeScheduleChanged:
		l.invalidator.InvalidateAll(ctx)
		l.logger.Debug().
			Str("reason", event.Reason).
			Str("entity_id", event.EntityID).
			Msg("schedule changed, caches invalidated")
	default:
		l.logger.Warn().Str("type", event.Type).Msg("unknown event type")
	}

	msg.Ack()
}
