package events

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// Publisher publishes schedule-changed events to a Pub/Sub topic.
type Publisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topicName string
	logger    zerolog.Logger
}

// PublisherConfig holds configuration for the publisher.
type PublisherConfig struct {
	ProjectID string
	TopicName string
	Logger    zerolog.Logger
}

// NewPublisher creates a new Pub/Sub publisher.
func NewPublisher(ctx context.Context, cfg PublisherConfig) (*Publisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &Publisher{
		client:    client,
		publisher: client.Publisher(cfg.TopicName),
		topicName: cfg.TopicName,
		logger:    cfg.Logger.With().Str("component", "event_publisher").Logger(),
	}, nil
}

// ScheduleChanged publishes a schedule-changed event. Publish failures are
// logged but not returned: the local cache is already invalidated, and the
// short cache TTL bounds how long other instances can stay stale.
func (p *Publisher) ScheduleChanged(ctx context.Context, reason, entityID string) {
	event := Event{
		Type:       TypeScheduleChanged,
		Reason:     reason,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}

	data, err := event.Marshal()
	if err != nil {
		p.logger.Error().Err(err).Msg("marshaling schedule-changed event")
		return
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{Data: data})
	if _, err := result.Get(ctx); err != nil {
		p.logger.Error().Err(err).
			Str("topic", p.topicName).
			Str("reason", reason).
			Msg("publishing schedule-changed event")
		return
	}

	p.logger.Debug().
		Str("reason", reason).
		Str("entity_id", entityID).
		Msg("published schedule-changed event")
}

// Close stops the publisher and releases the client.
func (p *Publisher) Close() error {
	p.publisher.Stop()
	return p.client.Close()
}
