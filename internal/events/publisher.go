package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/capitalize-ai/datastore-webhooks/internal/model"
	"github.com/capitalize-ai/datastore-webhooks/pkg/metrics"
)

// Publisher records turn events.
type Publisher interface {
	Publish(ctx context.Context, event *model.TurnEvent) error
}

// jsPublisher is the part of jetstream.JetStream used to publish.
type jsPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// JetStreamPublisher publishes turn events to the turn events stream.
type JetStreamPublisher struct {
	js jsPublisher
}

// NewJetStreamPublisher creates a publisher over js.
func NewJetStreamPublisher(js jsPublisher) *JetStreamPublisher {
	return &JetStreamPublisher{js: js}
}

// Publish publishes event using its id for deduplication.
func (p *JetStreamPublisher) Publish(ctx context.Context, event *model.TurnEvent) (err error) {
	defer func() { metrics.RecordEventPublish(err) }()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := p.js.Publish(ctx, Subject(event.Route, event.Outcome), data, jetstream.WithMsgID(event.ID)); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// NoopPublisher discards events. It is used when NATS is not configured.
type NoopPublisher struct{}

// Publish implements Publisher.
func (NoopPublisher) Publish(context.Context, *model.TurnEvent) error {
	return nil
}
