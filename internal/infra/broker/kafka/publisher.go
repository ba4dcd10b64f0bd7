package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookflow/internal/domain/shared/events"
)

// EventPublisher serializes domain events to JSON and publishes them on
// a per-stream topic, keyed by aggregate id so events for one booking
// stay ordered within a partition.
type EventPublisher struct {
	Producer    *Producer
	TopicPrefix string
}

type eventEnvelope struct {
	Name       string          `json:"name"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

func (p *EventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: marshal event %s: %w", event.EventName(), err)
	}
	envelope, err := json.Marshal(eventEnvelope{
		Name:       event.EventName(),
		OccurredAt: event.OccurredAt(),
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("kafka: marshal envelope: %w", err)
	}
	topic := p.TopicPrefix + "bookings"
	headers := map[string]string{"event": event.EventName()}
	return p.Producer.Publish(ctx, topic, event.AggregateID(), envelope, headers)
}
