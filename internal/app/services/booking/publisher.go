package booking

import (
	"context"

	"bookflow/internal/domain/shared/events"
)

// EventPublisher delivers booking lifecycle events to a broker.
// Publish failures are logged, not surfaced: the booking write has
// already committed and events are informational downstream.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}

// NoopPublisher drops events; used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, events.DomainEvent) error { return nil }

var _ EventPublisher = NoopPublisher{}
