package memory

import (
	"context"
	"sync"

	"bookflow/internal/domain/shared/events"
)

// EventLog records published events in memory; stands in for the Kafka
// producer in dev mode and tests.
type EventLog struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func NewEventLog() *EventLog {
	return &EventLog{}
}

func (l *EventLog) Publish(ctx context.Context, event events.DomainEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return nil
}

func (l *EventLog) Events() []events.DomainEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]events.DomainEvent, len(l.events))
	copy(out, l.events)
	return out
}
