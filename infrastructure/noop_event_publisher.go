package infrastructure

import (
	"github.com/luckystake/pool-engine/events"
)

// NoopEventPublisher discards every event. Useful for tests and tooling
// where events should not reach NATS.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a new no-op event publisher.
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// Publish does nothing with the event.
func (n *NoopEventPublisher) Publish(event events.Event) error {
	return nil
}
