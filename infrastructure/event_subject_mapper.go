package infrastructure

import (
	"fmt"

	"github.com/luckystake/pool-engine/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects.
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper.
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject.
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeDeposited:
		return "pool.deposited"
	case events.EventTypeWithdrew:
		return "pool.withdrew"
	case events.EventTypeSupplied:
		return "pool.supplied"
	case events.EventTypeWithdrawn:
		return "pool.withdrawn"
	case events.EventTypeHarvested:
		return "pool.harvested"
	case events.EventTypeDrawExecuted:
		return "pool.draw_executed"
	default:
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapEventTypeToSubject converts an event type to its NATS subject without
// requiring an event instance.
func (m *EventSubjectMapper) MapEventTypeToSubject(eventType events.EventType) string {
	switch eventType {
	case events.EventTypeDeposited:
		return "pool.deposited"
	case events.EventTypeWithdrew:
		return "pool.withdrew"
	case events.EventTypeSupplied:
		return "pool.supplied"
	case events.EventTypeWithdrawn:
		return "pool.withdrawn"
	case events.EventTypeHarvested:
		return "pool.harvested"
	case events.EventTypeDrawExecuted:
		return "pool.draw_executed"
	default:
		return fmt.Sprintf("unknown.%s", eventType)
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type.
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "pool.deposited":
		return events.EventTypeDeposited
	case "pool.withdrew":
		return events.EventTypeWithdrew
	case "pool.supplied":
		return events.EventTypeSupplied
	case "pool.withdrawn":
		return events.EventTypeWithdrawn
	case "pool.harvested":
		return events.EventTypeHarvested
	case "pool.draw_executed":
		return events.EventTypeDrawExecuted
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects this service publishes to.
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"pool.deposited",
		"pool.withdrew",
		"pool.supplied",
		"pool.withdrawn",
		"pool.harvested",
		"pool.draw_executed",
	}
}
