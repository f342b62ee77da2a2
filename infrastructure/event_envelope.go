package infrastructure

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/luckystake/pool-engine/events"
)

// eventEnvelope is the wire format published to NATS JetStream. The engine
// has no generated protobuf models, so the envelope is a plain JSON struct.
type eventEnvelope struct {
	ID         string          `json:"id"`
	Type       events.EventType `json:"type"`
	PoolID     int64           `json:"pool_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

func newEventEnvelope(event events.Event) (*eventEnvelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return &eventEnvelope{
		ID:         uuid.New().String(),
		Type:       event.Type(),
		PoolID:     events.PoolIDOf(event),
		OccurredAt: time.Now(),
		Payload:    payload,
	}, nil
}
