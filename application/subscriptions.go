package application

import (
	"context"

	domain "github.com/luckystake/pool-engine/domain"
	"github.com/luckystake/pool-engine/events"

	log "github.com/sirupsen/logrus"
)

// RegisterApplicationSubscriptions registers application-level handlers for
// domain events that have side effects outside the transaction that raised
// them — currently just structured logging of draw completions, with the
// WebSocket mirror (infrastructure/wshub) subscribing independently.
func RegisterApplicationSubscriptions(subscriber domain.EventSubscriber) error {
	return subscriber.Subscribe(events.EventTypeDrawExecuted, func(ctx context.Context, event events.Event) error {
		drawEvent, err := AssertEventType[events.DrawExecutedEvent](event, "DrawExecutedEvent")
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"poolID": drawEvent.PoolID,
			"winner": drawEvent.Winner,
			"prize":  drawEvent.Prize.String(),
			"nonce":  drawEvent.Nonce,
		}).Info("draw executed")
		return nil
	})
}
