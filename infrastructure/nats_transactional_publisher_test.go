package infrastructure

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckystake/pool-engine/events"
)

// mockEventPublisher is a mock implementation of interfaces.EventPublisher.
type mockEventPublisher struct {
	PublishedEvents []events.Event
	PublishError    error
}

func (m *mockEventPublisher) Publish(event events.Event) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, event)
	return nil
}

func TestNATSTransactionalPublisher_LocalHandlers(t *testing.T) {
	mockPublisher := &mockEventPublisher{PublishedEvents: make([]events.Event, 0)}
	transPublisher := NewNATSTransactionalPublisher(mockPublisher).(*NATSTransactionalPublisher)

	handlerCalled := false
	var receivedEvent events.Event

	transPublisher.RegisterLocalHandler(events.EventTypeDrawExecuted, func(ctx context.Context, event events.Event) error {
		handlerCalled = true
		receivedEvent = event
		return nil
	})

	testEvent := events.DrawExecutedEvent{
		PoolID: 1,
		Winner: "GABCDEF",
		Prize:  decimal.NewFromInt(500),
		Nonce:  3,
	}

	err := transPublisher.Publish(testEvent)
	require.NoError(t, err)

	assert.False(t, handlerCalled)
	assert.Len(t, mockPublisher.PublishedEvents, 0)

	err = transPublisher.Flush(context.Background())
	require.NoError(t, err)

	assert.True(t, handlerCalled)
	assert.Equal(t, testEvent, receivedEvent)

	require.Len(t, mockPublisher.PublishedEvents, 1)
	assert.Equal(t, testEvent, mockPublisher.PublishedEvents[0])
}

func TestNATSTransactionalPublisher_MultipleLocalHandlers(t *testing.T) {
	mockPublisher := &mockEventPublisher{PublishedEvents: make([]events.Event, 0)}
	transPublisher := NewNATSTransactionalPublisher(mockPublisher).(*NATSTransactionalPublisher)

	handler1Called := false
	handler2Called := false

	transPublisher.RegisterLocalHandler(events.EventTypeDrawExecuted, func(ctx context.Context, event events.Event) error {
		handler1Called = true
		return nil
	})
	transPublisher.RegisterLocalHandler(events.EventTypeDrawExecuted, func(ctx context.Context, event events.Event) error {
		handler2Called = true
		return nil
	})

	testEvent := events.DrawExecutedEvent{
		PoolID: 1,
		Winner: "GABCDEF",
		Prize:  decimal.NewFromInt(500),
		Nonce:  3,
	}

	err := transPublisher.Publish(testEvent)
	require.NoError(t, err)

	err = transPublisher.Flush(context.Background())
	require.NoError(t, err)

	assert.True(t, handler1Called)
	assert.True(t, handler2Called)
}

func TestNATSTransactionalPublisher_Discard(t *testing.T) {
	mockPublisher := &mockEventPublisher{PublishedEvents: make([]events.Event, 0)}
	transPublisher := NewNATSTransactionalPublisher(mockPublisher).(*NATSTransactionalPublisher)

	handlerCalled := false

	transPublisher.RegisterLocalHandler(events.EventTypeDrawExecuted, func(ctx context.Context, event events.Event) error {
		handlerCalled = true
		return nil
	})

	testEvent := events.DrawExecutedEvent{
		PoolID: 1,
		Winner: "GABCDEF",
		Prize:  decimal.NewFromInt(500),
		Nonce:  3,
	}

	err := transPublisher.Publish(testEvent)
	require.NoError(t, err)

	transPublisher.Discard()

	assert.False(t, handlerCalled)
	assert.Len(t, mockPublisher.PublishedEvents, 0)
}
