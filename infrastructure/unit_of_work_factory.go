package infrastructure

import (
	"context"

	"github.com/luckystake/pool-engine/application"
	"github.com/luckystake/pool-engine/database"
	"github.com/luckystake/pool-engine/domain/interfaces"
	"github.com/luckystake/pool-engine/events"
	"github.com/luckystake/pool-engine/repository"
)

// UnitOfWorkFactory implements application.UnitOfWorkFactory. It creates
// UnitOfWork instances that handle both database transactions and event
// publishing.
type UnitOfWorkFactory struct {
	repoFactory interface {
		CreateForPool(poolID int64) application.UnitOfWork
	}
	eventPublisher interfaces.EventPublisher
}

// NewUnitOfWorkFactory creates a new UnitOfWorkFactory.
func NewUnitOfWorkFactory(db *database.DB, eventPublisher interfaces.EventPublisher) *UnitOfWorkFactory {
	repoFactory := repository.NewUnitOfWorkFactory(db)
	return &UnitOfWorkFactory{
		repoFactory:    repoFactory,
		eventPublisher: eventPublisher,
	}
}

// RegisterLocalHandler registers a handler invoked locally for events
// published within the same process, ahead of the NATS round trip.
func (f *UnitOfWorkFactory) RegisterLocalHandler(eventType events.EventType, handler func(context.Context, events.Event) error) {
	if natsPublisher, ok := f.eventPublisher.(*NATSEventPublisher); ok {
		natsPublisher.RegisterLocalHandler(eventType, handler)
	}
}

// CreateForPool creates a new UnitOfWork, scoped to one pool, with a
// transactional event publisher.
func (f *UnitOfWorkFactory) CreateForPool(poolID int64) application.UnitOfWork {
	transactionalPublisher := NewNATSTransactionalPublisher(f.eventPublisher).(*NATSTransactionalPublisher)

	repoUow := f.repoFactory.CreateForPool(poolID)

	return &unitOfWork{
		inner:                  repoUow,
		transactionalPublisher: transactionalPublisher,
	}
}
