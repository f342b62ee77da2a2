package repository

import (
	"github.com/luckystake/pool-engine/application"
	"github.com/luckystake/pool-engine/database"
	"github.com/luckystake/pool-engine/domain/interfaces"
)

// NewTestUnitOfWorkFactory creates a unit of work factory for tests.
func NewTestUnitOfWorkFactory(db *database.DB) *unitOfWorkFactory {
	return NewUnitOfWorkFactory(db)
}

// CreateTestUnitOfWork creates a unit of work for testing with the
// provided event publisher.
func CreateTestUnitOfWork(db *database.DB, poolID int64, publisher interfaces.EventPublisher) application.UnitOfWork {
	factory := NewTestUnitOfWorkFactory(db)
	return factory.CreateForPoolWithPublisher(poolID, publisher)
}
