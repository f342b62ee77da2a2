package infrastructure

import (
	"github.com/luckystake/pool-engine/application"
	"github.com/luckystake/pool-engine/database"
	"github.com/luckystake/pool-engine/domain/interfaces"
	"github.com/luckystake/pool-engine/repository"
)

// TestUnitOfWorkFactory is a test factory that creates new unit of work
// instances. It lives in the infrastructure package to avoid a circular
// dependency between application and repository.
type TestUnitOfWorkFactory struct {
	db        *database.DB
	publisher interfaces.EventPublisher
}

// NewTestUnitOfWorkFactory creates a new test unit of work factory.
func NewTestUnitOfWorkFactory(db *database.DB, publisher interfaces.EventPublisher) *TestUnitOfWorkFactory {
	return &TestUnitOfWorkFactory{
		db:        db,
		publisher: publisher,
	}
}

// CreateForPool creates a new UnitOfWork instance for testing.
func (f *TestUnitOfWorkFactory) CreateForPool(poolID int64) application.UnitOfWork {
	return repository.CreateTestUnitOfWork(f.db, poolID, f.publisher)
}
