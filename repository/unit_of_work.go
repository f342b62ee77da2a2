package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/luckystake/pool-engine/application"
	"github.com/luckystake/pool-engine/database"
	"github.com/luckystake/pool-engine/domain/interfaces"
	"github.com/luckystake/pool-engine/events"
)

// noopEventPublisher discards events published directly against a
// UnitOfWork that a caller intends to wrap with its own transactional
// publisher (see infrastructure.UnitOfWorkFactory).
type noopEventPublisher struct{}

func (noopEventPublisher) Publish(event events.Event) error { return nil }

// unitOfWork implements application.UnitOfWork against a single pgx
// transaction scoped to one pool.
type unitOfWork struct {
	db         *database.DB
	tx         pgx.Tx
	ctx        context.Context
	poolID     int64
	publisher  interfaces.EventPublisher
	poolRepo   interfaces.PoolRepository
	depRepo    interfaces.DepositorRepository
	drawRepo   interfaces.DrawRepository
	ledgerRepo interfaces.LedgerEventRepository
}

type unitOfWorkFactory struct {
	db *database.DB
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory.
func NewUnitOfWorkFactory(db *database.DB) *unitOfWorkFactory {
	return &unitOfWorkFactory{db: db}
}

// CreateForPool creates a new UnitOfWork for a pool with no event
// publishing; used when the caller wraps this UnitOfWork with its own
// transactional publisher (see infrastructure.UnitOfWorkFactory).
func (f *unitOfWorkFactory) CreateForPool(poolID int64) application.UnitOfWork {
	return &unitOfWork{db: f.db, poolID: poolID, publisher: noopEventPublisher{}}
}

// CreateForPoolWithPublisher creates a new UnitOfWork that publishes
// directly through the given publisher on commit, for callers that don't
// go through the infrastructure wrapper (tests, one-off scripts).
func (f *unitOfWorkFactory) CreateForPoolWithPublisher(poolID int64, publisher interfaces.EventPublisher) application.UnitOfWork {
	return &unitOfWork{db: f.db, poolID: poolID, publisher: publisher}
}

// Begin starts a new transaction.
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.poolRepo = NewPoolRepositoryScoped(tx)
	u.depRepo = NewDepositorRepositoryScoped(tx)
	u.drawRepo = NewDrawRepositoryScoped(tx)
	u.ledgerRepo = NewLedgerEventRepositoryScoped(tx)

	return nil
}

// Commit commits the transaction.
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil
	return nil
}

// Rollback rolls back the transaction.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil
	return nil
}

func (u *unitOfWork) PoolRepository() interfaces.PoolRepository {
	if u.poolRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.poolRepo
}

func (u *unitOfWork) DepositorRepository() interfaces.DepositorRepository {
	if u.depRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.depRepo
}

func (u *unitOfWork) DrawRepository() interfaces.DrawRepository {
	if u.drawRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.drawRepo
}

func (u *unitOfWork) LedgerEventRepository() interfaces.LedgerEventRepository {
	if u.ledgerRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ledgerRepo
}

// EventBus returns the configured publisher for direct (non-transactional)
// use. Callers wrapping this UnitOfWork in infrastructure.unitOfWork ignore
// this and flush through their own transactional publisher instead.
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	return u.publisher
}
