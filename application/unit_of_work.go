package application

import (
	"context"

	"github.com/luckystake/pool-engine/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations,
// re-expressing the host chain's atomic per-instance transaction semantics
// (spec section 5) as a pgx.Tx-scoped transaction at the infrastructure
// layer.
type UnitOfWork interface {
	// Begin starts a new transaction.
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes any queued domain events.
	Commit() error

	// Rollback rolls back the transaction and discards any queued events.
	Rollback() error

	// Repository getters, transaction-scoped.
	PoolRepository() interfaces.PoolRepository
	DepositorRepository() interfaces.DepositorRepository
	DrawRepository() interfaces.DrawRepository
	LedgerEventRepository() interfaces.LedgerEventRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
// scoped to one pool instance.
type UnitOfWorkFactory interface {
	// CreateForPool creates a new UnitOfWork instance scoped to a specific
	// pool ID.
	CreateForPool(poolID int64) UnitOfWork
}
