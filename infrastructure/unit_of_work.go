package infrastructure

import (
	"context"

	"github.com/luckystake/pool-engine/application"
	"github.com/luckystake/pool-engine/domain/interfaces"
)

// unitOfWork wraps the repository UnitOfWork and adds event publishing on
// commit.
type unitOfWork struct {
	inner                  application.UnitOfWork
	transactionalPublisher *NATSTransactionalPublisher
	ctx                    context.Context
}

// Begin starts a new transaction.
func (u *unitOfWork) Begin(ctx context.Context) error {
	u.ctx = ctx
	return u.inner.Begin(ctx)
}

// Commit commits the transaction and flushes events on success.
func (u *unitOfWork) Commit() error {
	if err := u.inner.Commit(); err != nil {
		return err
	}

	if u.transactionalPublisher != nil {
		_ = u.transactionalPublisher.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction and discards pending events.
func (u *unitOfWork) Rollback() error {
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	return u.inner.Rollback()
}

func (u *unitOfWork) PoolRepository() interfaces.PoolRepository {
	return u.inner.PoolRepository()
}

func (u *unitOfWork) DepositorRepository() interfaces.DepositorRepository {
	return u.inner.DepositorRepository()
}

func (u *unitOfWork) DrawRepository() interfaces.DrawRepository {
	return u.inner.DrawRepository()
}

func (u *unitOfWork) LedgerEventRepository() interfaces.LedgerEventRepository {
	return u.inner.LedgerEventRepository()
}

// EventBus returns the transactional event publisher.
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("transactional publisher not configured")
	}
	return u.transactionalPublisher
}
