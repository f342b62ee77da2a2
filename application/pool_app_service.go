package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/luckystake/pool-engine/domain/entities"
	"github.com/luckystake/pool-engine/domain/interfaces"
	"github.com/luckystake/pool-engine/domain/services"
)

// PoolAppService wraps interfaces.PoolService with per-call transaction
// management. There is no background scheduler here: each entry point is
// driven by an inbound HTTP request and runs inside exactly one unit of
// work, opened and committed (or rolled back) around the single call.
type PoolAppService struct {
	uowFactory     UnitOfWorkFactory
	tokenGateway   interfaces.TokenGateway
	lenderPool     interfaces.LenderPool
	randomSource   interfaces.RandomSource
}

// NewPoolAppService creates a new pool application service.
func NewPoolAppService(
	uowFactory UnitOfWorkFactory,
	tokenGateway interfaces.TokenGateway,
	lenderPool interfaces.LenderPool,
	randomSource interfaces.RandomSource,
) *PoolAppService {
	return &PoolAppService{
		uowFactory:   uowFactory,
		tokenGateway: tokenGateway,
		lenderPool:   lenderPool,
		randomSource: randomSource,
	}
}

func (a *PoolAppService) poolService(uow UnitOfWork) interfaces.PoolService {
	return services.NewPoolService(
		uow.PoolRepository(),
		uow.DepositorRepository(),
		uow.DrawRepository(),
		uow.LedgerEventRepository(),
		a.tokenGateway,
		a.lenderPool,
		a.randomSource,
		uow.EventBus(),
	)
}

// withTx opens a unit of work scoped to poolID, runs fn against a
// PoolService bound to it, and commits on success or rolls back on error.
func (a *PoolAppService) withTx(ctx context.Context, poolID int64, fn func(svc interfaces.PoolService) error) error {
	uow := a.uowFactory.CreateForPool(poolID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := fn(a.poolService(uow)); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (a *PoolAppService) Initialize(ctx context.Context, poolID int64, admin, token string, periodDays uint32) error {
	return a.withTx(ctx, poolID, func(svc interfaces.PoolService) error {
		return svc.Initialize(ctx, poolID, admin, token, periodDays)
	})
}

func (a *PoolAppService) Deposit(ctx context.Context, poolID int64, depositor string, amount decimal.Decimal) error {
	return a.withTx(ctx, poolID, func(svc interfaces.PoolService) error {
		return svc.Deposit(ctx, poolID, depositor, amount)
	})
}

func (a *PoolAppService) Withdraw(ctx context.Context, poolID int64, depositor string, amount decimal.Decimal) error {
	return a.withTx(ctx, poolID, func(svc interfaces.PoolService) error {
		return svc.Withdraw(ctx, poolID, depositor, amount)
	})
}

func (a *PoolAppService) SetLenderPool(ctx context.Context, poolID int64, admin, lenderPool string) error {
	return a.withTx(ctx, poolID, func(svc interfaces.PoolService) error {
		return svc.SetLenderPool(ctx, poolID, admin, lenderPool)
	})
}

func (a *PoolAppService) SupplyToLender(ctx context.Context, poolID int64, admin string, amount decimal.Decimal, idempotencyKey string) error {
	return a.withTx(ctx, poolID, func(svc interfaces.PoolService) error {
		return svc.SupplyToLender(ctx, poolID, admin, amount, idempotencyKey)
	})
}

func (a *PoolAppService) WithdrawFromLender(ctx context.Context, poolID int64, admin string, amount, minReturn decimal.Decimal, idempotencyKey string) (decimal.Decimal, error) {
	var realized decimal.Decimal
	err := a.withTx(ctx, poolID, func(svc interfaces.PoolService) error {
		var err error
		realized, err = svc.WithdrawFromLender(ctx, poolID, admin, amount, minReturn, idempotencyKey)
		return err
	})
	return realized, err
}

func (a *PoolAppService) HarvestYield(ctx context.Context, poolID int64, admin string, amount, minReturn decimal.Decimal, idempotencyKey string) (decimal.Decimal, error) {
	var realized decimal.Decimal
	err := a.withTx(ctx, poolID, func(svc interfaces.PoolService) error {
		var err error
		realized, err = svc.HarvestYield(ctx, poolID, admin, amount, minReturn, idempotencyKey)
		return err
	})
	return realized, err
}

func (a *PoolAppService) ExecuteDraw(ctx context.Context, poolID int64, admin string) (*entities.DrawRecord, error) {
	var draw *entities.DrawRecord
	err := a.withTx(ctx, poolID, func(svc interfaces.PoolService) error {
		var err error
		draw, err = svc.ExecuteDraw(ctx, poolID, admin)
		return err
	})
	return draw, err
}

func (a *PoolAppService) GetBalance(ctx context.Context, poolID int64, address string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := a.withTx(ctx, poolID, func(svc interfaces.PoolService) error {
		var err error
		balance, err = svc.GetBalance(ctx, poolID, address)
		return err
	})
	return balance, err
}

func (a *PoolAppService) GetTickets(ctx context.Context, poolID int64, address string) (decimal.Decimal, error) {
	var tickets decimal.Decimal
	err := a.withTx(ctx, poolID, func(svc interfaces.PoolService) error {
		var err error
		tickets, err = svc.GetTickets(ctx, poolID, address)
		return err
	})
	return tickets, err
}

func (a *PoolAppService) GetPool(ctx context.Context, poolID int64) (*entities.PoolState, error) {
	var pool *entities.PoolState
	err := a.withTx(ctx, poolID, func(svc interfaces.PoolService) error {
		var err error
		pool, err = svc.GetPool(ctx, poolID)
		return err
	})
	return pool, err
}

func (a *PoolAppService) GetLastDraw(ctx context.Context, poolID int64) (*entities.DrawRecord, error) {
	var draw *entities.DrawRecord
	err := a.withTx(ctx, poolID, func(svc interfaces.PoolService) error {
		var err error
		draw, err = svc.GetLastDraw(ctx, poolID)
		return err
	})
	return draw, err
}

func (a *PoolAppService) GetDrawHistory(ctx context.Context, poolID int64, limit int) ([]*entities.DrawRecord, error) {
	var history []*entities.DrawRecord
	err := a.withTx(ctx, poolID, func(svc interfaces.PoolService) error {
		var err error
		history, err = svc.GetDrawHistory(ctx, poolID, limit)
		return err
	})
	return history, err
}
