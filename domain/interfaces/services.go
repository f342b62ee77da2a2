package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/luckystake/pool-engine/domain/entities"
	"github.com/luckystake/pool-engine/events"
)

// PoolService defines every spec section 6 entry point, transaction-scoped
// by the application layer around it.
type PoolService interface {
	// Initialize creates pool state exactly once. Fails with
	// entities.ErrAlreadyInitialized / entities.ErrBadPeriod.
	Initialize(ctx context.Context, poolID int64, admin, token string, periodDays uint32) error

	// Deposit is the depositor-authenticated entry point. Fails with
	// entities.ErrZeroAmount / entities.ErrTokenTransferFailed.
	Deposit(ctx context.Context, poolID int64, depositor string, amount decimal.Decimal) error

	// Withdraw is the depositor-authenticated entry point. Fails with
	// entities.ErrZeroAmount / entities.ErrInsufficientBalance /
	// entities.ErrTokenTransferFailed.
	Withdraw(ctx context.Context, poolID int64, depositor string, amount decimal.Decimal) error

	// SetLenderPool is admin-only. Fails with entities.ErrNotInitialized /
	// entities.ErrLenderPoolLocked.
	SetLenderPool(ctx context.Context, poolID int64, admin, lenderPool string) error

	// SupplyToLender is admin-only. Fails with entities.ErrNotInitialized /
	// entities.ErrLenderNotSet / entities.ErrTokenTransferFailed /
	// entities.ErrLenderRejected.
	SupplyToLender(ctx context.Context, poolID int64, admin string, amount decimal.Decimal, idempotencyKey string) error

	// WithdrawFromLender is admin-only and slippage-guarded. Returns the
	// actual realized amount. Fails with entities.ErrNotInitialized /
	// entities.ErrLenderNotSet / entities.ErrSlippageExceeded /
	// entities.ErrLenderRejected.
	WithdrawFromLender(ctx context.Context, poolID int64, admin string, amount, minReturn decimal.Decimal, idempotencyKey string) (decimal.Decimal, error)

	// HarvestYield is admin-only and slippage-guarded, identical error
	// surface to WithdrawFromLender but credits PrizeFund instead of
	// reducing SuppliedToLender.
	HarvestYield(ctx context.Context, poolID int64, admin string, amount, minReturn decimal.Decimal, idempotencyKey string) (decimal.Decimal, error)

	// ExecuteDraw is admin-only. Fails with entities.ErrNoParticipants /
	// entities.ErrNoTickets / entities.ErrNoPrize / entities.ErrTokenTransferFailed.
	ExecuteDraw(ctx context.Context, poolID int64, admin string) (*entities.DrawRecord, error)

	// GetBalance / GetTickets / GetPool / GetLastDraw / GetDrawHistory serve
	// the read-only entry points in spec section 6's table.
	GetBalance(ctx context.Context, poolID int64, address string) (decimal.Decimal, error)
	GetTickets(ctx context.Context, poolID int64, address string) (decimal.Decimal, error)
	GetPool(ctx context.Context, poolID int64) (*entities.PoolState, error)
	GetLastDraw(ctx context.Context, poolID int64) (*entities.DrawRecord, error)
	GetDrawHistory(ctx context.Context, poolID int64, limit int) ([]*entities.DrawRecord, error)
}

// EventPublisher defines the interface for publishing domain events.
type EventPublisher interface {
	Publish(event events.Event) error
}
