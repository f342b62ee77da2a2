package interfaces

import (
	"context"

	"github.com/luckystake/pool-engine/domain/entities"
)

// PoolRepository defines data access for the singleton PoolState row of one
// deployed pool instance.
type PoolRepository interface {
	// Create persists a newly initialized pool. Fails if one already exists
	// for the given ID (AlreadyInitialized is enforced by the caller, which
	// checks existence first).
	Create(ctx context.Context, pool *entities.PoolState) error

	// GetByID retrieves a pool without locking, for read-only entry points.
	GetByID(ctx context.Context, poolID int64) (*entities.PoolState, error)

	// GetByIDForUpdate retrieves a pool with a row lock (SELECT ... FOR
	// UPDATE), re-expressing the host chain's per-instance serialization for
	// every mutating entry point.
	GetByIDForUpdate(ctx context.Context, poolID int64) (*entities.PoolState, error)

	// Update persists the full mutated pool row.
	Update(ctx context.Context, pool *entities.PoolState) error
}

// DepositorRepository defines data access for the Balance/Tickets maps and
// DepositorList described in spec section 3.
type DepositorRepository interface {
	// Get retrieves one depositor's balance/tickets/list position. Returns
	// nil, nil if the address has no row (balance is implicitly zero).
	Get(ctx context.Context, poolID int64, address string) (*entities.Depositor, error)

	// Upsert inserts or updates a depositor row. Callers pass Position = -1
	// to request "append at the end of DepositorList".
	Upsert(ctx context.Context, depositor *entities.Depositor) error

	// Remove deletes a depositor row once its balance reaches zero,
	// compacting DepositorList with swap-pop so positions stay contiguous.
	Remove(ctx context.Context, poolID int64, address string) error

	// List returns every depositor with Balance > 0, ordered by Position,
	// for the draw engine's cumulative-range walk.
	List(ctx context.Context, poolID int64) ([]*entities.Depositor, error)

	// Count returns len(DepositorList) without loading every row.
	Count(ctx context.Context, poolID int64) (int, error)
}

// DrawRepository defines data access for draw history (spec section 3's
// LastDraw, supplemented with full retention per SPEC_FULL.md section 6).
type DrawRepository interface {
	// Create persists one executed draw.
	Create(ctx context.Context, draw *entities.DrawRecord) error

	// GetLatest returns the most recently executed draw for a pool, or nil
	// if execute_draw has never succeeded.
	GetLatest(ctx context.Context, poolID int64) (*entities.DrawRecord, error)

	// GetHistory returns up to limit draws, most recent first.
	GetHistory(ctx context.Context, poolID int64, limit int) ([]*entities.DrawRecord, error)
}

// LedgerEventRepository defines data access for the append-only audit log
// and the idempotency-key lookup used by admin lender calls.
type LedgerEventRepository interface {
	// Record appends one ledger event.
	Record(ctx context.Context, event *entities.LedgerEvent) error

	// FindByIdempotencyKey returns an existing event recorded under the
	// given key, or nil if the key hasn't been used for this pool yet.
	FindByIdempotencyKey(ctx context.Context, poolID int64, key string) (*entities.LedgerEvent, error)

	// GetByAddress returns the ledger history for one depositor, most
	// recent first.
	GetByAddress(ctx context.Context, poolID int64, address string, limit int) ([]*entities.LedgerEvent, error)
}
