package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/luckystake/pool-engine/domain/entities"
)

// PoolRepository implements pool instance data access.
type PoolRepository struct {
	q Queryable
}

// NewPoolRepositoryScoped creates a new pool repository scoped to a
// transaction.
func NewPoolRepositoryScoped(tx Queryable) *PoolRepository {
	return &PoolRepository{q: tx}
}

func (r *PoolRepository) Create(ctx context.Context, pool *entities.PoolState) error {
	query := `
		INSERT INTO pools (id, admin_address, token_address, period_days, total_deposits,
		                    total_tickets, prize_fund, lender_pool_address, supplied_to_lender,
		                    draw_nonce, initialized_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.q.Exec(ctx, query,
		pool.ID, pool.Admin, pool.Token, pool.PeriodDays, pool.TotalDeposits,
		pool.TotalTickets, pool.PrizeFund, pool.LenderPool, pool.SuppliedToLender,
		pool.DrawNonce, pool.InitializedAt, pool.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create pool %d: %w", pool.ID, err)
	}
	return nil
}

func (r *PoolRepository) GetByID(ctx context.Context, poolID int64) (*entities.PoolState, error) {
	return r.scanOne(ctx, poolID, "")
}

func (r *PoolRepository) GetByIDForUpdate(ctx context.Context, poolID int64) (*entities.PoolState, error) {
	return r.scanOne(ctx, poolID, "FOR UPDATE")
}

func (r *PoolRepository) scanOne(ctx context.Context, poolID int64, locking string) (*entities.PoolState, error) {
	query := fmt.Sprintf(`
		SELECT id, admin_address, token_address, period_days, total_deposits,
		       total_tickets, prize_fund, lender_pool_address, supplied_to_lender,
		       draw_nonce, initialized_at, updated_at
		FROM pools
		WHERE id = $1
		%s
	`, locking)

	var pool entities.PoolState
	err := r.q.QueryRow(ctx, query, poolID).Scan(
		&pool.ID, &pool.Admin, &pool.Token, &pool.PeriodDays, &pool.TotalDeposits,
		&pool.TotalTickets, &pool.PrizeFund, &pool.LenderPool, &pool.SuppliedToLender,
		&pool.DrawNonce, &pool.InitializedAt, &pool.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pool %d: %w", poolID, err)
	}
	return &pool, nil
}

func (r *PoolRepository) Update(ctx context.Context, pool *entities.PoolState) error {
	query := `
		UPDATE pools
		SET total_deposits = $2,
		    total_tickets = $3,
		    prize_fund = $4,
		    lender_pool_address = $5,
		    supplied_to_lender = $6,
		    draw_nonce = $7,
		    updated_at = $8
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query,
		pool.ID, pool.TotalDeposits, pool.TotalTickets, pool.PrizeFund,
		pool.LenderPool, pool.SuppliedToLender, pool.DrawNonce, pool.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update pool %d: %w", pool.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("pool %d not found", pool.ID)
	}
	return nil
}
