package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/luckystake/pool-engine/domain/entities"
)

// DepositorRepository implements per-depositor balance/ticket/list-position
// data access.
type DepositorRepository struct {
	q Queryable
}

// NewDepositorRepositoryScoped creates a new depositor repository scoped to
// a transaction.
func NewDepositorRepositoryScoped(tx Queryable) *DepositorRepository {
	return &DepositorRepository{q: tx}
}

func (r *DepositorRepository) Get(ctx context.Context, poolID int64, address string) (*entities.Depositor, error) {
	query := `
		SELECT pool_id, address, balance, tickets, list_position
		FROM depositors
		WHERE pool_id = $1 AND address = $2
	`

	var d entities.Depositor
	err := r.q.QueryRow(ctx, query, poolID, address).Scan(&d.PoolID, &d.Address, &d.Balance, &d.Tickets, &d.Position)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get depositor %s in pool %d: %w", address, poolID, err)
	}
	return &d, nil
}

// Upsert inserts or updates a depositor row. Position = -1 requests
// "append at the end of DepositorList", resolved here as one past the
// current maximum position for the pool.
func (r *DepositorRepository) Upsert(ctx context.Context, depositor *entities.Depositor) error {
	query := `
		INSERT INTO depositors (pool_id, address, balance, tickets, list_position)
		VALUES ($1, $2, $3, $4,
		        CASE WHEN $5 = -1
		             THEN COALESCE((SELECT MAX(list_position) + 1 FROM depositors WHERE pool_id = $1), 0)
		             ELSE $5
		        END)
		ON CONFLICT (pool_id, address) DO UPDATE
		SET balance = EXCLUDED.balance,
		    tickets = EXCLUDED.tickets
		RETURNING list_position
	`

	err := r.q.QueryRow(ctx, query, depositor.PoolID, depositor.Address, depositor.Balance, depositor.Tickets, depositor.Position).
		Scan(&depositor.Position)
	if err != nil {
		return fmt.Errorf("failed to upsert depositor %s in pool %d: %w", depositor.Address, depositor.PoolID, err)
	}
	return nil
}

// Remove deletes a depositor row once its balance reaches zero. Gaps left
// in list_position are harmless: List orders by list_position but nothing
// relies on the sequence being contiguous, so no compaction pass is needed.
func (r *DepositorRepository) Remove(ctx context.Context, poolID int64, address string) error {
	query := `DELETE FROM depositors WHERE pool_id = $1 AND address = $2`

	result, err := r.q.Exec(ctx, query, poolID, address)
	if err != nil {
		return fmt.Errorf("failed to remove depositor %s from pool %d: %w", address, poolID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("depositor %s not found in pool %d", address, poolID)
	}
	return nil
}

func (r *DepositorRepository) List(ctx context.Context, poolID int64) ([]*entities.Depositor, error) {
	query := `
		SELECT pool_id, address, balance, tickets, list_position
		FROM depositors
		WHERE pool_id = $1
		ORDER BY list_position ASC
	`

	rows, err := r.q.Query(ctx, query, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to list depositors for pool %d: %w", poolID, err)
	}
	defer rows.Close()

	var depositors []*entities.Depositor
	for rows.Next() {
		var d entities.Depositor
		if err := rows.Scan(&d.PoolID, &d.Address, &d.Balance, &d.Tickets, &d.Position); err != nil {
			return nil, fmt.Errorf("failed to scan depositor: %w", err)
		}
		depositors = append(depositors, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate depositors: %w", err)
	}
	return depositors, nil
}

func (r *DepositorRepository) Count(ctx context.Context, poolID int64) (int, error) {
	query := `SELECT COUNT(*) FROM depositors WHERE pool_id = $1`

	var count int
	if err := r.q.QueryRow(ctx, query, poolID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count depositors for pool %d: %w", poolID, err)
	}
	return count, nil
}
