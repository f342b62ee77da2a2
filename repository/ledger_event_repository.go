package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/luckystake/pool-engine/domain/entities"
)

// LedgerEventRepository implements the append-only audit log and the
// idempotency-key lookup used by admin lender calls.
type LedgerEventRepository struct {
	q Queryable
}

// NewLedgerEventRepositoryScoped creates a new ledger event repository
// scoped to a transaction.
func NewLedgerEventRepositoryScoped(tx Queryable) *LedgerEventRepository {
	return &LedgerEventRepository{q: tx}
}

func (r *LedgerEventRepository) Record(ctx context.Context, event *entities.LedgerEvent) error {
	query := `
		INSERT INTO ledger_events (pool_id, address, kind, amount, balance_before, balance_after,
		                           idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query,
		event.PoolID, event.Address, event.Kind, event.Amount, event.BalanceBefore, event.BalanceAfter,
		event.IdempotencyKey, event.CreatedAt,
	).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("failed to record ledger event for pool %d: %w", event.PoolID, err)
	}
	return nil
}

func (r *LedgerEventRepository) FindByIdempotencyKey(ctx context.Context, poolID int64, key string) (*entities.LedgerEvent, error) {
	query := `
		SELECT id, pool_id, address, kind, amount, balance_before, balance_after, idempotency_key, created_at
		FROM ledger_events
		WHERE pool_id = $1 AND idempotency_key = $2
	`

	var e entities.LedgerEvent
	err := r.q.QueryRow(ctx, query, poolID, key).Scan(
		&e.ID, &e.PoolID, &e.Address, &e.Kind, &e.Amount, &e.BalanceBefore, &e.BalanceAfter, &e.IdempotencyKey, &e.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up idempotency key for pool %d: %w", poolID, err)
	}
	return &e, nil
}

func (r *LedgerEventRepository) GetByAddress(ctx context.Context, poolID int64, address string, limit int) ([]*entities.LedgerEvent, error) {
	query := `
		SELECT id, pool_id, address, kind, amount, balance_before, balance_after, idempotency_key, created_at
		FROM ledger_events
		WHERE pool_id = $1 AND address = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, poolID, address, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger history for %s in pool %d: %w", address, poolID, err)
	}
	defer rows.Close()

	var events []*entities.LedgerEvent
	for rows.Next() {
		var e entities.LedgerEvent
		if err := rows.Scan(&e.ID, &e.PoolID, &e.Address, &e.Kind, &e.Amount, &e.BalanceBefore, &e.BalanceAfter, &e.IdempotencyKey, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger event: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger events: %w", err)
	}
	return events, nil
}
