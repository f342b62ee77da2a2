package repository

import (
	"context"
	"fmt"
	"math/big"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/luckystake/pool-engine/domain/entities"
)

// seed is stored as NUMERIC(20,0) rather than BIGINT: the VRF-derived seed
// (infrastructure/vrf.RedisSequenceSource, domain/services.ComputeSeed)
// routinely exceeds math.MaxInt64, which a signed BIGINT column cannot hold.
// decimal.Decimal round-trips the full uint64 range through pgx's existing
// NUMERIC binding without introducing a second numeric codec.
func seedToDecimal(seed uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(seed), 0)
}

func decimalToSeed(d decimal.Decimal) uint64 {
	return d.BigInt().Uint64()
}

// DrawRepository implements draw history data access.
type DrawRepository struct {
	q Queryable
}

// NewDrawRepositoryScoped creates a new draw repository scoped to a
// transaction.
func NewDrawRepositoryScoped(tx Queryable) *DrawRepository {
	return &DrawRepository{q: tx}
}

func (r *DrawRepository) Create(ctx context.Context, draw *entities.DrawRecord) error {
	query := `
		INSERT INTO draw_records (pool_id, nonce, winner_address, prize, seed, executed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query, draw.PoolID, draw.Nonce, draw.Winner, draw.Prize, seedToDecimal(draw.Seed), draw.ExecutedAt).
		Scan(&draw.ID)
	if err != nil {
		return fmt.Errorf("failed to create draw record for pool %d: %w", draw.PoolID, err)
	}
	return nil
}

func (r *DrawRepository) GetLatest(ctx context.Context, poolID int64) (*entities.DrawRecord, error) {
	query := `
		SELECT id, pool_id, nonce, winner_address, prize, seed, executed_at
		FROM draw_records
		WHERE pool_id = $1
		ORDER BY nonce DESC
		LIMIT 1
	`

	var d entities.DrawRecord
	var seed decimal.Decimal
	err := r.q.QueryRow(ctx, query, poolID).Scan(&d.ID, &d.PoolID, &d.Nonce, &d.Winner, &d.Prize, &seed, &d.ExecutedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest draw for pool %d: %w", poolID, err)
	}
	d.Seed = decimalToSeed(seed)
	return &d, nil
}

func (r *DrawRepository) GetHistory(ctx context.Context, poolID int64, limit int) ([]*entities.DrawRecord, error) {
	query := `
		SELECT id, pool_id, nonce, winner_address, prize, seed, executed_at
		FROM draw_records
		WHERE pool_id = $1
		ORDER BY nonce DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, poolID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw history for pool %d: %w", poolID, err)
	}
	defer rows.Close()

	var draws []*entities.DrawRecord
	for rows.Next() {
		var d entities.DrawRecord
		var seed decimal.Decimal
		if err := rows.Scan(&d.ID, &d.PoolID, &d.Nonce, &d.Winner, &d.Prize, &seed, &d.ExecutedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draw record: %w", err)
		}
		d.Seed = decimalToSeed(seed)
		draws = append(draws, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate draw history: %w", err)
	}
	return draws, nil
}
