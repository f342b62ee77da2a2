package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEvent is an immutable, append-only audit row written for every
// mutating entry point, mirroring the teacher's balance-history-as-audit-log
// pattern. It also doubles as the idempotency record for admin lender calls
// (SPEC_FULL.md section 6): a retried call carrying the same IdempotencyKey
// is rejected before it reaches the Lender a second time.
type LedgerEvent struct {
	ID              int64           `db:"id"`
	PoolID          int64           `db:"pool_id"`
	Address         string          `db:"address"`
	Kind            EventKind       `db:"kind"`
	Amount          decimal.Decimal `db:"amount"`
	BalanceBefore   decimal.Decimal `db:"balance_before"`
	BalanceAfter    decimal.Decimal `db:"balance_after"`
	IdempotencyKey  *string         `db:"idempotency_key"`
	CreatedAt       time.Time       `db:"created_at"`
}

// IsCreditEvent reports whether the event increased the subject's balance.
func (e *LedgerEvent) IsCreditEvent() bool {
	return e.BalanceAfter.GreaterThan(e.BalanceBefore)
}
