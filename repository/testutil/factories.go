package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/luckystake/pool-engine/domain/entities"
)

// CreateTestPool creates a test pool with sensible defaults, ready to
// accept deposits.
func CreateTestPool(id int64, admin, token string, periodDays uint32) *entities.PoolState {
	now := time.Now()
	return &entities.PoolState{
		ID:               id,
		Admin:            admin,
		Token:            token,
		PeriodDays:       periodDays,
		TotalDeposits:    decimal.Zero,
		TotalTickets:     decimal.Zero,
		PrizeFund:        decimal.Zero,
		SuppliedToLender: decimal.Zero,
		DrawNonce:        0,
		InitializedAt:    now,
		UpdatedAt:        now,
	}
}

// CreateTestPoolWithLender creates a test pool that already has a lender
// pool configured and a supplied balance.
func CreateTestPoolWithLender(id int64, admin, token, lenderPool string, supplied decimal.Decimal) *entities.PoolState {
	pool := CreateTestPool(id, admin, token, 7)
	pool.LenderPool = &lenderPool
	pool.SuppliedToLender = supplied
	return pool
}

// CreateTestDepositor creates a test depositor at the given list position.
func CreateTestDepositor(poolID int64, address string, balance, tickets decimal.Decimal, position int) *entities.Depositor {
	return &entities.Depositor{
		PoolID:   poolID,
		Address:  address,
		Balance:  balance,
		Tickets:  tickets,
		Position: position,
	}
}

// CreateTestDrawRecord creates a test draw record.
func CreateTestDrawRecord(poolID int64, nonce uint64, winner string, prize decimal.Decimal, seed uint64) *entities.DrawRecord {
	return &entities.DrawRecord{
		PoolID:     poolID,
		Nonce:      nonce,
		Winner:     winner,
		Prize:      prize,
		Seed:       seed,
		ExecutedAt: time.Now(),
	}
}

// CreateTestLedgerEvent creates a test ledger event entry.
func CreateTestLedgerEvent(poolID int64, address string, kind entities.EventKind, amount, before, after decimal.Decimal) *entities.LedgerEvent {
	return &entities.LedgerEvent{
		PoolID:        poolID,
		Address:       address,
		Kind:          kind,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		CreatedAt:     time.Now(),
	}
}

// CreateTestLedgerEventWithIdempotencyKey creates a test ledger event
// carrying an idempotency key, for admin lender-call retry tests.
func CreateTestLedgerEventWithIdempotencyKey(poolID int64, address string, kind entities.EventKind, amount, before, after decimal.Decimal, key string) *entities.LedgerEvent {
	event := CreateTestLedgerEvent(poolID, address, kind, amount, before, after)
	event.IdempotencyKey = &key
	return event
}
