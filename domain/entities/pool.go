package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// PoolState is one deployed instance of the no-loss prize pool: a single
// period length (7, 15, or 30 days), one admin, one deposit token. The
// engine deploys three of these, one per period.
type PoolState struct {
	ID         int64  `db:"id"`
	Admin      string `db:"admin_address"`
	Token      string `db:"token_address"`
	PeriodDays uint32 `db:"period_days"`

	TotalDeposits decimal.Decimal `db:"total_deposits"`
	TotalTickets  decimal.Decimal `db:"total_tickets"`

	PrizeFund decimal.Decimal `db:"prize_fund"`

	LenderPool       *string         `db:"lender_pool_address"`
	SuppliedToLender decimal.Decimal `db:"supplied_to_lender"`

	DrawNonce uint64 `db:"draw_nonce"`

	InitializedAt time.Time `db:"initialized_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// IsInitialized reports whether initialize has already run for this row.
// A pool row only exists once initialize succeeds, so an empty Admin means
// the caller is holding a zero-value struct rather than a loaded pool.
func (p *PoolState) IsInitialized() bool {
	return p.Admin != ""
}

// IsAdmin re-expresses the contract's require_auth(Admin) check: the caller
// address asserted by the transport layer must match the configured admin
// exactly.
func (p *PoolState) IsAdmin(caller string) bool {
	return p.Admin != "" && p.Admin == caller
}

// CanSetLenderPool mirrors set_lender_pool's guard: the lender pool address
// may only change while nothing is currently supplied to it.
func (p *PoolState) CanSetLenderPool() bool {
	return p.SuppliedToLender.IsZero()
}

// HasLenderPool reports whether an external lending pool has been
// configured for this instance.
func (p *PoolState) HasLenderPool() bool {
	return p.LenderPool != nil && *p.LenderPool != ""
}

// LastDraw is a read-only view of the most recently executed draw for a
// pool; spec section 3 describes it as a single optional field, this
// service additionally retains full history (see DrawRecord).
type LastDraw struct {
	Timestamp time.Time
	Winner    string
	Prize     decimal.Decimal
	Nonce     uint64
}
