package entities

import "github.com/shopspring/decimal"

// Depositor is one entry in a pool's Balance/Tickets maps plus its position
// in DepositorList. Position is assigned once on insert and never reused;
// removing a depositor leaves a gap rather than compacting the list, since
// draw-time enumeration only needs list_position order, not contiguity.
type Depositor struct {
	PoolID   int64           `db:"pool_id"`
	Address  string          `db:"address"`
	Balance  decimal.Decimal `db:"balance"`
	Tickets  decimal.Decimal `db:"tickets"`
	Position int             `db:"list_position"`
}

// HasBalance reports whether this depositor still belongs in DepositorList.
// Per invariant 3 (depositor-list consistency) an address is present if and
// only if its balance is strictly positive.
func (d *Depositor) HasBalance() bool {
	return d.Balance.IsPositive()
}
