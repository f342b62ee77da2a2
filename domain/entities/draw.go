package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// DrawRecord is one executed draw. spec section 3 names a single optional
// LastDraw field; this service keeps every row (a supplemented, additive
// read path — see SPEC_FULL.md section 6) and exposes the latest one as
// LastDraw.
type DrawRecord struct {
	ID         int64           `db:"id"`
	PoolID     int64           `db:"pool_id"`
	Nonce      uint64          `db:"nonce"`
	Winner     string          `db:"winner_address"`
	Prize      decimal.Decimal `db:"prize"`
	Seed       uint64          `db:"seed"`
	ExecutedAt time.Time       `db:"executed_at"`
}

// AsLastDraw projects a DrawRecord onto spec section 3's LastDraw shape.
func (d *DrawRecord) AsLastDraw() LastDraw {
	return LastDraw{
		Timestamp: d.ExecutedAt,
		Winner:    d.Winner,
		Prize:     d.Prize,
		Nonce:     d.Nonce,
	}
}
