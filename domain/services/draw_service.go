package services

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/luckystake/pool-engine/domain/entities"
)

// ComputeSeed reproduces the original contract's seed formula exactly:
// (ledger_timestamp ⊕ ledger_sequence ⊕ DrawNonce), folded here as
// (timestamp*31 + sequence)*31 + nonce the way the source contract mixes
// its three entropy inputs, so selection outcomes are bit-for-bit
// reproducible given the same (timestamp, sequence, nonce) triple.
func ComputeSeed(timestamp int64, sequence, nonce uint64) uint64 {
	seed := uint64(timestamp)
	seed = seed*31 + sequence
	seed = seed*31 + nonce
	return seed
}

// SelectWinner implements spec section 4.5 steps 2-3: reduce the seed mod
// TotalTickets to get winning_index, then walk the depositor list in its
// stored order accumulating cumulative ticket ranges until the half-open
// range [cum, cum+Tickets[addr]) contains winning_index. Ties are
// impossible by construction.
//
// depositors must be ordered by DepositorList position and must contain
// only addresses with Balance > 0 (spec invariant 3); totalTickets must
// equal the sum of every depositor's Tickets (spec invariant 2 aggregated).
func SelectWinner(depositors []*entities.Depositor, totalTickets decimal.Decimal, seed uint64) (winner string, winningIndex decimal.Decimal, err error) {
	if totalTickets.IsZero() {
		return "", decimal.Zero, entities.ErrNoTickets
	}

	seedDecimal := decimal.NewFromBigInt(new(big.Int).SetUint64(seed), 0)
	winningIndex = seedDecimal.Mod(totalTickets)

	cumulative := decimal.Zero
	for _, d := range depositors {
		next := cumulative.Add(d.Tickets)
		if winningIndex.GreaterThanOrEqual(cumulative) && winningIndex.LessThan(next) {
			return d.Address, winningIndex, nil
		}
		cumulative = next
	}

	// Unreachable if totalTickets truly equals the sum of all depositors'
	// tickets; surfaced as NoParticipants rather than panicking in case the
	// caller's aggregate drifted from the per-depositor rows.
	return "", winningIndex, entities.ErrNoParticipants
}
