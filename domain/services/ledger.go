package services

import (
	"github.com/shopspring/decimal"

	"github.com/luckystake/pool-engine/domain/entities"
)

// Credit implements spec section 4.2's credit operation: Balance[addr] +=
// amount; TotalDeposits += amount; tickets mirror balance at PeriodDays.
// depositor is mutated in place; callers persist it afterward. isNew
// reports whether this credit transitioned the depositor from zero balance,
// so the caller knows to append it to DepositorList.
func Credit(pool *entities.PoolState, depositor *entities.Depositor, amount decimal.Decimal) (isNew bool) {
	isNew = depositor.Balance.IsZero()

	ticketDelta := ComputeTickets(amount, pool.PeriodDays)
	depositor.Balance = depositor.Balance.Add(amount)
	depositor.Tickets = depositor.Tickets.Add(ticketDelta)

	pool.TotalDeposits = pool.TotalDeposits.Add(amount)
	pool.TotalTickets = pool.TotalTickets.Add(ticketDelta)

	return isNew
}

// Debit implements spec section 4.2's debit operation, burning tickets
// proportionally (section 4.3; exactly amount*PeriodDays whenever the
// Tickets=Balance*PeriodDays invariant already holds, which it always does
// between calls). Returns entities.ErrInsufficientBalance if the depositor's
// balance is insufficient. emptied reports whether the depositor's balance
// reached zero, so the caller knows to remove it from DepositorList.
func Debit(pool *entities.PoolState, depositor *entities.Depositor, amount decimal.Decimal) (emptied bool, err error) {
	if depositor.Balance.LessThan(amount) {
		return false, entities.ErrInsufficientBalance
	}

	ticketDelta := ProportionalBurn(depositor.Balance, depositor.Tickets, amount)
	depositor.Balance = depositor.Balance.Sub(amount)
	depositor.Tickets = depositor.Tickets.Sub(ticketDelta)

	pool.TotalDeposits = pool.TotalDeposits.Sub(amount)
	pool.TotalTickets = pool.TotalTickets.Sub(ticketDelta)

	return depositor.Balance.IsZero(), nil
}
