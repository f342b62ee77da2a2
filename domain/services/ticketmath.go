package services

import "github.com/shopspring/decimal"

// ComputeTickets implements spec section 4.3's formula exactly:
// tickets = amount * PeriodDays. Both operands are integer-valued base-unit
// decimals, so the product is always integer-valued too — no fractional
// ticket ever exists.
func ComputeTickets(amount decimal.Decimal, periodDays uint32) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(int64(periodDays)))
}

// ProportionalBurn computes the ticket debit for a partial withdrawal of
// withdrawAmount against a depositor whose current balance/tickets are
// given, following the Rust source's integer formula
// tickets_to_remove = (tickets * amount) / balance, truncated toward zero.
// Since every operand here is non-negative, truncation toward zero is the
// same as floor division.
func ProportionalBurn(balance, tickets, withdrawAmount decimal.Decimal) decimal.Decimal {
	if balance.IsZero() {
		return decimal.Zero
	}
	numerator := tickets.Mul(withdrawAmount)
	quotient, _ := numerator.QuoRem(balance, 0)
	return quotient
}
