package entities

// EventKind identifies which of spec section 6's emitted events a
// LedgerEvent row records.
type EventKind string

const (
	EventKindDeposited    EventKind = "deposited"
	EventKindWithdrew     EventKind = "withdrew"
	EventKindSupplied     EventKind = "supplied"
	EventKindWithdrawn    EventKind = "withdrawn"
	EventKindHarvested    EventKind = "harvested"
	EventKindDrawExecuted EventKind = "draw_executed"
)

// IsDepositorInitiated reports whether the event originates from the
// depositor API rather than the admin gate.
func (k EventKind) IsDepositorInitiated() bool {
	return k == EventKindDeposited || k == EventKindWithdrew
}

// IsLenderOp reports whether the event records a Lender Adapter operation.
func (k EventKind) IsLenderOp() bool {
	return k == EventKindSupplied || k == EventKindWithdrawn || k == EventKindHarvested
}

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	return string(k)
}
