package events

import "github.com/shopspring/decimal"

// EventType enumerates the events spec section 6 requires the engine to
// emit on every successful mutation.
type EventType string

const (
	EventTypeDeposited    EventType = "deposited"
	EventTypeWithdrew     EventType = "withdrew"
	EventTypeSupplied     EventType = "supplied"
	EventTypeWithdrawn    EventType = "withdrawn"
	EventTypeHarvested    EventType = "harvested"
	EventTypeDrawExecuted EventType = "draw_executed"
)

// AllEventTypes lists every event type the engine emits, for components
// (metrics, the WebSocket mirror) that subscribe to all of them uniformly.
func AllEventTypes() []EventType {
	return []EventType{
		EventTypeDeposited,
		EventTypeWithdrew,
		EventTypeSupplied,
		EventTypeWithdrawn,
		EventTypeHarvested,
		EventTypeDrawExecuted,
	}
}

// Event is the base interface for all domain events published through the
// transactional publisher.
type Event interface {
	Type() EventType
}

// DepositedEvent: Deposited(addr, amount, tickets).
type DepositedEvent struct {
	PoolID  int64
	Address string
	Amount  decimal.Decimal
	Tickets decimal.Decimal
}

func (e DepositedEvent) Type() EventType { return EventTypeDeposited }

// WithdrewEvent: Withdrew(addr, amount).
type WithdrewEvent struct {
	PoolID  int64
	Address string
	Amount  decimal.Decimal
}

func (e WithdrewEvent) Type() EventType { return EventTypeWithdrew }

// SuppliedEvent: Supplied(amount).
type SuppliedEvent struct {
	PoolID int64
	Amount decimal.Decimal
}

func (e SuppliedEvent) Type() EventType { return EventTypeSupplied }

// WithdrawnEvent: Withdrawn(amount, actual).
type WithdrawnEvent struct {
	PoolID int64
	Amount decimal.Decimal
	Actual decimal.Decimal
}

func (e WithdrawnEvent) Type() EventType { return EventTypeWithdrawn }

// HarvestedEvent: Harvested(amount, actual).
type HarvestedEvent struct {
	PoolID int64
	Amount decimal.Decimal
	Actual decimal.Decimal
}

func (e HarvestedEvent) Type() EventType { return EventTypeHarvested }

// DrawExecutedEvent: DrawExecuted(winner, prize, nonce).
type DrawExecutedEvent struct {
	PoolID int64
	Winner string
	Prize  decimal.Decimal
	Nonce  uint64
}

func (e DrawExecutedEvent) Type() EventType { return EventTypeDrawExecuted }

// PoolIDOf extracts the pool an event belongs to, for routing and envelope
// construction in the transport layer.
func PoolIDOf(event Event) int64 {
	switch e := event.(type) {
	case DepositedEvent:
		return e.PoolID
	case WithdrewEvent:
		return e.PoolID
	case SuppliedEvent:
		return e.PoolID
	case WithdrawnEvent:
		return e.PoolID
	case HarvestedEvent:
		return e.PoolID
	case DrawExecutedEvent:
		return e.PoolID
	default:
		return 0
	}
}
