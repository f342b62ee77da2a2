package entities

import "errors"

// Precondition errors (spec section 7).
var (
	ErrAlreadyInitialized = errors.New("pool already initialized")
	ErrNotInitialized     = errors.New("pool not initialized")
	ErrBadPeriod          = errors.New("period_days must be between 1 and 365")
	ErrZeroAmount         = errors.New("amount must be positive")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNoParticipants     = errors.New("no participants")
	ErrNoTickets          = errors.New("no tickets issued")
	ErrNoPrize            = errors.New("prize fund is empty")
	ErrLenderPoolLocked   = errors.New("lender pool can only be changed while nothing is supplied")
	ErrLenderNotSet       = errors.New("lender pool not set")
)

// External errors: failures surfaced unchanged from a collaborator.
var (
	ErrTokenTransferFailed = errors.New("token transfer failed")
	ErrLenderRejected      = errors.New("lender rejected the request")
	ErrSlippageExceeded    = errors.New("realized amount below min_return")
)

// Authorization error: require_auth failure, never remapped to another kind.
var ErrUnauthorized = errors.New("caller is not authorized for this operation")
