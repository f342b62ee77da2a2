package interfaces

import (
	"context"

	"github.com/shopspring/decimal"
)

// TokenGateway is a thin typed wrapper around the deposit-token contract
// (spec section 4.1). It performs no scaling: amounts are always base
// units, shared between the Ledger and the Lender Adapter.
//
// BalanceOf is additive to the three value-moving operations spec section
// 4.1 names explicitly; the Lender Adapter needs to measure the pool's own
// token balance before and after a Lender call to enforce the slippage
// guard (see DESIGN.md, Open Question decision 1).
type TokenGateway interface {
	// Transfer moves amount base units from "from" to "to". Fails with
	// entities.ErrTokenTransferFailed on any lower-layer error. The caller
	// is responsible for having already authenticated "from".
	Transfer(ctx context.Context, from, to string, amount decimal.Decimal) error

	// TransferFrom moves amount base units from "from" to "to" using an
	// allowance previously granted to "spender".
	TransferFrom(ctx context.Context, spender, from, to string, amount decimal.Decimal) error

	// ApproveAndTransferFrom grants spender an allowance for amount and, in
	// the same call, has spender immediately consume it by pulling amount
	// from owner to recipient. This is the submit_with_allowance discipline
	// from the original contract (SPEC_FULL.md section 6): the gateway never
	// exposes a bare Approve that could be called without an immediately
	// following consuming call, so no allowance is ever left dangling.
	ApproveAndTransferFrom(ctx context.Context, owner, spender, recipient string, amount decimal.Decimal) error

	// BalanceOf returns the current token balance held by address.
	BalanceOf(ctx context.Context, address string) (decimal.Decimal, error)
}

// SupplyRequest and WithdrawRequest carry the Rust source's discriminated
// BlendRequest{request_type, address, amount} shape (SPEC_FULL.md section
// 6) into the Go Lender Adapter boundary.
type SupplyRequest struct {
	RequestType int
	Address     string
	Amount      decimal.Decimal
}

type WithdrawRequest struct {
	RequestType int
	Address     string
	Amount      decimal.Decimal
}

// LenderPool is the external lending pool the Lender Adapter calls into
// (spec section 4.4). Request types mirror the original integration:
// 2 = SupplyCollateral, 3 = Withdraw.
const (
	LenderRequestTypeSupplyCollateral = 2
	LenderRequestTypeWithdraw         = 3
)

type LenderPool interface {
	// Supply asks the lender to accept amount as collateral on the pool's
	// behalf. Returns entities.ErrLenderRejected on refusal.
	Supply(ctx context.Context, req SupplyRequest) error

	// Withdraw asks the lender to return amount. The Lender Adapter measures
	// the realized delta itself via TokenGateway.BalanceOf; this call simply
	// submits the request and surfaces lower-layer failures.
	Withdraw(ctx context.Context, req WithdrawRequest) error
}

// RandomSource is the chain's VRF re-expressed as an injectable capability
// (spec section 9's explicit design note), so tests can substitute a seeded
// deterministic generator for the selection-fairness property while
// production uses a real unpredictable source.
type RandomSource interface {
	// Seed returns the 64-bit seed execute_draw mixes with DrawNonce,
	// combining ledger-timestamp and ledger-sequence entropy per spec
	// section 4.5 step 1.
	Seed(ctx context.Context, poolID int64) (timestamp int64, sequence uint64, err error)
}
