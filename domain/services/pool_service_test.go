package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/luckystake/pool-engine/domain/entities"
	"github.com/luckystake/pool-engine/domain/interfaces"
	"github.com/luckystake/pool-engine/domain/testhelpers"
)

// newTestPool builds an initialized pool plus the mock collaborators a
// poolService needs, wired together the way application/pool_app_service.go
// wires a real unit of work.
type testFixture struct {
	pool      *testhelpers.MockPoolRepository
	depositor *testhelpers.MockDepositorRepository
	draw      *testhelpers.MockDrawRepository
	ledger    *testhelpers.MockLedgerEventRepository
	token     *testhelpers.MockTokenGateway
	lender    *testhelpers.MockLenderPool
	random    *testhelpers.MockRandomSource
	publisher *testhelpers.MockEventPublisher
	svc       interfaces.PoolService
}

func newFixture() *testFixture {
	f := &testFixture{
		pool:      new(testhelpers.MockPoolRepository),
		depositor: new(testhelpers.MockDepositorRepository),
		draw:      new(testhelpers.MockDrawRepository),
		ledger:    new(testhelpers.MockLedgerEventRepository),
		token:     new(testhelpers.MockTokenGateway),
		lender:    new(testhelpers.MockLenderPool),
		random:    new(testhelpers.MockRandomSource),
		publisher: new(testhelpers.MockEventPublisher),
	}
	f.svc = NewPoolService(f.pool, f.depositor, f.draw, f.ledger, f.token, f.lender, f.random, f.publisher)
	f.publisher.On("Publish", mock.Anything).Return(nil)
	f.ledger.On("Record", mock.Anything, mock.Anything).Return(nil)
	return f
}

func samplePool() *entities.PoolState {
	return &entities.PoolState{
		ID: 1, Admin: "admin", Token: "token", PeriodDays: 7,
		TotalDeposits: decimal.Zero, TotalTickets: decimal.Zero, PrizeFund: decimal.Zero,
		SuppliedToLender: decimal.Zero,
	}
}

// TestScenario1_SingleDepositorSingleDraw mirrors spec section 8 scenario 1:
// one depositor, a harvested prize, and a draw that pays the prize without
// touching the winner's principal (testable property 4).
func TestScenario1_SingleDepositorSingleDraw(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	pool := samplePool()
	pool.TotalDeposits = decimal.NewFromInt(100)
	pool.TotalTickets = decimal.NewFromInt(700)
	pool.PrizeFund = decimal.NewFromInt(5)

	f.pool.On("GetByIDForUpdate", ctx, int64(1)).Return(pool, nil)
	f.pool.On("Update", ctx, mock.Anything).Return(nil)
	f.depositor.On("List", ctx, int64(1)).Return([]*entities.Depositor{
		{Address: "alice", Balance: decimal.NewFromInt(100), Tickets: decimal.NewFromInt(700)},
	}, nil)
	f.random.On("Seed", ctx, int64(1)).Return(int64(1000), uint64(1), nil)
	f.token.On("Transfer", ctx, "pool:1", "alice", decimal.NewFromInt(5)).Return(nil)
	f.draw.On("Create", ctx, mock.Anything).Return(nil)

	draw, err := f.svc.ExecuteDraw(ctx, 1, "admin")
	require.NoError(t, err)
	assert.Equal(t, "alice", draw.Winner)
	assert.True(t, draw.Prize.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, uint64(1), draw.Nonce)
	assert.True(t, pool.PrizeFund.IsZero())

	f.token.AssertCalled(t, "Transfer", ctx, "pool:1", "alice", decimal.NewFromInt(5))
}

// TestScenario4_FullWithdrawThenDrawAborts mirrors spec section 8 scenario 4:
// once a sole depositor withdraws fully, execute_draw must abort with
// ErrNoParticipants rather than pay out from an empty depositor set.
func TestScenario4_FullWithdrawThenDrawAborts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	pool := samplePool()
	pool.TotalDeposits = decimal.Zero
	pool.TotalTickets = decimal.Zero
	pool.PrizeFund = decimal.NewFromInt(7)

	f.pool.On("GetByIDForUpdate", ctx, int64(1)).Return(pool, nil)

	_, err := f.svc.ExecuteDraw(ctx, 1, "admin")
	assert.ErrorIs(t, err, entities.ErrNoParticipants)

	f.draw.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.token.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestScenario5_SlippageRejection mirrors spec section 8 scenario 5: the
// lender returns less than min_return, so WithdrawFromLender must abort
// with ErrSlippageExceeded and leave SuppliedToLender untouched.
func TestScenario5_SlippageRejection(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	pool := samplePool()
	pool.LenderPool = strPtr("blend")
	pool.SuppliedToLender = decimal.NewFromInt(500)

	f.pool.On("GetByIDForUpdate", ctx, int64(1)).Return(pool, nil)
	f.ledger.On("FindByIdempotencyKey", ctx, int64(1), "key-5").Return(nil, nil)
	f.token.On("BalanceOf", ctx, "pool:1").Return(decimal.NewFromInt(1000), nil).Once()
	f.lender.On("Withdraw", ctx, mock.Anything).Return(nil)
	f.token.On("BalanceOf", ctx, "pool:1").Return(decimal.NewFromInt(1098), nil).Once()

	actual, err := f.svc.WithdrawFromLender(ctx, 1, "admin", decimal.NewFromInt(100), decimal.NewFromInt(100), "key-5")
	assert.ErrorIs(t, err, entities.ErrSlippageExceeded)
	assert.True(t, actual.IsZero())
	assert.True(t, pool.SuppliedToLender.Equal(decimal.NewFromInt(500)))

	f.pool.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// TestScenario6_DrawWithoutPrizeAborts mirrors spec section 8 scenario 6:
// a draw attempted while PrizeFund is zero aborts with ErrNoPrize and the
// draw nonce must not advance.
func TestScenario6_DrawWithoutPrizeAborts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	pool := samplePool()
	pool.TotalDeposits = decimal.NewFromInt(10)
	pool.TotalTickets = decimal.NewFromInt(70)
	pool.PrizeFund = decimal.Zero

	f.pool.On("GetByIDForUpdate", ctx, int64(1)).Return(pool, nil)

	_, err := f.svc.ExecuteDraw(ctx, 1, "admin")
	assert.ErrorIs(t, err, entities.ErrNoPrize)
	assert.Equal(t, uint64(0), pool.DrawNonce)
}

// TestExecuteDraw_RequiresAdmin is testable property 9 (admin gating): a
// non-admin caller must abort before any state mutation.
func TestExecuteDraw_RequiresAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	pool := samplePool()
	pool.TotalDeposits = decimal.NewFromInt(10)
	pool.TotalTickets = decimal.NewFromInt(70)
	pool.PrizeFund = decimal.NewFromInt(1)

	f.pool.On("GetByIDForUpdate", ctx, int64(1)).Return(pool, nil)

	_, err := f.svc.ExecuteDraw(ctx, 1, "eve")
	assert.ErrorIs(t, err, entities.ErrUnauthorized)
	f.draw.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestDeposit_ConservationAndTicketLinearity covers testable properties 1
// and 2 across a deposit followed by a partial withdraw, matching spec
// section 8 scenario 3's exact figures.
func TestDeposit_ConservationAndTicketLinearity(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	pool := samplePool()
	f.pool.On("GetByIDForUpdate", ctx, int64(1)).Return(pool, nil)
	f.pool.On("Update", ctx, mock.Anything).Return(nil)
	f.depositor.On("Get", ctx, int64(1), "alice").Return(nil, nil).Once()
	f.depositor.On("Upsert", ctx, mock.Anything).Return(nil)
	f.token.On("Transfer", ctx, "alice", "pool:1", decimal.NewFromInt(100)).Return(nil)

	err := f.svc.Deposit(ctx, 1, "alice", decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.True(t, pool.TotalDeposits.Equal(decimal.NewFromInt(100)))
	assert.True(t, pool.TotalTickets.Equal(decimal.NewFromInt(700)))

	alice := &entities.Depositor{PoolID: 1, Address: "alice", Balance: decimal.NewFromInt(100), Tickets: decimal.NewFromInt(700)}
	f.depositor.On("Get", ctx, int64(1), "alice").Return(alice, nil).Once()
	f.token.On("Transfer", ctx, "pool:1", "alice", decimal.NewFromInt(40)).Return(nil)

	err = f.svc.Withdraw(ctx, 1, "alice", decimal.NewFromInt(40))
	require.NoError(t, err)
	assert.True(t, pool.TotalDeposits.Equal(decimal.NewFromInt(60)))
	assert.True(t, alice.Balance.Equal(decimal.NewFromInt(60)))
	assert.True(t, alice.Tickets.Equal(pool.TotalTickets))
}

// TestWithdraw_InsufficientBalance asserts withdraw never mutates state or
// calls the token gateway when the depositor cannot cover the amount.
func TestWithdraw_InsufficientBalance(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	pool := samplePool()
	f.pool.On("GetByIDForUpdate", ctx, int64(1)).Return(pool, nil)
	f.depositor.On("Get", ctx, int64(1), "alice").Return(&entities.Depositor{
		PoolID: 1, Address: "alice", Balance: decimal.NewFromInt(10), Tickets: decimal.NewFromInt(70),
	}, nil)

	err := f.svc.Withdraw(ctx, 1, "alice", decimal.NewFromInt(20))
	assert.ErrorIs(t, err, entities.ErrInsufficientBalance)
	f.token.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestSupplyToLender_IdempotentRetrySkipsSecondLenderCall ensures a retried
// admin call carrying the same idempotency key never reaches the Lender
// twice.
func TestSupplyToLender_IdempotentRetrySkipsSecondLenderCall(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	pool := samplePool()
	pool.LenderPool = strPtr("blend")
	f.pool.On("GetByIDForUpdate", ctx, int64(1)).Return(pool, nil)
	f.ledger.On("FindByIdempotencyKey", ctx, int64(1), "key-1").Return(&entities.LedgerEvent{ID: 1}, nil)

	err := f.svc.SupplyToLender(ctx, 1, "admin", decimal.NewFromInt(100), "key-1")
	require.NoError(t, err)
	f.lender.AssertNotCalled(t, "Supply", mock.Anything, mock.Anything)
	f.token.AssertNotCalled(t, "ApproveAndTransferFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestWithdrawFromLender_IdempotentRetryDoesNotDoubleCountSuppliedToLender
// guards against re-subtracting SuppliedToLender on a retried admin call: a
// retry must short-circuit entirely (no second pool lock/update, no
// duplicate event publish), not fall through and subtract amount a second
// time just because lenderWithdrawGuarded reports a zero actual delta.
func TestWithdrawFromLender_IdempotentRetryDoesNotDoubleCountSuppliedToLender(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	pool := samplePool()
	pool.LenderPool = strPtr("blend")
	pool.SuppliedToLender = decimal.NewFromInt(500)
	f.pool.On("GetByIDForUpdate", ctx, int64(1)).Return(pool, nil)
	f.ledger.On("FindByIdempotencyKey", ctx, int64(1), "key-2").Return(&entities.LedgerEvent{ID: 1}, nil)

	actual, err := f.svc.WithdrawFromLender(ctx, 1, "admin", decimal.NewFromInt(100), decimal.NewFromInt(100), "key-2")
	require.NoError(t, err)
	assert.True(t, actual.IsZero())
	assert.True(t, pool.SuppliedToLender.Equal(decimal.NewFromInt(500)))
	f.pool.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.lender.AssertNotCalled(t, "Withdraw", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestSetLenderPool_LockedWhileSupplied(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	pool := samplePool()
	pool.SuppliedToLender = decimal.NewFromInt(1)
	f.pool.On("GetByIDForUpdate", ctx, int64(1)).Return(pool, nil)

	err := f.svc.SetLenderPool(ctx, 1, "admin", "blend2")
	assert.ErrorIs(t, err, entities.ErrLenderPoolLocked)
}

func strPtr(s string) *string { return &s }
