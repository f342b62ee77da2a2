package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/luckystake/pool-engine/domain/entities"
	"github.com/luckystake/pool-engine/domain/interfaces"
	"github.com/luckystake/pool-engine/events"

	log "github.com/sirupsen/logrus"
)

// poolService implements every spec section 6 entry point against one
// deployed pool instance. It holds no transaction state itself — the
// application layer opens a unit of work, constructs a poolService bound
// to that unit of work's repositories, calls one method, then commits.
type poolService struct {
	poolRepo        interfaces.PoolRepository
	depositorRepo   interfaces.DepositorRepository
	drawRepo        interfaces.DrawRepository
	ledgerEventRepo interfaces.LedgerEventRepository
	tokenGateway    interfaces.TokenGateway
	lenderPool      interfaces.LenderPool
	randomSource    interfaces.RandomSource
	eventPublisher  interfaces.EventPublisher
}

// NewPoolService creates a new pool service.
func NewPoolService(
	poolRepo interfaces.PoolRepository,
	depositorRepo interfaces.DepositorRepository,
	drawRepo interfaces.DrawRepository,
	ledgerEventRepo interfaces.LedgerEventRepository,
	tokenGateway interfaces.TokenGateway,
	lenderPool interfaces.LenderPool,
	randomSource interfaces.RandomSource,
	eventPublisher interfaces.EventPublisher,
) interfaces.PoolService {
	return &poolService{
		poolRepo:        poolRepo,
		depositorRepo:   depositorRepo,
		drawRepo:        drawRepo,
		ledgerEventRepo: ledgerEventRepo,
		tokenGateway:    tokenGateway,
		lenderPool:      lenderPool,
		randomSource:    randomSource,
		eventPublisher:  eventPublisher,
	}
}

// custodyAddress is the token-holding identity of the pool instance itself,
// the Go re-expression of env.current_contract_address() in the source
// contract. There is no on-chain contract address to read here, so it is
// derived deterministically from the pool's own ID.
func custodyAddress(poolID int64) string {
	return fmt.Sprintf("pool:%d", poolID)
}

func (s *poolService) Initialize(ctx context.Context, poolID int64, admin, token string, periodDays uint32) error {
	if periodDays == 0 || periodDays > 365 {
		return entities.ErrBadPeriod
	}

	existing, err := s.poolRepo.GetByID(ctx, poolID)
	if err != nil {
		return fmt.Errorf("failed to check existing pool: %w", err)
	}
	if existing != nil && existing.IsInitialized() {
		return entities.ErrAlreadyInitialized
	}

	now := time.Now().UTC()
	pool := &entities.PoolState{
		ID:               poolID,
		Admin:            admin,
		Token:            token,
		PeriodDays:       periodDays,
		TotalDeposits:    decimal.Zero,
		TotalTickets:     decimal.Zero,
		PrizeFund:        decimal.Zero,
		SuppliedToLender: decimal.Zero,
		DrawNonce:        0,
		InitializedAt:    now,
		UpdatedAt:        now,
	}

	if err := s.poolRepo.Create(ctx, pool); err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}

	log.WithFields(log.Fields{"poolID": poolID, "admin": admin, "periodDays": periodDays}).Info("pool initialized")
	return nil
}

func (s *poolService) Deposit(ctx context.Context, poolID int64, depositor string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return entities.ErrZeroAmount
	}

	pool, err := s.poolRepo.GetByIDForUpdate(ctx, poolID)
	if err != nil {
		return fmt.Errorf("failed to lock pool: %w", err)
	}
	if pool == nil || !pool.IsInitialized() {
		return entities.ErrNotInitialized
	}

	record, err := s.depositorRepo.Get(ctx, poolID, depositor)
	if err != nil {
		return fmt.Errorf("failed to load depositor: %w", err)
	}
	if record == nil {
		record = &entities.Depositor{PoolID: poolID, Address: depositor, Balance: decimal.Zero, Tickets: decimal.Zero, Position: -1}
	}

	balanceBefore := record.Balance

	if err := s.tokenGateway.Transfer(ctx, depositor, custodyAddress(poolID), amount); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrTokenTransferFailed, err)
	}

	Credit(pool, record, amount)

	if err := s.depositorRepo.Upsert(ctx, record); err != nil {
		return fmt.Errorf("failed to persist depositor: %w", err)
	}
	pool.UpdatedAt = time.Now().UTC()
	if err := s.poolRepo.Update(ctx, pool); err != nil {
		return fmt.Errorf("failed to persist pool: %w", err)
	}

	if err := s.ledgerEventRepo.Record(ctx, &entities.LedgerEvent{
		PoolID: poolID, Address: depositor, Kind: entities.EventKindDeposited,
		Amount: amount, BalanceBefore: balanceBefore, BalanceAfter: record.Balance,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("failed to record ledger event: %w", err)
	}

	s.publish(events.DepositedEvent{PoolID: poolID, Address: depositor, Amount: amount, Tickets: record.Tickets})

	log.WithFields(log.Fields{"poolID": poolID, "depositor": depositor, "amount": amount.String()}).Info("deposit accepted")
	return nil
}

func (s *poolService) Withdraw(ctx context.Context, poolID int64, depositor string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return entities.ErrZeroAmount
	}

	pool, err := s.poolRepo.GetByIDForUpdate(ctx, poolID)
	if err != nil {
		return fmt.Errorf("failed to lock pool: %w", err)
	}
	if pool == nil || !pool.IsInitialized() {
		return entities.ErrNotInitialized
	}

	record, err := s.depositorRepo.Get(ctx, poolID, depositor)
	if err != nil {
		return fmt.Errorf("failed to load depositor: %w", err)
	}
	if record == nil {
		return entities.ErrInsufficientBalance
	}

	balanceBefore := record.Balance

	emptied, err := Debit(pool, record, amount)
	if err != nil {
		return err
	}

	if err := s.tokenGateway.Transfer(ctx, custodyAddress(poolID), depositor, amount); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrTokenTransferFailed, err)
	}

	if emptied {
		if err := s.depositorRepo.Remove(ctx, poolID, depositor); err != nil {
			return fmt.Errorf("failed to remove depositor: %w", err)
		}
	} else {
		if err := s.depositorRepo.Upsert(ctx, record); err != nil {
			return fmt.Errorf("failed to persist depositor: %w", err)
		}
	}
	pool.UpdatedAt = time.Now().UTC()
	if err := s.poolRepo.Update(ctx, pool); err != nil {
		return fmt.Errorf("failed to persist pool: %w", err)
	}

	if err := s.ledgerEventRepo.Record(ctx, &entities.LedgerEvent{
		PoolID: poolID, Address: depositor, Kind: entities.EventKindWithdrew,
		Amount: amount, BalanceBefore: balanceBefore, BalanceAfter: record.Balance,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("failed to record ledger event: %w", err)
	}

	s.publish(events.WithdrewEvent{PoolID: poolID, Address: depositor, Amount: amount})

	log.WithFields(log.Fields{"poolID": poolID, "depositor": depositor, "amount": amount.String()}).Info("withdrawal completed")
	return nil
}

func (s *poolService) SetLenderPool(ctx context.Context, poolID int64, admin, lenderPool string) error {
	pool, err := s.poolRepo.GetByIDForUpdate(ctx, poolID)
	if err != nil {
		return fmt.Errorf("failed to lock pool: %w", err)
	}
	if pool == nil {
		return entities.ErrNotInitialized
	}
	if err := requireAdmin(pool, admin); err != nil {
		return err
	}
	if !pool.CanSetLenderPool() {
		return entities.ErrLenderPoolLocked
	}

	pool.LenderPool = &lenderPool
	pool.UpdatedAt = time.Now().UTC()
	if err := s.poolRepo.Update(ctx, pool); err != nil {
		return fmt.Errorf("failed to persist pool: %w", err)
	}

	log.WithFields(log.Fields{"poolID": poolID, "lenderPool": lenderPool}).Info("lender pool set")
	return nil
}

func (s *poolService) SupplyToLender(ctx context.Context, poolID int64, admin string, amount decimal.Decimal, idempotencyKey string) error {
	pool, err := s.poolRepo.GetByIDForUpdate(ctx, poolID)
	if err != nil {
		return fmt.Errorf("failed to lock pool: %w", err)
	}
	if pool == nil {
		return entities.ErrNotInitialized
	}
	if err := requireAdmin(pool, admin); err != nil {
		return err
	}
	if !pool.HasLenderPool() {
		return entities.ErrLenderNotSet
	}
	if done, err := s.alreadyProcessed(ctx, poolID, idempotencyKey); err != nil {
		return err
	} else if done {
		return nil
	}

	custody := custodyAddress(poolID)
	if err := s.tokenGateway.ApproveAndTransferFrom(ctx, custody, *pool.LenderPool, *pool.LenderPool, amount); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrTokenTransferFailed, err)
	}
	if err := s.lenderPool.Supply(ctx, interfaces.SupplyRequest{
		RequestType: interfaces.LenderRequestTypeSupplyCollateral,
		Address:     custody,
		Amount:      amount,
	}); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrLenderRejected, err)
	}

	pool.SuppliedToLender = pool.SuppliedToLender.Add(amount)
	pool.UpdatedAt = time.Now().UTC()
	if err := s.poolRepo.Update(ctx, pool); err != nil {
		return fmt.Errorf("failed to persist pool: %w", err)
	}

	if err := s.recordIdempotent(ctx, poolID, custody, entities.EventKindSupplied, amount, idempotencyKey); err != nil {
		return err
	}
	s.publish(events.SuppliedEvent{PoolID: poolID, Amount: amount})

	log.WithFields(log.Fields{"poolID": poolID, "amount": amount.String()}).Info("supplied to lender")
	return nil
}

func (s *poolService) WithdrawFromLender(ctx context.Context, poolID int64, admin string, amount, minReturn decimal.Decimal, idempotencyKey string) (decimal.Decimal, error) {
	actual, alreadyProcessed, err := s.lenderWithdrawGuarded(ctx, poolID, admin, amount, minReturn, idempotencyKey, entities.EventKindWithdrawn)
	if err != nil {
		return decimal.Zero, err
	}
	if alreadyProcessed {
		return decimal.Zero, nil
	}

	pool, err := s.poolRepo.GetByIDForUpdate(ctx, poolID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to lock pool: %w", err)
	}
	pool.SuppliedToLender = pool.SuppliedToLender.Sub(decimal.Min(amount, pool.SuppliedToLender))
	pool.UpdatedAt = time.Now().UTC()
	if err := s.poolRepo.Update(ctx, pool); err != nil {
		return decimal.Zero, fmt.Errorf("failed to persist pool: %w", err)
	}

	s.publish(events.WithdrawnEvent{PoolID: poolID, Amount: amount, Actual: actual})
	return actual, nil
}

func (s *poolService) HarvestYield(ctx context.Context, poolID int64, admin string, amount, minReturn decimal.Decimal, idempotencyKey string) (decimal.Decimal, error) {
	actual, alreadyProcessed, err := s.lenderWithdrawGuarded(ctx, poolID, admin, amount, minReturn, idempotencyKey, entities.EventKindHarvested)
	if err != nil {
		return decimal.Zero, err
	}
	if alreadyProcessed {
		return decimal.Zero, nil
	}

	pool, err := s.poolRepo.GetByIDForUpdate(ctx, poolID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to lock pool: %w", err)
	}
	pool.PrizeFund = pool.PrizeFund.Add(actual)
	pool.UpdatedAt = time.Now().UTC()
	if err := s.poolRepo.Update(ctx, pool); err != nil {
		return decimal.Zero, fmt.Errorf("failed to persist pool: %w", err)
	}

	s.publish(events.HarvestedEvent{PoolID: poolID, Amount: amount, Actual: actual})
	return actual, nil
}

// lenderWithdrawGuarded implements the slippage-guarded pattern shared by
// withdraw_from_lender and harvest_yield (spec section 4.4): measure the
// pool's own token balance before and after the Lender call, and fail with
// entities.ErrSlippageExceeded if the realized delta is below min_return.
// It leaves all further accounting (SuppliedToLender vs PrizeFund) to the
// caller, since that is the only part that differs between the two entry
// points. The returned bool reports whether idempotencyKey had already been
// recorded: callers must treat that as a no-op retry and skip their own
// accounting mutation and event publish entirely, not just treat a zero
// actual delta as "nothing changed" — a real zero-yield harvest and an
// idempotent replay both report actual=0, but only the latter must skip
// the caller's Sub/Add.
func (s *poolService) lenderWithdrawGuarded(ctx context.Context, poolID int64, admin string, amount, minReturn decimal.Decimal, idempotencyKey string, kind entities.EventKind) (actual decimal.Decimal, alreadyProcessed bool, err error) {
	pool, err := s.poolRepo.GetByIDForUpdate(ctx, poolID)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to lock pool: %w", err)
	}
	if pool == nil {
		return decimal.Zero, false, entities.ErrNotInitialized
	}
	if err := requireAdmin(pool, admin); err != nil {
		return decimal.Zero, false, err
	}
	if !pool.HasLenderPool() {
		return decimal.Zero, false, entities.ErrLenderNotSet
	}
	if done, err := s.alreadyProcessed(ctx, poolID, idempotencyKey); err != nil {
		return decimal.Zero, false, err
	} else if done {
		return decimal.Zero, true, nil
	}

	custody := custodyAddress(poolID)

	before, err := s.tokenGateway.BalanceOf(ctx, custody)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to read balance before lender call: %w", err)
	}

	if err := s.lenderPool.Withdraw(ctx, interfaces.WithdrawRequest{
		RequestType: interfaces.LenderRequestTypeWithdraw,
		Address:     custody,
		Amount:      amount,
	}); err != nil {
		return decimal.Zero, false, fmt.Errorf("%w: %v", entities.ErrLenderRejected, err)
	}

	after, err := s.tokenGateway.BalanceOf(ctx, custody)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to read balance after lender call: %w", err)
	}

	delta := after.Sub(before)
	if delta.LessThan(minReturn) {
		return decimal.Zero, false, entities.ErrSlippageExceeded
	}

	if err := s.recordIdempotent(ctx, poolID, custody, kind, delta, idempotencyKey); err != nil {
		return decimal.Zero, false, err
	}

	log.WithFields(log.Fields{"poolID": poolID, "requested": amount.String(), "minReturn": minReturn.String(), "actual": delta.String()}).Info("lender withdrawal guarded")
	return delta, false, nil
}

func (s *poolService) ExecuteDraw(ctx context.Context, poolID int64, admin string) (*entities.DrawRecord, error) {
	pool, err := s.poolRepo.GetByIDForUpdate(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock pool: %w", err)
	}
	if pool == nil {
		return nil, entities.ErrNotInitialized
	}
	if err := requireAdmin(pool, admin); err != nil {
		return nil, err
	}
	if !pool.TotalDeposits.IsPositive() {
		return nil, entities.ErrNoParticipants
	}
	if !pool.TotalTickets.IsPositive() {
		return nil, entities.ErrNoTickets
	}
	if !pool.PrizeFund.IsPositive() {
		return nil, entities.ErrNoPrize
	}

	depositors, err := s.depositorRepo.List(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to list depositors: %w", err)
	}

	timestamp, sequence, err := s.randomSource.Seed(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to draw entropy: %w", err)
	}
	seed := ComputeSeed(timestamp, sequence, pool.DrawNonce)

	winner, _, err := SelectWinner(depositors, pool.TotalTickets, seed)
	if err != nil {
		return nil, err
	}

	prize := pool.PrizeFund
	pool.PrizeFund = decimal.Zero
	pool.DrawNonce++
	pool.UpdatedAt = time.Now().UTC()

	draw := &entities.DrawRecord{
		PoolID:     poolID,
		Nonce:      pool.DrawNonce,
		Winner:     winner,
		Prize:      prize,
		Seed:       seed,
		ExecutedAt: pool.UpdatedAt,
	}

	// Persist the draw before moving the prize: the outbound transfer is an
	// external, non-transactional call that cannot be rolled back, while
	// poolRepo.Update/drawRepo.Create live inside this unit of work's
	// transaction. Doing the transfer last means a failure here still rolls
	// back PrizeFund/DrawNonce, so a retry draws from an untouched prize
	// fund instead of paying the winner twice.
	if err := s.poolRepo.Update(ctx, pool); err != nil {
		return nil, fmt.Errorf("failed to persist pool: %w", err)
	}
	if err := s.drawRepo.Create(ctx, draw); err != nil {
		return nil, fmt.Errorf("failed to persist draw record: %w", err)
	}

	if err := s.tokenGateway.Transfer(ctx, custodyAddress(poolID), winner, prize); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrTokenTransferFailed, err)
	}

	s.publish(events.DrawExecutedEvent{PoolID: poolID, Winner: winner, Prize: prize, Nonce: draw.Nonce})

	log.WithFields(log.Fields{"poolID": poolID, "winner": winner, "prize": prize.String(), "nonce": draw.Nonce}).Info("draw executed")
	return draw, nil
}

func (s *poolService) GetBalance(ctx context.Context, poolID int64, address string) (decimal.Decimal, error) {
	record, err := s.depositorRepo.Get(ctx, poolID, address)
	if err != nil {
		return decimal.Zero, err
	}
	if record == nil {
		return decimal.Zero, nil
	}
	return record.Balance, nil
}

func (s *poolService) GetTickets(ctx context.Context, poolID int64, address string) (decimal.Decimal, error) {
	record, err := s.depositorRepo.Get(ctx, poolID, address)
	if err != nil {
		return decimal.Zero, err
	}
	if record == nil {
		return decimal.Zero, nil
	}
	return record.Tickets, nil
}

func (s *poolService) GetPool(ctx context.Context, poolID int64) (*entities.PoolState, error) {
	return s.poolRepo.GetByID(ctx, poolID)
}

func (s *poolService) GetLastDraw(ctx context.Context, poolID int64) (*entities.DrawRecord, error) {
	return s.drawRepo.GetLatest(ctx, poolID)
}

func (s *poolService) GetDrawHistory(ctx context.Context, poolID int64, limit int) ([]*entities.DrawRecord, error) {
	return s.drawRepo.GetHistory(ctx, poolID, limit)
}

// alreadyProcessed reports whether idempotencyKey has already been recorded
// for this pool, so a retried admin lender call never reaches the Lender a
// second time (SPEC_FULL.md section 6).
func (s *poolService) alreadyProcessed(ctx context.Context, poolID int64, idempotencyKey string) (bool, error) {
	if idempotencyKey == "" {
		return false, nil
	}
	existing, err := s.ledgerEventRepo.FindByIdempotencyKey(ctx, poolID, idempotencyKey)
	if err != nil {
		return false, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	return existing != nil, nil
}

func (s *poolService) recordIdempotent(ctx context.Context, poolID int64, address string, kind entities.EventKind, amount decimal.Decimal, idempotencyKey string) error {
	var key *string
	if idempotencyKey != "" {
		key = &idempotencyKey
	}
	return s.ledgerEventRepo.Record(ctx, &entities.LedgerEvent{
		PoolID: poolID, Address: address, Kind: kind, Amount: amount,
		BalanceBefore: decimal.Zero, BalanceAfter: decimal.Zero,
		IdempotencyKey: key, CreatedAt: time.Now().UTC(),
	})
}

func (s *poolService) publish(event events.Event) {
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).WithField("eventType", event.Type()).Error("failed to publish domain event")
	}
}
