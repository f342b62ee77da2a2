package testhelpers

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/luckystake/pool-engine/domain/entities"
	"github.com/luckystake/pool-engine/domain/interfaces"
	"github.com/luckystake/pool-engine/events"
)

// MockPoolRepository is a mock implementation of interfaces.PoolRepository.
type MockPoolRepository struct {
	mock.Mock
}

func (m *MockPoolRepository) Create(ctx context.Context, pool *entities.PoolState) error {
	args := m.Called(ctx, pool)
	return args.Error(0)
}

func (m *MockPoolRepository) GetByID(ctx context.Context, poolID int64) (*entities.PoolState, error) {
	args := m.Called(ctx, poolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PoolState), args.Error(1)
}

func (m *MockPoolRepository) GetByIDForUpdate(ctx context.Context, poolID int64) (*entities.PoolState, error) {
	args := m.Called(ctx, poolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PoolState), args.Error(1)
}

func (m *MockPoolRepository) Update(ctx context.Context, pool *entities.PoolState) error {
	args := m.Called(ctx, pool)
	return args.Error(0)
}

// MockDepositorRepository is a mock implementation of interfaces.DepositorRepository.
type MockDepositorRepository struct {
	mock.Mock
}

func (m *MockDepositorRepository) Get(ctx context.Context, poolID int64, address string) (*entities.Depositor, error) {
	args := m.Called(ctx, poolID, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Depositor), args.Error(1)
}

func (m *MockDepositorRepository) Upsert(ctx context.Context, depositor *entities.Depositor) error {
	args := m.Called(ctx, depositor)
	return args.Error(0)
}

func (m *MockDepositorRepository) Remove(ctx context.Context, poolID int64, address string) error {
	args := m.Called(ctx, poolID, address)
	return args.Error(0)
}

func (m *MockDepositorRepository) List(ctx context.Context, poolID int64) ([]*entities.Depositor, error) {
	args := m.Called(ctx, poolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Depositor), args.Error(1)
}

func (m *MockDepositorRepository) Count(ctx context.Context, poolID int64) (int, error) {
	args := m.Called(ctx, poolID)
	return args.Int(0), args.Error(1)
}

// MockDrawRepository is a mock implementation of interfaces.DrawRepository.
type MockDrawRepository struct {
	mock.Mock
}

func (m *MockDrawRepository) Create(ctx context.Context, draw *entities.DrawRecord) error {
	args := m.Called(ctx, draw)
	return args.Error(0)
}

func (m *MockDrawRepository) GetLatest(ctx context.Context, poolID int64) (*entities.DrawRecord, error) {
	args := m.Called(ctx, poolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DrawRecord), args.Error(1)
}

func (m *MockDrawRepository) GetHistory(ctx context.Context, poolID int64, limit int) ([]*entities.DrawRecord, error) {
	args := m.Called(ctx, poolID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.DrawRecord), args.Error(1)
}

// MockLedgerEventRepository is a mock implementation of interfaces.LedgerEventRepository.
type MockLedgerEventRepository struct {
	mock.Mock
}

func (m *MockLedgerEventRepository) Record(ctx context.Context, event *entities.LedgerEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockLedgerEventRepository) FindByIdempotencyKey(ctx context.Context, poolID int64, key string) (*entities.LedgerEvent, error) {
	args := m.Called(ctx, poolID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerEvent), args.Error(1)
}

func (m *MockLedgerEventRepository) GetByAddress(ctx context.Context, poolID int64, address string, limit int) ([]*entities.LedgerEvent, error) {
	args := m.Called(ctx, poolID, address, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerEvent), args.Error(1)
}

// MockTokenGateway is a mock implementation of interfaces.TokenGateway.
type MockTokenGateway struct {
	mock.Mock
}

func (m *MockTokenGateway) Transfer(ctx context.Context, from, to string, amount decimal.Decimal) error {
	args := m.Called(ctx, from, to, amount)
	return args.Error(0)
}

func (m *MockTokenGateway) TransferFrom(ctx context.Context, spender, from, to string, amount decimal.Decimal) error {
	args := m.Called(ctx, spender, from, to, amount)
	return args.Error(0)
}

func (m *MockTokenGateway) ApproveAndTransferFrom(ctx context.Context, owner, spender, recipient string, amount decimal.Decimal) error {
	args := m.Called(ctx, owner, spender, recipient, amount)
	return args.Error(0)
}

func (m *MockTokenGateway) BalanceOf(ctx context.Context, address string) (decimal.Decimal, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockLenderPool is a mock implementation of interfaces.LenderPool.
type MockLenderPool struct {
	mock.Mock
}

func (m *MockLenderPool) Supply(ctx context.Context, req interfaces.SupplyRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockLenderPool) Withdraw(ctx context.Context, req interfaces.WithdrawRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// MockRandomSource is a mock implementation of interfaces.RandomSource.
type MockRandomSource struct {
	mock.Mock
}

func (m *MockRandomSource) Seed(ctx context.Context, poolID int64) (int64, uint64, error) {
	args := m.Called(ctx, poolID)
	return args.Get(0).(int64), args.Get(1).(uint64), args.Error(2)
}

// MockEventPublisher is a mock implementation of interfaces.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
