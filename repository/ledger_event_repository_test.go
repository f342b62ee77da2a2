package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckystake/pool-engine/domain/entities"
	"github.com/luckystake/pool-engine/repository/testutil"
)

func setupPoolForLedgerTests(t *testing.T, db Queryable, poolID int64) {
	t.Helper()
	pool := testutil.CreateTestPool(poolID, "GADMIN", "GTOKEN", 7)
	require.NoError(t, NewPoolRepositoryScoped(db).Create(context.Background(), pool))
}

func TestLedgerEventRepository_RecordAssignsID(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupPoolForLedgerTests(t, testDB.DB, 1)
	repo := NewLedgerEventRepositoryScoped(testDB.DB)

	event := testutil.CreateTestLedgerEvent(1, "alice", entities.EventKindDeposited,
		decimal.NewFromInt(100), decimal.Zero, decimal.NewFromInt(100))
	require.NoError(t, repo.Record(ctx, event))
	assert.NotZero(t, event.ID)
}

func TestLedgerEventRepository_FindByIdempotencyKey(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupPoolForLedgerTests(t, testDB.DB, 2)
	repo := NewLedgerEventRepositoryScoped(testDB.DB)

	event := testutil.CreateTestLedgerEventWithIdempotencyKey(2, "alice", entities.EventKindSupplied,
		decimal.NewFromInt(500), decimal.NewFromInt(500), decimal.Zero, "retry-key-1")
	require.NoError(t, repo.Record(ctx, event))

	found, err := repo.FindByIdempotencyKey(ctx, 2, "retry-key-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, event.ID, found.ID)

	notFound, err := repo.FindByIdempotencyKey(ctx, 2, "never-used")
	require.NoError(t, err)
	assert.Nil(t, notFound)
}

func TestLedgerEventRepository_DuplicateIdempotencyKeyRejected(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupPoolForLedgerTests(t, testDB.DB, 3)
	repo := NewLedgerEventRepositoryScoped(testDB.DB)

	first := testutil.CreateTestLedgerEventWithIdempotencyKey(3, "alice", entities.EventKindHarvested,
		decimal.NewFromInt(10), decimal.Zero, decimal.NewFromInt(10), "dup-key")
	require.NoError(t, repo.Record(ctx, first))

	second := testutil.CreateTestLedgerEventWithIdempotencyKey(3, "alice", entities.EventKindHarvested,
		decimal.NewFromInt(10), decimal.NewFromInt(10), decimal.NewFromInt(20), "dup-key")
	err := repo.Record(ctx, second)
	assert.Error(t, err)
}

func TestLedgerEventRepository_GetByAddressOrdersDescendingAndRespectsLimit(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupPoolForLedgerTests(t, testDB.DB, 4)
	repo := NewLedgerEventRepositoryScoped(testDB.DB)

	for i := 0; i < 3; i++ {
		event := testutil.CreateTestLedgerEvent(4, "alice", entities.EventKindDeposited,
			decimal.NewFromInt(int64(100*(i+1))), decimal.Zero, decimal.NewFromInt(int64(100*(i+1))))
		require.NoError(t, repo.Record(ctx, event))
	}

	history, err := repo.GetByAddress(ctx, 4, "alice", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
}
