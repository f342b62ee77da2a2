package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckystake/pool-engine/repository/testutil"
)

func setupPoolForDepositorTests(t *testing.T, db Queryable, poolID int64) {
	t.Helper()
	pool := testutil.CreateTestPool(poolID, "GADMIN", "GTOKEN", 7)
	require.NoError(t, NewPoolRepositoryScoped(db).Create(context.Background(), pool))
}

func TestDepositorRepository_UpsertAppendsAtEndOfList(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupPoolForDepositorTests(t, testDB.DB, 1)
	repo := NewDepositorRepositoryScoped(testDB.DB)

	alice := testutil.CreateTestDepositor(1, "alice", decimal.NewFromInt(100), decimal.NewFromInt(700), -1)
	require.NoError(t, repo.Upsert(ctx, alice))
	assert.Equal(t, 0, alice.Position)

	bob := testutil.CreateTestDepositor(1, "bob", decimal.NewFromInt(200), decimal.NewFromInt(1400), -1)
	require.NoError(t, repo.Upsert(ctx, bob))
	assert.Equal(t, 1, bob.Position)
}

func TestDepositorRepository_UpsertUpdatesExistingRowWithoutChangingPosition(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupPoolForDepositorTests(t, testDB.DB, 2)
	repo := NewDepositorRepositoryScoped(testDB.DB)

	alice := testutil.CreateTestDepositor(2, "alice", decimal.NewFromInt(100), decimal.NewFromInt(700), -1)
	require.NoError(t, repo.Upsert(ctx, alice))
	originalPosition := alice.Position

	alice.Balance = decimal.NewFromInt(150)
	alice.Tickets = decimal.NewFromInt(1050)
	require.NoError(t, repo.Upsert(ctx, alice))
	assert.Equal(t, originalPosition, alice.Position)

	got, err := repo.Get(ctx, 2, "alice")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(150)))
	assert.True(t, got.Tickets.Equal(decimal.NewFromInt(1050)))
}

func TestDepositorRepository_RemoveLeavesGapInListPosition(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupPoolForDepositorTests(t, testDB.DB, 3)
	repo := NewDepositorRepositoryScoped(testDB.DB)

	alice := testutil.CreateTestDepositor(3, "alice", decimal.NewFromInt(100), decimal.NewFromInt(700), -1)
	bob := testutil.CreateTestDepositor(3, "bob", decimal.NewFromInt(200), decimal.NewFromInt(1400), -1)
	require.NoError(t, repo.Upsert(ctx, alice))
	require.NoError(t, repo.Upsert(ctx, bob))

	require.NoError(t, repo.Remove(ctx, 3, "alice"))

	got, err := repo.Get(ctx, 3, "alice")
	require.NoError(t, err)
	assert.Nil(t, got)

	list, err := repo.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "bob", list[0].Address)
	assert.Equal(t, bob.Position, list[0].Position)
}

func TestDepositorRepository_RemoveNotFoundReturnsError(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupPoolForDepositorTests(t, testDB.DB, 4)
	repo := NewDepositorRepositoryScoped(testDB.DB)

	err := repo.Remove(ctx, 4, "nobody")
	assert.Error(t, err)
}

func TestDepositorRepository_ListOrdersByPosition(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupPoolForDepositorTests(t, testDB.DB, 5)
	repo := NewDepositorRepositoryScoped(testDB.DB)

	for _, addr := range []string{"alice", "bob", "carol"} {
		d := testutil.CreateTestDepositor(5, addr, decimal.NewFromInt(100), decimal.NewFromInt(700), -1)
		require.NoError(t, repo.Upsert(ctx, d))
	}

	list, err := repo.List(ctx, 5)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"alice", "bob", "carol"}, []string{list[0].Address, list[1].Address, list[2].Address})
}

func TestDepositorRepository_Count(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupPoolForDepositorTests(t, testDB.DB, 6)
	repo := NewDepositorRepositoryScoped(testDB.DB)

	count, err := repo.Count(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	d := testutil.CreateTestDepositor(6, "alice", decimal.NewFromInt(100), decimal.NewFromInt(700), -1)
	require.NoError(t, repo.Upsert(ctx, d))

	count, err = repo.Count(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
