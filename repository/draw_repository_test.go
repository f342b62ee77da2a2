package repository

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckystake/pool-engine/repository/testutil"
)

func setupPoolForDrawTests(t *testing.T, db Queryable, poolID int64) {
	t.Helper()
	pool := testutil.CreateTestPool(poolID, "GADMIN", "GTOKEN", 7)
	require.NoError(t, NewPoolRepositoryScoped(db).Create(context.Background(), pool))
}

func TestDrawRepository_CreateAssignsID(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupPoolForDrawTests(t, testDB.DB, 1)
	repo := NewDrawRepositoryScoped(testDB.DB)

	draw := testutil.CreateTestDrawRecord(1, 0, "alice", decimal.NewFromInt(500), 12345)
	require.NoError(t, repo.Create(ctx, draw))
	assert.NotZero(t, draw.ID)
}

func TestDrawRepository_GetLatestReturnsHighestNonce(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupPoolForDrawTests(t, testDB.DB, 2)
	repo := NewDrawRepositoryScoped(testDB.DB)

	require.NoError(t, repo.Create(ctx, testutil.CreateTestDrawRecord(2, 0, "alice", decimal.NewFromInt(100), 1)))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestDrawRecord(2, 1, "bob", decimal.NewFromInt(200), 2)))

	latest, err := repo.GetLatest(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, uint64(1), latest.Nonce)
	assert.Equal(t, "bob", latest.Winner)
}

func TestDrawRepository_GetLatest_NoDrawsReturnsNil(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupPoolForDrawTests(t, testDB.DB, 3)
	repo := NewDrawRepositoryScoped(testDB.DB)

	latest, err := repo.GetLatest(ctx, 3)
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestDrawRepository_GetHistoryOrdersDescendingAndRespectsLimit(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupPoolForDrawTests(t, testDB.DB, 4)
	repo := NewDrawRepositoryScoped(testDB.DB)

	for nonce := uint64(0); nonce < 5; nonce++ {
		require.NoError(t, repo.Create(ctx, testutil.CreateTestDrawRecord(4, nonce, "alice", decimal.NewFromInt(100), nonce)))
	}

	history, err := repo.GetHistory(ctx, 4, 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, uint64(4), history[0].Nonce)
	assert.Equal(t, uint64(3), history[1].Nonce)
	assert.Equal(t, uint64(2), history[2].Nonce)
}

func TestDrawRepository_SeedAboveMaxInt64RoundTrips(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupPoolForDrawTests(t, testDB.DB, 6)
	repo := NewDrawRepositoryScoped(testDB.DB)

	seed := uint64(math.MaxInt64) + 12345
	draw := testutil.CreateTestDrawRecord(6, 0, "alice", decimal.NewFromInt(500), seed)
	require.NoError(t, repo.Create(ctx, draw))

	latest, err := repo.GetLatest(ctx, 6)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, seed, latest.Seed)
}

func TestDrawRepository_UniqueNonceConstraint(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupPoolForDrawTests(t, testDB.DB, 5)
	repo := NewDrawRepositoryScoped(testDB.DB)

	require.NoError(t, repo.Create(ctx, testutil.CreateTestDrawRecord(5, 0, "alice", decimal.NewFromInt(100), 1)))
	err := repo.Create(ctx, testutil.CreateTestDrawRecord(5, 0, "bob", decimal.NewFromInt(200), 2))
	assert.Error(t, err)
}
