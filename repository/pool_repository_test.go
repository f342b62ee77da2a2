package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckystake/pool-engine/repository/testutil"
)

func TestPoolRepository_CreateAndGetByID(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewPoolRepositoryScoped(testDB.DB)

	pool := testutil.CreateTestPool(1, "GADMIN", "GTOKEN", 7)
	require.NoError(t, repo.Create(ctx, pool))

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "GADMIN", got.Admin)
	assert.Equal(t, "GTOKEN", got.Token)
	assert.Equal(t, uint32(7), got.PeriodDays)
	assert.True(t, got.TotalDeposits.IsZero())
}

func TestPoolRepository_GetByID_NotFound(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewPoolRepositoryScoped(testDB.DB)

	got, err := repo.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPoolRepository_Update(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewPoolRepositoryScoped(testDB.DB)

	pool := testutil.CreateTestPool(2, "GADMIN", "GTOKEN", 7)
	require.NoError(t, repo.Create(ctx, pool))

	pool.TotalDeposits = decimal.NewFromInt(1000)
	pool.TotalTickets = decimal.NewFromInt(7000)
	pool.DrawNonce = 1
	require.NoError(t, repo.Update(ctx, pool))

	got, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.True(t, got.TotalDeposits.Equal(decimal.NewFromInt(1000)))
	assert.True(t, got.TotalTickets.Equal(decimal.NewFromInt(7000)))
	assert.Equal(t, uint64(1), got.DrawNonce)
}

func TestPoolRepository_Update_NotFoundReturnsError(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewPoolRepositoryScoped(testDB.DB)

	pool := testutil.CreateTestPool(3, "GADMIN", "GTOKEN", 7)
	err := repo.Update(ctx, pool)
	assert.Error(t, err)
}

func TestPoolRepository_GetByIDForUpdate_LocksRow(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewPoolRepositoryScoped(testDB.DB)

	pool := testutil.CreateTestPool(4, "GADMIN", "GTOKEN", 7)
	require.NoError(t, repo.Create(ctx, pool))

	tx, err := testDB.DB.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	txRepo := NewPoolRepositoryScoped(tx)
	got, err := txRepo.GetByIDForUpdate(ctx, 4)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(4), got.ID)
}
