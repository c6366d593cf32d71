package storecredit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.StoreCredit{}))
	return db
}

func TestRepositoryListByCustomer(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()
	customerID := uuid.New()

	unused := &models.StoreCredit{
		ID:         uuid.New(),
		CustomerID: customerID,
		Amount:     decimal.RequireFromString("150.00"),
	}
	require.NoError(t, repo.Create(ctx, unused))

	usedAt := time.Now().UTC()
	used := &models.StoreCredit{
		ID:         uuid.New(),
		CustomerID: customerID,
		Amount:     decimal.RequireFromString("80.00"),
		IsUsed:     true,
		UsedAt:     &usedAt,
	}
	require.NoError(t, repo.Create(ctx, used))

	other := &models.StoreCredit{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Amount:     decimal.RequireFromString("30.00"),
	}
	require.NoError(t, repo.Create(ctx, other))

	all, err := repo.ListByCustomer(ctx, customerID, false)
	require.NoError(t, err)
	require.Len(t, all, 2)

	available, err := repo.ListByCustomer(ctx, customerID, true)
	require.NoError(t, err)
	require.Len(t, available, 1)
	require.Equal(t, unused.ID, available[0].ID)
	require.True(t, available[0].Amount.Equal(decimal.RequireFromString("150.00")))
}

func TestRepositoryFindByID(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	credit := &models.StoreCredit{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Amount:     decimal.RequireFromString("99.50"),
		Note:       "return credit",
	}
	require.NoError(t, repo.Create(ctx, credit))

	found, err := repo.FindByID(ctx, credit.ID)
	require.NoError(t, err)
	require.Equal(t, "return credit", found.Note)
	require.False(t, found.IsUsed)

	_, err = repo.FindByID(ctx, uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
