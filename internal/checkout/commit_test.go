package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
)

type fixedMarkup struct{}

func (fixedMarkup) OutsourceMarkupPercent(context.Context) decimal.Decimal {
	return decimal.NewFromInt(20)
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Customer{},
		&models.ProductVariant{},
		&models.VariantHistory{},
		&models.Transaction{},
		&models.TransactionItem{},
		&models.PaymentRecord{},
		&models.StoreCredit{},
	))
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(conn),
		DBClient: db.NewFromConn(conn),
		Markup:   fixedMarkup{},
	})
	require.NoError(t, err)
	return svc
}

func seedVariant(t *testing.T, conn *gorm.DB, stock int, price string) *models.ProductVariant {
	t.Helper()
	variant := &models.ProductVariant{
		ID:          uuid.New(),
		ProductID:   uuid.New(),
		SKU:         "SKU-" + uuid.NewString()[:8],
		Name:        "PVC pipe 20mm",
		Stock:       stock,
		PriceWalkIn: decimal.RequireFromString(price),
		Cost:        decimal.RequireFromString(price).Mul(decimal.RequireFromString("0.6")),
	}
	require.NoError(t, conn.Create(variant).Error)
	return variant
}

func TestCommitDecrementsStockUnderGuard(t *testing.T) {
	conn := testDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	variant := seedVariant(t, conn, 10, "50.00")

	res, err := svc.Commit(ctx, CartInput{
		Tier:  enums.CustomerTierWalkIn,
		Lines: []LineInput{{Kind: enums.ItemKindCatalog, VariantID: &variant.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, enums.PaymentStatusUnpaid, res.Status)
	require.True(t, res.Quote.Total.Equal(decimal.NewFromInt(150)))

	var reloaded models.ProductVariant
	require.NoError(t, conn.First(&reloaded, "id = ?", variant.ID).Error)
	require.Equal(t, 7, reloaded.Stock)

	var history []models.VariantHistory
	require.NoError(t, conn.Find(&history).Error)
	require.Len(t, history, 1)
	require.Equal(t, -3, history[0].QuantityDelta)
	require.Equal(t, 7, history[0].StockAfter)

	var items []models.TransactionItem
	require.NoError(t, conn.Where("transaction_id = ?", res.TransactionID).Find(&items).Error)
	require.Len(t, items, 1)
	require.Equal(t, 3, items[0].Quantity)
}

func TestCommitInsufficientStockLeavesNothingBehind(t *testing.T) {
	conn := testDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	first := seedVariant(t, conn, 5, "40.00")
	second := seedVariant(t, conn, 1, "60.00")

	_, err := svc.Commit(ctx, CartInput{
		Tier: enums.CustomerTierWalkIn,
		Lines: []LineInput{
			{Kind: enums.ItemKindCatalog, VariantID: &first.ID, Quantity: 2},
			{Kind: enums.ItemKindCatalog, VariantID: &second.ID, Quantity: 3},
		},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	// the first decrement succeeded inside the tx; the rollback must undo it
	var reloaded models.ProductVariant
	require.NoError(t, conn.First(&reloaded, "id = ?", first.ID).Error)
	require.Equal(t, 5, reloaded.Stock)

	var txnCount, historyCount int64
	require.NoError(t, conn.Model(&models.Transaction{}).Count(&txnCount).Error)
	require.NoError(t, conn.Model(&models.VariantHistory{}).Count(&historyCount).Error)
	require.Zero(t, txnCount)
	require.Zero(t, historyCount)
}

func TestCommitConsumesCreditOnce(t *testing.T) {
	conn := testDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	customer := &models.Customer{ID: uuid.New(), Name: "Somchai Construction", Tier: enums.CustomerTierContractor}
	require.NoError(t, conn.Create(customer).Error)
	variant := seedVariant(t, conn, 10, "100.00")
	credit := &models.StoreCredit{ID: uuid.New(), CustomerID: customer.ID, Amount: decimal.NewFromInt(40)}
	require.NoError(t, conn.Create(credit).Error)

	cart := CartInput{
		Tier:       enums.CustomerTierWalkIn,
		CustomerID: &customer.ID,
		CreditID:   &credit.ID,
		Lines:      []LineInput{{Kind: enums.ItemKindCatalog, VariantID: &variant.ID, Quantity: 1}},
	}
	res, err := svc.Commit(ctx, cart)
	require.NoError(t, err)
	require.True(t, res.Quote.CreditApplied.Equal(decimal.NewFromInt(40)))
	require.True(t, res.Quote.Total.Equal(decimal.NewFromInt(60)))

	var reloaded models.StoreCredit
	require.NoError(t, conn.First(&reloaded, "id = ?", credit.ID).Error)
	require.True(t, reloaded.IsUsed)
	require.NotNil(t, reloaded.UsedTransactionID)
	require.Equal(t, res.TransactionID, *reloaded.UsedTransactionID)

	_, err = svc.Commit(ctx, cart)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestCommitFullyCreditedSaleReadsPaid(t *testing.T) {
	conn := testDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	customer := &models.Customer{ID: uuid.New(), Name: "Somchai Construction"}
	require.NoError(t, conn.Create(customer).Error)
	credit := &models.StoreCredit{ID: uuid.New(), CustomerID: customer.ID, Amount: decimal.NewFromInt(100)}
	require.NoError(t, conn.Create(credit).Error)

	res, err := svc.Commit(ctx, CartInput{
		Tier:       enums.CustomerTierWalkIn,
		CustomerID: &customer.ID,
		CreditID:   &credit.ID,
		Lines: []LineInput{{
			Kind:        enums.ItemKindMisc,
			Description: "pipe cutting",
			UnitPrice:   decimal.NewFromInt(100),
			Quantity:    1,
		}},
	})
	require.NoError(t, err)
	require.True(t, res.Quote.Total.IsZero())
	require.Equal(t, enums.PaymentStatusPaid, res.Status)

	// nothing is owed, so the invoice must never surface in receivables
	var txn models.Transaction
	require.NoError(t, conn.First(&txn, "id = ?", res.TransactionID).Error)
	require.Equal(t, enums.PaymentStatusPaid, txn.Status)
	require.True(t, txn.Outstanding().IsZero())
}

func TestCommitWithInitialPaymentSettles(t *testing.T) {
	conn := testDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	variant := seedVariant(t, conn, 10, "50.00")

	res, err := svc.Commit(ctx, CartInput{
		Tier:  enums.CustomerTierWalkIn,
		Lines: []LineInput{{Kind: enums.ItemKindCatalog, VariantID: &variant.ID, Quantity: 3}},
		InitialPayment: &PaymentInput{
			Amount: decimal.NewFromInt(150),
			Method: enums.PaymentMethodCash,
		},
	})
	require.NoError(t, err)
	require.Equal(t, enums.PaymentStatusPaid, res.Status)
	require.True(t, res.PaidAmount.Equal(decimal.NewFromInt(150)))

	var records []models.PaymentRecord
	require.NoError(t, conn.Where("transaction_id = ?", res.TransactionID).Find(&records).Error)
	require.Len(t, records, 1)
}
