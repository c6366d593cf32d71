package transactions

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

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/pagination"
)

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
		Now:      func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return svc
}

func seedCustomer(t *testing.T, conn *gorm.DB) *models.Customer {
	t.Helper()
	customer := &models.Customer{ID: uuid.New(), Name: "Somchai Construction", Tier: enums.CustomerTierContractor}
	require.NoError(t, conn.Create(customer).Error)
	return customer
}

func seedInvoice(t *testing.T, conn *gorm.DB, customerID *uuid.UUID, total, paid string, status enums.PaymentStatus) *models.Transaction {
	t.Helper()
	txn := &models.Transaction{
		ID:         uuid.New(),
		Code:       "INV-20260830-" + uuid.NewString()[:8],
		CustomerID: customerID,
		Tier:       enums.CustomerTierContractor,
		Subtotal:   decimal.RequireFromString(total),
		Total:      decimal.RequireFromString(total),
		PaidAmount: decimal.RequireFromString(paid),
		Status:     status,
	}
	require.NoError(t, conn.Create(txn).Error)
	return txn
}

func seedItem(t *testing.T, conn *gorm.DB, txnID uuid.UUID, variantID *uuid.UUID, qty int, unitPrice string) *models.TransactionItem {
	t.Helper()
	price := decimal.RequireFromString(unitPrice)
	item := &models.TransactionItem{
		ID:            uuid.New(),
		TransactionID: txnID,
		VariantID:     variantID,
		Kind:          enums.ItemKindCatalog,
		Description:   "cement 40kg",
		Quantity:      qty,
		UnitPrice:     price,
		LineTotal:     price.Mul(decimal.NewFromInt(int64(qty))),
	}
	require.NoError(t, conn.Create(item).Error)
	return item
}

func TestRecordPaymentAppendsOneRecordPerCall(t *testing.T) {
	conn := testDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	txn := seedInvoice(t, conn, nil, "300.00", "0.00", enums.PaymentStatusUnpaid)

	dto, err := svc.RecordPayment(ctx, txn.ID, PaymentInput{Amount: decimal.NewFromInt(100), Method: enums.PaymentMethodCash})
	require.NoError(t, err)
	require.Equal(t, enums.PaymentStatusPartiallyPaid, dto.Status)

	dto, err = svc.RecordPayment(ctx, txn.ID, PaymentInput{Amount: decimal.NewFromInt(200), Method: enums.PaymentMethodTransfer})
	require.NoError(t, err)
	require.Equal(t, enums.PaymentStatusPaid, dto.Status)

	_, err = svc.RecordPayment(ctx, txn.ID, PaymentInput{Amount: decimal.NewFromInt(50), Method: enums.PaymentMethodCash})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	// the settled invoice took exactly two payments; the rejected call left no row
	var count int64
	require.NoError(t, conn.Model(&models.PaymentRecord{}).Where("transaction_id = ?", txn.ID).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestReturnCapsAtRemainingQuantity(t *testing.T) {
	conn := testDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	customer := seedCustomer(t, conn)
	txn := seedInvoice(t, conn, &customer.ID, "100.00", "0.00", enums.PaymentStatusUnpaid)
	item := seedItem(t, conn, txn.ID, nil, 2, "50.00")

	res, err := svc.Return(ctx, txn.ID, ReturnInput{Lines: []ReturnLine{{ItemID: item.ID, Quantity: 1}}})
	require.NoError(t, err)
	require.True(t, res.CreditTotal.Equal(decimal.NewFromInt(50)))

	// one unit remains; asking for two must fail
	_, err = svc.Return(ctx, txn.ID, ReturnInput{Lines: []ReturnLine{{ItemID: item.ID, Quantity: 2}}})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.Return(ctx, txn.ID, ReturnInput{Lines: []ReturnLine{{ItemID: item.ID, Quantity: 1}}})
	require.NoError(t, err)

	// everything came back already; a repeat of the same return must not mint more credit
	_, err = svc.Return(ctx, txn.ID, ReturnInput{Lines: []ReturnLine{{ItemID: item.ID, Quantity: 1}}})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	var credits int64
	require.NoError(t, conn.Model(&models.StoreCredit{}).Count(&credits).Error)
	require.EqualValues(t, 2, credits)
}

func TestReturnRejectsDuplicateLinesOverRemaining(t *testing.T) {
	conn := testDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	customer := seedCustomer(t, conn)
	txn := seedInvoice(t, conn, &customer.ID, "100.00", "0.00", enums.PaymentStatusUnpaid)
	item := seedItem(t, conn, txn.ID, nil, 2, "50.00")

	_, err := svc.Return(ctx, txn.ID, ReturnInput{Lines: []ReturnLine{
		{ItemID: item.ID, Quantity: 1},
		{ItemID: item.ID, Quantity: 2},
	}})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	var credits, returnRows int64
	require.NoError(t, conn.Model(&models.StoreCredit{}).Count(&credits).Error)
	require.NoError(t, conn.Model(&models.TransactionItem{}).Where("quantity < 0").Count(&returnRows).Error)
	require.Zero(t, credits)
	require.Zero(t, returnRows)
}

func TestReturnRestocksVariant(t *testing.T) {
	conn := testDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	customer := seedCustomer(t, conn)
	variant := &models.ProductVariant{ID: uuid.New(), ProductID: uuid.New(), SKU: "CEM-40", Name: "cement 40kg", Stock: 0}
	require.NoError(t, conn.Create(variant).Error)
	txn := seedInvoice(t, conn, &customer.ID, "100.00", "0.00", enums.PaymentStatusUnpaid)
	item := seedItem(t, conn, txn.ID, &variant.ID, 2, "50.00")

	_, err := svc.Return(ctx, txn.ID, ReturnInput{
		Lines:   []ReturnLine{{ItemID: item.ID, Quantity: 2}},
		Restock: true,
	})
	require.NoError(t, err)

	var reloaded models.ProductVariant
	require.NoError(t, conn.First(&reloaded, "id = ?", variant.ID).Error)
	require.Equal(t, 2, reloaded.Stock)

	var history []models.VariantHistory
	require.NoError(t, conn.Find(&history).Error)
	require.Len(t, history, 1)
	require.Equal(t, enums.VariantHistoryKindReturn, history[0].Kind)
	require.Equal(t, 2, history[0].QuantityDelta)
}

func seedAgedInvoice(t *testing.T, conn *gorm.DB, status enums.PaymentStatus, due, created time.Time) *models.Transaction {
	t.Helper()
	txn := &models.Transaction{
		ID:         uuid.New(),
		Code:       "INV-20260820-" + uuid.NewString()[:8],
		Tier:       enums.CustomerTierWalkIn,
		Total:      decimal.NewFromInt(100),
		PaidAmount: decimal.Zero,
		Status:     status,
		DueDate:    &due,
		CreatedAt:  created,
	}
	if status == enums.PaymentStatusPaid {
		txn.PaidAmount = txn.Total
	}
	require.NoError(t, conn.Create(txn).Error)
	return txn
}

func TestListOverdueOnlyKeepsPagesFull(t *testing.T) {
	conn := testDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	due := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	future := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	seedAgedInvoice(t, conn, enums.PaymentStatusUnpaid, due, base)
	seedAgedInvoice(t, conn, enums.PaymentStatusUnpaid, due, base.Add(time.Hour))
	// settled and future-due rows interleave with the overdue ones and must
	// not eat page slots
	seedAgedInvoice(t, conn, enums.PaymentStatusPaid, due, base.Add(90*time.Minute))
	seedAgedInvoice(t, conn, enums.PaymentStatusUnpaid, due, base.Add(2*time.Hour))
	seedAgedInvoice(t, conn, enums.PaymentStatusUnpaid, future, base.Add(3*time.Hour))

	page, err := svc.List(ctx, ListInput{OverdueOnly: true, Pagination: pagination.Params{Limit: 2}})
	require.NoError(t, err)
	require.Len(t, page.Transactions, 2)
	for _, dto := range page.Transactions {
		require.True(t, dto.Overdue)
	}
	require.NotEmpty(t, page.NextCursor)

	rest, err := svc.List(ctx, ListInput{OverdueOnly: true, Pagination: pagination.Params{Limit: 2, Cursor: page.NextCursor}})
	require.NoError(t, err)
	require.Len(t, rest.Transactions, 1)
	require.True(t, rest.Transactions[0].Overdue)
	require.Empty(t, rest.NextCursor)
}

func TestConsolidateThenUnconsolidateRestoresOriginals(t *testing.T) {
	conn := testDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	customer := seedCustomer(t, conn)
	first := seedInvoice(t, conn, &customer.ID, "100.00", "40.00", enums.PaymentStatusPartiallyPaid)
	second := seedInvoice(t, conn, &customer.ID, "200.00", "0.00", enums.PaymentStatusUnpaid)

	dto, err := svc.Consolidate(ctx, ConsolidateInput{
		CustomerID:     customer.ID,
		TransactionIDs: []uuid.UUID{first.ID, second.ID},
	})
	require.NoError(t, err)
	require.True(t, dto.Total.Equal(decimal.NewFromInt(260)))
	require.Equal(t, enums.PaymentStatusUnpaid, dto.Status)

	var original models.Transaction
	require.NoError(t, conn.First(&original, "id = ?", first.ID).Error)
	require.Equal(t, enums.PaymentStatusConsolidated, original.Status)
	require.NotNil(t, original.ConsolidatedInto)
	require.Equal(t, dto.ID, *original.ConsolidatedInto)

	require.NoError(t, svc.Unconsolidate(ctx, dto.ID))

	// Scan into fresh structs: reusing `original` would keep the stale
	// ConsolidatedInto value because uuid.UUID.Scan(nil) is a no-op on NULL.
	var restoredFirst models.Transaction
	require.NoError(t, conn.First(&restoredFirst, "id = ?", first.ID).Error)
	require.Equal(t, enums.PaymentStatusPartiallyPaid, restoredFirst.Status)
	require.Nil(t, restoredFirst.ConsolidatedInto)

	var restoredSecond models.Transaction
	require.NoError(t, conn.First(&restoredSecond, "id = ?", second.ID).Error)
	require.Equal(t, enums.PaymentStatusUnpaid, restoredSecond.Status)

	var successors int64
	require.NoError(t, conn.Unscoped().Model(&models.Transaction{}).Where("id = ?", dto.ID).Count(&successors).Error)
	require.Zero(t, successors)
}

func TestUnconsolidateRefusedAfterSuccessorPayment(t *testing.T) {
	conn := testDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	customer := seedCustomer(t, conn)
	first := seedInvoice(t, conn, &customer.ID, "100.00", "0.00", enums.PaymentStatusUnpaid)
	second := seedInvoice(t, conn, &customer.ID, "200.00", "0.00", enums.PaymentStatusUnpaid)

	dto, err := svc.Consolidate(ctx, ConsolidateInput{
		CustomerID:     customer.ID,
		TransactionIDs: []uuid.UUID{first.ID, second.ID},
	})
	require.NoError(t, err)

	_, err = svc.RecordPayment(ctx, dto.ID, PaymentInput{Amount: decimal.NewFromInt(50), Method: enums.PaymentMethodCash})
	require.NoError(t, err)

	err = svc.Unconsolidate(ctx, dto.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	var original models.Transaction
	require.NoError(t, conn.First(&original, "id = ?", first.ID).Error)
	require.Equal(t, enums.PaymentStatusConsolidated, original.Status)
}
