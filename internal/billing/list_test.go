package billing

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
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/pagination"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Supplier{}, &models.Bill{}, &models.BillPayment{}))
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

func seedBill(t *testing.T, conn *gorm.DB, supplierID uuid.UUID, status enums.BillStatus, due, created time.Time) *models.Bill {
	t.Helper()
	bill := &models.Bill{
		ID:         uuid.New(),
		SupplierID: supplierID,
		Code:       "BILL-" + uuid.NewString()[:8],
		Amount:     decimal.NewFromInt(500),
		Status:     status,
		DueDate:    &due,
		CreatedAt:  created,
	}
	if status == enums.BillStatusPaid {
		bill.PaidAmount = bill.Amount
	}
	require.NoError(t, conn.Create(bill).Error)
	return bill
}

func TestListOverdueOnlyKeepsPagesFull(t *testing.T) {
	conn := testDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	supplier := &models.Supplier{ID: uuid.New(), Name: "TPI Cement"}
	require.NoError(t, conn.Create(supplier).Error)

	due := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	future := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	seedBill(t, conn, supplier.ID, enums.BillStatusDue, due, base)
	seedBill(t, conn, supplier.ID, enums.BillStatusDue, due, base.Add(time.Hour))
	// paid and future-due bills must not eat page slots
	seedBill(t, conn, supplier.ID, enums.BillStatusPaid, due, base.Add(90*time.Minute))
	seedBill(t, conn, supplier.ID, enums.BillStatusDue, due, base.Add(2*time.Hour))
	seedBill(t, conn, supplier.ID, enums.BillStatusDue, future, base.Add(3*time.Hour))

	page, err := svc.List(ctx, ListInput{OverdueOnly: true, Pagination: pagination.Params{Limit: 2}})
	require.NoError(t, err)
	require.Len(t, page.Bills, 2)
	for _, dto := range page.Bills {
		require.True(t, dto.Overdue)
	}
	require.NotEmpty(t, page.NextCursor)

	rest, err := svc.List(ctx, ListInput{OverdueOnly: true, Pagination: pagination.Params{Limit: 2, Cursor: page.NextCursor}})
	require.NoError(t, err)
	require.Len(t, rest.Bills, 1)
	require.True(t, rest.Bills[0].Overdue)
	require.Empty(t, rest.NextCursor)
}
