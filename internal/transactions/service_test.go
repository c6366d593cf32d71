package transactions

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
)

func TestNewTransactionDTODerivesOverdue(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -3)
	future := now.AddDate(0, 0, 3)

	cases := []struct {
		name    string
		status  enums.PaymentStatus
		due     *time.Time
		overdue bool
	}{
		{"pastDueUnpaid", enums.PaymentStatusUnpaid, &past, true},
		{"pastDuePartiallyPaid", enums.PaymentStatusPartiallyPaid, &past, true},
		{"pastDuePaid", enums.PaymentStatusPaid, &past, false},
		{"pastDueConsolidated", enums.PaymentStatusConsolidated, &past, false},
		{"futureDue", enums.PaymentStatusUnpaid, &future, false},
		{"noDueDate", enums.PaymentStatusUnpaid, nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dto := NewTransactionDTO(&models.Transaction{
				ID:      uuid.New(),
				Status:  tc.status,
				DueDate: tc.due,
				Total:   decimal.NewFromInt(100),
			}, now)
			if dto.Overdue != tc.overdue {
				t.Fatalf("expected overdue=%v", tc.overdue)
			}
		})
	}
}

func TestNewTransactionDTOOutstanding(t *testing.T) {
	dto := NewTransactionDTO(&models.Transaction{
		ID:         uuid.New(),
		Total:      decimal.NewFromInt(300),
		PaidAmount: decimal.NewFromInt(120),
	}, time.Now())
	if !dto.Outstanding.Equal(decimal.NewFromInt(180)) {
		t.Fatalf("outstanding: %s", dto.Outstanding)
	}
}

func TestNewTransactionDTOCarriesCustomerAndLines(t *testing.T) {
	customerID := uuid.New()
	txn := &models.Transaction{
		ID:         uuid.New(),
		Code:       "INV-20260831-0001",
		CustomerID: &customerID,
		Customer:   &models.Customer{ID: customerID, Name: "Somchai Construction"},
		Items: []models.TransactionItem{
			{ID: uuid.New(), Kind: enums.ItemKindCatalog, Description: "PVC 20mm", Quantity: 2, UnitPrice: decimal.NewFromInt(35), LineTotal: decimal.NewFromInt(70)},
			{ID: uuid.New(), Kind: enums.ItemKindCatalog, Description: "return: PVC 20mm", Quantity: -1, UnitPrice: decimal.NewFromInt(35), LineTotal: decimal.NewFromInt(-35)},
		},
		Payments: []models.PaymentRecord{
			{ID: uuid.New(), Amount: decimal.NewFromInt(35), Method: enums.PaymentMethodCash},
		},
	}

	dto := NewTransactionDTO(txn, time.Now())
	if dto.CustomerName != "Somchai Construction" {
		t.Fatalf("customer name: %q", dto.CustomerName)
	}
	if len(dto.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(dto.Items))
	}
	if dto.Items[1].Quantity != -1 {
		t.Fatal("return row quantity should stay negative")
	}
	if len(dto.Payments) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(dto.Payments))
	}
}

func TestNewServiceDefaults(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatal("expected error without repository")
	}
}
