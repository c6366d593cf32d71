package orders

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
)

func TestValidateCreateOrder(t *testing.T) {
	valid := CreateOrderInput{
		SupplierID: uuid.New(),
		Lines: []OrderLineInput{
			{VariantID: uuid.New(), Quantity: 10, UnitCost: decimal.NewFromInt(85)},
		},
	}

	if err := validateCreateOrder(valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*CreateOrderInput)
	}{
		{"noSupplier", func(i *CreateOrderInput) { i.SupplierID = uuid.Nil }},
		{"noLines", func(i *CreateOrderInput) { i.Lines = nil }},
		{"zeroQuantity", func(i *CreateOrderInput) { i.Lines[0].Quantity = 0 }},
		{"negativeCost", func(i *CreateOrderInput) { i.Lines[0].UnitCost = decimal.NewFromInt(-1) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := valid
			input.Lines = append([]OrderLineInput(nil), valid.Lines...)
			tc.mutate(&input)
			err := validateCreateOrder(input)
			if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestReceivedQuantity(t *testing.T) {
	item := &models.PurchaseOrderItem{ID: uuid.New(), Quantity: 20}

	qty, err := receivedQuantity(item, ReceiveInput{})
	if err != nil || qty != 20 {
		t.Fatalf("default: qty=%d err=%v", qty, err)
	}

	qty, err = receivedQuantity(item, ReceiveInput{Quantities: map[uuid.UUID]int{item.ID: 15}})
	if err != nil || qty != 15 {
		t.Fatalf("partial: qty=%d err=%v", qty, err)
	}

	_, err = receivedQuantity(item, ReceiveInput{Quantities: map[uuid.UUID]int{item.ID: 25}})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewOrderDTOTotals(t *testing.T) {
	order := &models.PurchaseOrder{
		ID:       uuid.New(),
		Code:     "PO-20250301-0001",
		Supplier: &models.Supplier{Name: "ปูนซีเมนต์ไทย"},
		Items: []models.PurchaseOrderItem{
			{Quantity: 10, UnitCost: decimal.NewFromInt(85)},
			{Quantity: 2, UnitCost: decimal.RequireFromString("42.50")},
		},
	}

	dto := NewOrderDTO(order)
	if !dto.Total.Equal(decimal.NewFromInt(935)) {
		t.Fatalf("total: %s", dto.Total)
	}
	if dto.SupplierName != "ปูนซีเมนต์ไทย" {
		t.Fatalf("supplier name: %q", dto.SupplierName)
	}
	if !dto.Items[1].LineCost.Equal(decimal.NewFromInt(85)) {
		t.Fatalf("line cost: %s", dto.Items[1].LineCost)
	}
}
