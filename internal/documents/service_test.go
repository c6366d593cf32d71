package documents

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pattarapol-dev/srisawat-pos-backend/internal/settings"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/transactions"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
)

type fakeTransactions struct {
	dto *transactions.TransactionDTO
}

func (f *fakeTransactions) Get(_ context.Context, id uuid.UUID) (*transactions.TransactionDTO, error) {
	if f.dto == nil || f.dto.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
	}
	return f.dto, nil
}

type fakeSettings struct {
	dto *settings.SettingsDTO
}

func (f *fakeSettings) Get(context.Context) (*settings.SettingsDTO, error) {
	return f.dto, nil
}

func sampleInvoice() *transactions.TransactionDTO {
	return &transactions.TransactionDTO{
		ID:          uuid.New(),
		Code:        "INV-20250301-0042",
		Tier:        enums.CustomerTierContractor,
		Subtotal:    decimal.NewFromInt(200),
		Tax:         decimal.NewFromInt(14),
		Total:       decimal.NewFromInt(214),
		PaidAmount:  decimal.NewFromInt(100),
		Outstanding: decimal.NewFromInt(114),
		Items: []transactions.ItemDTO{
			{Description: "ปูนตราเสือ 50กก.", Quantity: 2, UnitPrice: decimal.NewFromInt(100), LineTotal: decimal.NewFromInt(200)},
		},
		CreatedAt: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
	}
}

func newTestService(t *testing.T, invoice *transactions.TransactionDTO) Service {
	t.Helper()
	svc, err := NewService(
		&fakeTransactions{dto: invoice},
		&fakeSettings{dto: &settings.SettingsDTO{
			StoreName:     "ศรีสวัสดิ์วัสดุก่อสร้าง",
			Phone:         "044-123456",
			ReceiptFooter: "ขอบคุณที่ใช้บริการ",
		}},
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestRenderReceipt(t *testing.T) {
	invoice := sampleInvoice()
	svc := newTestService(t, invoice)

	out, err := svc.Render(context.Background(), KindReceipt, invoice.ID)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	for _, want := range []string{invoice.Code, "ศรีสวัสดิ์วัสดุก่อสร้าง", "ปูนตราเสือ 50กก.", "ขอบคุณที่ใช้บริการ", "214"} {
		if !strings.Contains(html, want) {
			t.Fatalf("receipt missing %q", want)
		}
	}
}

func TestRenderDeliveryNote(t *testing.T) {
	invoice := sampleInvoice()
	svc := newTestService(t, invoice)

	out, err := svc.Render(context.Background(), KindDeliveryNote, invoice.ID)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "ใบส่งของ") || !strings.Contains(html, "ผู้รับของ") {
		t.Fatal("delivery note missing headings")
	}
	if strings.Contains(html, "ยอดสุทธิ") {
		t.Fatal("delivery note must not show totals")
	}
}

func TestRenderUnknownKind(t *testing.T) {
	invoice := sampleInvoice()
	svc := newTestService(t, invoice)

	_, err := svc.Render(context.Background(), Kind("quotation"), invoice.ID)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRenderMissingTransaction(t *testing.T) {
	svc := newTestService(t, sampleInvoice())

	_, err := svc.Render(context.Background(), KindReceipt, uuid.New())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
