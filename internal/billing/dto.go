package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/payment"
)

type BillPaymentDTO struct {
	ID        uuid.UUID           `json:"id"`
	Amount    decimal.Decimal     `json:"amount"`
	Method    enums.PaymentMethod `json:"method"`
	Reference string              `json:"reference,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// BillDTO is the payable payload. Overdue derives from the due date, so a
// partially paid bill past its date still reads overdue.
type BillDTO struct {
	ID           uuid.UUID        `json:"id"`
	SupplierID   uuid.UUID        `json:"supplier_id"`
	SupplierName string           `json:"supplier_name,omitempty"`
	Code         string           `json:"code,omitempty"`
	Amount       decimal.Decimal  `json:"amount"`
	PaidAmount   decimal.Decimal  `json:"paid_amount"`
	Outstanding  decimal.Decimal  `json:"outstanding"`
	Status       enums.BillStatus `json:"status"`
	Overdue      bool             `json:"overdue"`
	DueDate      *time.Time       `json:"due_date,omitempty"`
	Note         string           `json:"note,omitempty"`
	Payments     []BillPaymentDTO `json:"payments,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

type BillListResult struct {
	Bills      []BillDTO `json:"bills"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

func NewBillDTO(b *models.Bill, now time.Time) *BillDTO {
	if b == nil {
		return nil
	}
	dto := &BillDTO{
		ID:          b.ID,
		SupplierID:  b.SupplierID,
		Code:        b.Code,
		Amount:      b.Amount,
		PaidAmount:  b.PaidAmount,
		Outstanding: b.Outstanding(),
		Status:      b.Status,
		DueDate:     b.DueDate,
		Note:        b.Note,
		CreatedAt:   b.CreatedAt,
	}
	if b.DueDate != nil {
		dto.Overdue = payment.BillIsOverdue(b.Status, *b.DueDate, now)
	}
	if b.Supplier != nil {
		dto.SupplierName = b.Supplier.Name
	}
	for i := range b.Payments {
		p := &b.Payments[i]
		dto.Payments = append(dto.Payments, BillPaymentDTO{
			ID:        p.ID,
			Amount:    p.Amount,
			Method:    p.Method,
			Reference: p.Reference,
			CreatedAt: p.CreatedAt,
		})
	}
	return dto
}
