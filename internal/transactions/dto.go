package transactions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/payment"
)

type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	VariantID   *uuid.UUID      `json:"variant_id,omitempty"`
	Kind        enums.ItemKind  `json:"kind"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type PaymentDTO struct {
	ID        uuid.UUID           `json:"id"`
	Amount    decimal.Decimal     `json:"amount"`
	Method    enums.PaymentMethod `json:"method"`
	Reference string              `json:"reference,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// TransactionDTO is the receivable payload. Overdue is derived from the due
// date at serialization time, never stored.
type TransactionDTO struct {
	ID               uuid.UUID           `json:"id"`
	Code             string              `json:"code"`
	CustomerID       *uuid.UUID          `json:"customer_id,omitempty"`
	CustomerName     string              `json:"customer_name,omitempty"`
	Tier             enums.CustomerTier  `json:"tier"`
	VATIncluded      bool                `json:"vat_included"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	Tax              decimal.Decimal     `json:"tax"`
	TransportFee     decimal.Decimal     `json:"transport_fee"`
	BalanceForward   decimal.Decimal     `json:"balance_forward"`
	CreditApplied    decimal.Decimal     `json:"credit_applied"`
	Total            decimal.Decimal     `json:"total"`
	PaidAmount       decimal.Decimal     `json:"paid_amount"`
	Outstanding      decimal.Decimal     `json:"outstanding"`
	Status           enums.PaymentStatus `json:"status"`
	Overdue          bool                `json:"overdue"`
	DueDate          *time.Time          `json:"due_date,omitempty"`
	ConsolidatedInto *uuid.UUID          `json:"consolidated_into,omitempty"`
	Note             string              `json:"note,omitempty"`
	Items            []ItemDTO           `json:"items,omitempty"`
	Payments         []PaymentDTO        `json:"payments,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

type TransactionListResult struct {
	Transactions []TransactionDTO `json:"transactions"`
	NextCursor   string           `json:"next_cursor,omitempty"`
}

func NewTransactionDTO(t *models.Transaction, now time.Time) *TransactionDTO {
	if t == nil {
		return nil
	}
	dto := &TransactionDTO{
		ID:               t.ID,
		Code:             t.Code,
		CustomerID:       t.CustomerID,
		Tier:             t.Tier,
		VATIncluded:      t.VATIncluded,
		Subtotal:         t.Subtotal,
		Tax:              t.Tax,
		TransportFee:     t.TransportFee,
		BalanceForward:   t.BalanceForward,
		CreditApplied:    t.CreditApplied,
		Total:            t.Total,
		PaidAmount:       t.PaidAmount,
		Outstanding:      t.Outstanding(),
		Status:           t.Status,
		Overdue:          payment.IsOverdue(t.Status, t.DueDate, now),
		DueDate:          t.DueDate,
		ConsolidatedInto: t.ConsolidatedInto,
		Note:             t.Note,
		CreatedAt:        t.CreatedAt,
	}
	if t.Customer != nil {
		dto.CustomerName = t.Customer.Name
	}
	for i := range t.Items {
		item := &t.Items[i]
		dto.Items = append(dto.Items, ItemDTO{
			ID:          item.ID,
			VariantID:   item.VariantID,
			Kind:        item.Kind,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}
	for i := range t.Payments {
		p := &t.Payments[i]
		dto.Payments = append(dto.Payments, PaymentDTO{
			ID:        p.ID,
			Amount:    p.Amount,
			Method:    p.Method,
			Reference: p.Reference,
			CreatedAt: p.CreatedAt,
		})
	}
	return dto
}
