package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
)

// Transaction is one sale invoice. Totals are frozen at checkout; only
// paid_amount and status move afterwards. ConsolidatedInto points at the
// successor invoice when this one was rolled up.
type Transaction struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Code             string              `gorm:"column:code;not null"`
	CustomerID       *uuid.UUID          `gorm:"column:customer_id;type:uuid"`
	Customer         *Customer           `gorm:"foreignKey:CustomerID"`
	CashierID        *uuid.UUID          `gorm:"column:cashier_id;type:uuid"`
	Tier             enums.CustomerTier  `gorm:"column:tier;not null;default:'walk_in'"`
	VATIncluded      bool                `gorm:"column:vat_included;not null;default:true"`
	Subtotal         decimal.Decimal     `gorm:"column:subtotal;type:numeric(14,2);not null;default:0"`
	Tax              decimal.Decimal     `gorm:"column:tax;type:numeric(14,2);not null;default:0"`
	TransportFee     decimal.Decimal     `gorm:"column:transport_fee;type:numeric(14,2);not null;default:0"`
	BalanceForward   decimal.Decimal     `gorm:"column:balance_forward;type:numeric(14,2);not null;default:0"`
	CreditApplied    decimal.Decimal     `gorm:"column:credit_applied;type:numeric(14,2);not null;default:0"`
	Total            decimal.Decimal     `gorm:"column:total;type:numeric(14,2);not null;default:0"`
	PaidAmount       decimal.Decimal     `gorm:"column:paid_amount;type:numeric(14,2);not null;default:0"`
	Status           enums.PaymentStatus `gorm:"column:status;not null;default:'unpaid'"`
	DueDate          *time.Time          `gorm:"column:due_date;type:date"`
	ConsolidatedInto *uuid.UUID          `gorm:"column:consolidated_into;type:uuid"`
	Note             string              `gorm:"column:note;not null;default:''"`
	Items            []TransactionItem   `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	Payments         []PaymentRecord     `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt        gorm.DeletedAt      `gorm:"column:deleted_at;index"`
}

// Outstanding is the unpaid remainder.
func (t Transaction) Outstanding() decimal.Decimal {
	return t.Total.Sub(t.PaidAmount)
}
