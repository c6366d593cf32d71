package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShiftReport brackets a cashier's till session.
type ShiftReport struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	UserID        uuid.UUID        `gorm:"column:user_id;type:uuid;not null"`
	OpenedAt      time.Time        `gorm:"column:opened_at;not null"`
	ClosedAt      *time.Time       `gorm:"column:closed_at"`
	OpeningCash   decimal.Decimal  `gorm:"column:opening_cash;type:numeric(14,2);not null;default:0"`
	ClosingCash   *decimal.Decimal `gorm:"column:closing_cash;type:numeric(14,2)"`
	CashSales     decimal.Decimal  `gorm:"column:cash_sales;type:numeric(14,2);not null;default:0"`
	TransferSales decimal.Decimal  `gorm:"column:transfer_sales;type:numeric(14,2);not null;default:0"`
	Note          string           `gorm:"column:note;not null;default:''"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
