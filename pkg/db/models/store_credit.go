package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoreCredit is money the store owes a customer, usually from a return.
// The credit id doubles as the redeemable code and is consumed whole,
// at most once.
type StoreCredit struct {
	ID                  uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID          uuid.UUID       `gorm:"column:customer_id;type:uuid;not null"`
	Amount              decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	IsUsed              bool            `gorm:"column:is_used;not null;default:false"`
	UsedAt              *time.Time      `gorm:"column:used_at"`
	UsedTransactionID   *uuid.UUID      `gorm:"column:used_transaction_id;type:uuid"`
	SourceTransactionID *uuid.UUID      `gorm:"column:source_transaction_id;type:uuid"`
	Note                string          `gorm:"column:note;not null;default:''"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
