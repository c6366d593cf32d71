package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
)

type BillPayment struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	BillID    uuid.UUID           `gorm:"column:bill_id;type:uuid;not null"`
	Amount    decimal.Decimal     `gorm:"column:amount;type:numeric(14,2);not null"`
	Method    enums.PaymentMethod `gorm:"column:method;not null;default:'cash'"`
	Reference string              `gorm:"column:reference;not null;default:''"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}
