package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
)

// Bill is a supplier invoice we owe. Only due/paid are stored; overdue is
// derived from the due date when reading.
type Bill struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	SupplierID uuid.UUID        `gorm:"column:supplier_id;type:uuid;not null"`
	Supplier   *Supplier        `gorm:"foreignKey:SupplierID"`
	Code       string           `gorm:"column:code;not null;default:''"`
	Amount     decimal.Decimal  `gorm:"column:amount;type:numeric(14,2);not null;default:0"`
	PaidAmount decimal.Decimal  `gorm:"column:paid_amount;type:numeric(14,2);not null;default:0"`
	Status     enums.BillStatus `gorm:"column:status;not null;default:'due'"`
	DueDate    *time.Time       `gorm:"column:due_date;type:date"`
	Note       string           `gorm:"column:note;not null;default:''"`
	Payments   []BillPayment    `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt  gorm.DeletedAt   `gorm:"column:deleted_at;index"`
}

func (b Bill) Outstanding() decimal.Decimal {
	return b.Amount.Sub(b.PaidAmount)
}
