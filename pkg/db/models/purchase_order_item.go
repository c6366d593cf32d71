package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PurchaseOrderItem struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	PurchaseOrderID  uuid.UUID       `gorm:"column:purchase_order_id;type:uuid;not null"`
	VariantID        uuid.UUID       `gorm:"column:variant_id;type:uuid;not null"`
	Quantity         int             `gorm:"column:quantity;not null"`
	UnitCost         decimal.Decimal `gorm:"column:unit_cost;type:numeric(12,2);not null;default:0"`
	ReceivedQuantity int             `gorm:"column:received_quantity;not null;default:0"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
}
