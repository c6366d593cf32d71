package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
)

// TransactionItem snapshots one cart line. VariantID is nil for outsourced,
// misc, and balance-forward lines. Return rows carry a negative quantity and
// point at the row they reverse through ReturnedItemID.
type TransactionItem struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	TransactionID  uuid.UUID       `gorm:"column:transaction_id;type:uuid;not null"`
	VariantID      *uuid.UUID      `gorm:"column:variant_id;type:uuid"`
	ReturnedItemID *uuid.UUID      `gorm:"column:returned_item_id;type:uuid"`
	Kind           enums.ItemKind  `gorm:"column:kind;not null;default:'catalog'"`
	Description    string          `gorm:"column:description;not null;default:''"`
	Quantity       int             `gorm:"column:quantity;not null;default:1"`
	UnitPrice      decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null;default:0"`
	UnitCost       decimal.Decimal `gorm:"column:unit_cost;type:numeric(12,2);not null;default:0"`
	LineTotal      decimal.Decimal `gorm:"column:line_total;type:numeric(14,2);not null;default:0"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}
