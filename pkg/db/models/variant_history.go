package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
)

// VariantHistory is the append-only audit trail of stock and price movements.
type VariantHistory struct {
	ID            uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	VariantID     uuid.UUID                `gorm:"column:variant_id;type:uuid;not null"`
	Kind          enums.VariantHistoryKind `gorm:"column:kind;not null"`
	QuantityDelta int                      `gorm:"column:quantity_delta;not null"`
	StockAfter    int                      `gorm:"column:stock_after;not null"`
	ReferenceID   *uuid.UUID               `gorm:"column:reference_id;type:uuid"`
	Note          string                   `gorm:"column:note;not null;default:''"`
	CreatedAt     time.Time                `gorm:"column:created_at;autoCreateTime"`
}

func (VariantHistory) TableName() string { return "variant_history" }
