package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/pricing"
)

// ProductVariant is the sellable unit. Stock and all three tier prices live
// here; availability status is derived from stock at read time, never stored.
type ProductVariant struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ProductID       uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	SKU             string          `gorm:"column:sku;not null"`
	Barcode         *string         `gorm:"column:barcode"`
	Name            string          `gorm:"column:name;not null"`
	Unit            string          `gorm:"column:unit;not null;default:''"`
	Stock           int             `gorm:"column:stock;not null;default:0"`
	PriceWalkIn     decimal.Decimal `gorm:"column:price_walk_in;type:numeric(12,2);not null;default:0"`
	PriceContractor decimal.Decimal `gorm:"column:price_contractor;type:numeric(12,2);not null;default:0"`
	PriceGovernment decimal.Decimal `gorm:"column:price_government;type:numeric(12,2);not null;default:0"`
	Cost            decimal.Decimal `gorm:"column:cost;type:numeric(12,2);not null;default:0"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt       gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

// Prices bundles the tier prices for the pricing engine.
func (v ProductVariant) Prices() pricing.PriceBlock {
	return pricing.PriceBlock{
		WalkIn:     v.PriceWalkIn,
		Contractor: v.PriceContractor,
		Government: v.PriceGovernment,
		Cost:       v.Cost,
	}
}
