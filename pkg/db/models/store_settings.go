package models

import (
	"time"

	"github.com/google/uuid"
)

// StoreSettings is a single-row table holding the store profile shown on
// receipts plus the tills defaults that override config.
type StoreSettings struct {
	ID                   uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	StoreName            string    `gorm:"column:store_name;not null;default:''"`
	Address              string    `gorm:"column:address;not null;default:''"`
	Phone                string    `gorm:"column:phone;not null;default:''"`
	TaxID                string    `gorm:"column:tax_id;not null;default:''"`
	LogoURL              string    `gorm:"column:logo_url;not null;default:''"`
	ReceiptFooter        string    `gorm:"column:receipt_footer;not null;default:''"`
	DefaultMarkupPercent int       `gorm:"column:default_markup_percent;not null;default:20"`
	LowStockThreshold    int       `gorm:"column:low_stock_threshold;not null;default:5"`
	VATIncludedDefault   bool      `gorm:"column:vat_included_default;not null;default:true"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (StoreSettings) TableName() string { return "store_settings" }
