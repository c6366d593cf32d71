package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
)

// Customer carries the pricing tier. Walk-in sales can skip the customer
// record entirely; credit sales always need one.
type Customer struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Name      string             `gorm:"column:name;not null"`
	Phone     string             `gorm:"column:phone;not null;default:''"`
	Address   string             `gorm:"column:address;not null;default:''"`
	TaxID     string             `gorm:"column:tax_id;not null;default:''"`
	Tier      enums.CustomerTier `gorm:"column:tier;not null;default:'walk_in'"`
	Note      string             `gorm:"column:note;not null;default:''"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt     `gorm:"column:deleted_at;index"`
}
