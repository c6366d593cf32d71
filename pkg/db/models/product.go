package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product groups sellable variants under one listing, e.g. "PVC pipe" with
// variants per diameter.
type Product struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Name       string           `gorm:"column:name;not null"`
	CategoryID *uuid.UUID       `gorm:"column:category_id;type:uuid"`
	Category   *Category        `gorm:"foreignKey:CategoryID"`
	Variants   []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt  gorm.DeletedAt   `gorm:"column:deleted_at;index"`
}
