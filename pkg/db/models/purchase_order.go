package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
)

type PurchaseOrder struct {
	ID           uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	SupplierID   uuid.UUID                 `gorm:"column:supplier_id;type:uuid;not null"`
	Supplier     *Supplier                 `gorm:"foreignKey:SupplierID"`
	Code         string                    `gorm:"column:code;not null;default:''"`
	Status       enums.PurchaseOrderStatus `gorm:"column:status;not null;default:'draft'"`
	ExpectedDate *time.Time                `gorm:"column:expected_date;type:date"`
	Note         string                    `gorm:"column:note;not null;default:''"`
	Items        []PurchaseOrderItem       `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt    gorm.DeletedAt            `gorm:"column:deleted_at;index"`
}
