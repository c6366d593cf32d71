package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/pagination"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, order *models.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *Repository) Save(ctx context.Context, order *models.PurchaseOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *Repository) SaveItem(ctx context.Context, item *models.PurchaseOrderItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.PurchaseOrder{}, "id = ?", id).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Supplier").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

type ListFilter struct {
	SupplierID *uuid.UUID
	Status     string
}

func (r *Repository) List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.PurchaseOrder, error) {
	q := r.db.WithContext(ctx).Model(&models.PurchaseOrder{}).Preload("Supplier")
	if filter.SupplierID != nil {
		q = q.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	var ordersList []models.PurchaseOrder
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&ordersList).Error; err != nil {
		return nil, err
	}
	return ordersList, nil
}

// RestockVariant adds received quantity back onto the shelf.
func (r *Repository) RestockVariant(ctx context.Context, variantID uuid.UUID, qty int) (*models.ProductVariant, error) {
	result := r.db.WithContext(ctx).Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var variant models.ProductVariant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", variantID).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *Repository) AppendHistory(ctx context.Context, entry *models.VariantHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *Repository) CountByCodePrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PurchaseOrder{}).
		Unscoped().
		Where("code LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}
