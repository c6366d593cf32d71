package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/pagination"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}

func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Variants").Delete(&models.Product{ID: id}).Error
}

// FindProduct loads the product with its variants and category.
func (r *Repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("Category").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts pages products newest-first, optionally filtered by a name or
// SKU search term and category.
func (r *Repository) ListProducts(ctx context.Context, search string, categoryID *uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	q := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("Category").
		Order("created_at DESC, id DESC").
		Limit(limit)

	if search != "" {
		like := "%" + search + "%"
		q = q.Where(
			"name ILIKE ? OR id IN (SELECT product_id FROM product_variants WHERE deleted_at IS NULL AND (sku ILIKE ? OR name ILIKE ? OR barcode ILIKE ?))",
			like, like, like, like,
		)
	}
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Repository) CreateVariant(ctx context.Context, variant *models.ProductVariant) error {
	return r.db.WithContext(ctx).Create(variant).Error
}

func (r *Repository) UpdateVariant(ctx context.Context, variant *models.ProductVariant) error {
	return r.db.WithContext(ctx).Save(variant).Error
}

func (r *Repository) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ProductVariant{}, "id = ?", id).Error
}

func (r *Repository) FindVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// FindVariantByCode resolves a scanned or typed code against SKU first,
// then barcode.
func (r *Repository) FindVariantByCode(ctx context.Context, code string) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("sku = ?", code).
		Or("barcode = ?", code).
		First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// AdjustStock applies a guarded stock delta. Returns gorm.ErrRecordNotFound
// when the guard fails (negative result) or the variant is missing.
func (r *Repository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*models.ProductVariant, error) {
	res := r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindVariant(ctx, id)
}

func (r *Repository) AppendHistory(ctx context.Context, entry *models.VariantHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *Repository) ListHistory(ctx context.Context, variantID uuid.UUID, limit int) ([]models.VariantHistory, error) {
	var entries []models.VariantHistory
	err := r.db.WithContext(ctx).
		Where("variant_id = ?", variantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListLowStock returns variants at or below the threshold, lowest first.
func (r *Repository) ListLowStock(ctx context.Context, threshold int) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("stock < ?", threshold).
		Order("stock ASC, name ASC").
		Find(&variants).Error
	if err != nil {
		return nil, err
	}
	return variants, nil
}
