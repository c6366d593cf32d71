package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/pagination"
)

// Service exposes catalog management operations.
type Service interface {
	CreateCategory(ctx context.Context, name string) (*CategoryDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)

	CreateVariant(ctx context.Context, productID uuid.UUID, input VariantInput) (*VariantDTO, error)
	UpdateVariant(ctx context.Context, id uuid.UUID, input UpdateVariantInput) (*VariantDTO, error)
	DeleteVariant(ctx context.Context, id uuid.UUID) error
	GetVariantByCode(ctx context.Context, code string) (*VariantDTO, error)
	AdjustStock(ctx context.Context, input AdjustStockInput) (*VariantDTO, error)
	ListVariantHistory(ctx context.Context, variantID uuid.UUID, limit int) ([]HistoryEntryDTO, error)
	ListLowStock(ctx context.Context) ([]VariantDTO, error)

	Invalidate(ctx context.Context, productIDs ...uuid.UUID) error
}

// ThresholdSource yields the current low-stock threshold. Settings back this
// in production; tests supply a constant.
type ThresholdSource interface {
	LowStockThreshold(ctx context.Context) int
}

// CreateProductInput holds the validated payload to create a product with
// its initial variants.
type CreateProductInput struct {
	Name       string
	CategoryID *uuid.UUID
	Variants   []VariantInput
}

type UpdateProductInput struct {
	Name       *string
	CategoryID *uuid.UUID
}

// VariantInput carries the full variant payload.
type VariantInput struct {
	SKU             string
	Barcode         *string
	Name            string
	Unit            string
	Stock           int
	PriceWalkIn     decimal.Decimal
	PriceContractor decimal.Decimal
	PriceGovernment decimal.Decimal
	Cost            decimal.Decimal
}

// UpdateVariantInput mutates only the provided fields. Price changes append
// a history entry.
type UpdateVariantInput struct {
	SKU             *string
	Barcode         *string
	Name            *string
	Unit            *string
	PriceWalkIn     *decimal.Decimal
	PriceContractor *decimal.Decimal
	PriceGovernment *decimal.Decimal
	Cost            *decimal.Decimal
}

type ListProductsInput struct {
	Search     string
	CategoryID *uuid.UUID
	Pagination pagination.Params
}

// AdjustStockInput is a manual stock correction or restock.
type AdjustStockInput struct {
	VariantID   uuid.UUID
	Delta       int
	Kind        enums.VariantHistoryKind
	ReferenceID *uuid.UUID
	Note        string
}

// ServiceParams collects the service dependencies.
type ServiceParams struct {
	Repo       *Repository
	DBClient   *db.Client
	Cache      cacheStore
	CacheTTL   time.Duration
	Thresholds ThresholdSource
}

type service struct {
	repo       *Repository
	dbClient   *db.Client
	cache      *productCache
	thresholds ThresholdSource
}

// NewService constructs a catalog service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if params.DBClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Thresholds == nil {
		return nil, fmt.Errorf("threshold source required")
	}
	return &service{
		repo:       params.Repo,
		dbClient:   params.DBClient,
		cache:      newProductCache(params.Cache, params.CacheTTL),
		thresholds: params.Thresholds,
	}, nil
}

func (s *service) CreateCategory(ctx context.Context, name string) (*CategoryDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	category := &models.Category{ID: uuid.New(), Name: name}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}
	return NewCategoryDTO(category), nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	out := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		out = append(out, *NewCategoryDTO(&categories[i]))
	}
	return out, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete category")
	}
	return nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	for _, v := range input.Variants {
		if err := validateVariantInput(v); err != nil {
			return nil, err
		}
	}

	productID := uuid.New()
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product := &models.Product{
			ID:         productID,
			Name:       input.Name,
			CategoryID: input.CategoryID,
		}
		if err := txRepo.CreateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		for _, v := range input.Variants {
			variant := newVariantModel(productID, v)
			if err := txRepo.CreateVariant(ctx, variant); err != nil {
				if db.IsUniqueViolation(err, "") {
					return pkgerrors.New(pkgerrors.CodeConflict, "sku already exists").WithDetails(map[string]string{"sku": v.SKU})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert variant")
			}
			if variant.Stock != 0 {
				if err := txRepo.AppendHistory(ctx, newHistoryEntry(variant.ID, enums.VariantHistoryKindRestock, variant.Stock, variant.Stock, nil, "initial stock")); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert history")
				}
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	return s.GetProduct(ctx, productID)
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	applyProductUpdate(product, input)

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	if err := s.Invalidate(ctx, id); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, id)
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return s.Invalidate(ctx, id)
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	if dto := s.cache.get(ctx, id); dto != nil {
		return dto, nil
	}

	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	dto := NewProductDTO(product, s.thresholds.LowStockThreshold(ctx))
	s.cache.set(ctx, dto)
	return dto, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(input.Pagination.Limit)

	products, err := s.repo.ListProducts(ctx, strings.TrimSpace(input.Search), input.CategoryID, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	result := &ProductListResult{Products: make([]ProductDTO, 0, len(products))}
	threshold := s.thresholds.LowStockThreshold(ctx)

	hasMore := len(products) > limit
	if hasMore {
		products = products[:limit]
	}
	for i := range products {
		result.Products = append(result.Products, *NewProductDTO(&products[i], threshold))
	}
	if hasMore {
		last := products[len(products)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

func (s *service) CreateVariant(ctx context.Context, productID uuid.UUID, input VariantInput) (*VariantDTO, error) {
	if err := validateVariantInput(input); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	variant := newVariantModel(productID, input)
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.CreateVariant(ctx, variant); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert variant")
		}
		if variant.Stock != 0 {
			if err := txRepo.AppendHistory(ctx, newHistoryEntry(variant.ID, enums.VariantHistoryKindRestock, variant.Stock, variant.Stock, nil, "initial stock")); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert history")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create variant")
	}

	if err := s.Invalidate(ctx, productID); err != nil {
		return nil, err
	}
	return NewVariantDTO(variant, s.thresholds.LowStockThreshold(ctx)), nil
}

func (s *service) UpdateVariant(ctx context.Context, id uuid.UUID, input UpdateVariantInput) (*VariantDTO, error) {
	variant, err := s.repo.FindVariant(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load variant")
	}

	priceChanged := applyVariantUpdate(variant, input)

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.UpdateVariant(ctx, variant); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update variant")
		}
		if priceChanged {
			if err := txRepo.AppendHistory(ctx, newHistoryEntry(variant.ID, enums.VariantHistoryKindPriceChange, 0, variant.Stock, nil, "price update")); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert history")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update variant")
	}

	if err := s.Invalidate(ctx, variant.ProductID); err != nil {
		return nil, err
	}
	return NewVariantDTO(variant, s.thresholds.LowStockThreshold(ctx)), nil
}

func (s *service) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	variant, err := s.repo.FindVariant(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load variant")
	}
	if err := s.repo.DeleteVariant(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete variant")
	}
	return s.Invalidate(ctx, variant.ProductID)
}

func (s *service) GetVariantByCode(ctx context.Context, code string) (*VariantDTO, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	variant, err := s.repo.FindVariantByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find variant by code")
	}
	return NewVariantDTO(variant, s.thresholds.LowStockThreshold(ctx)), nil
}

// AdjustStock applies a manual delta with its audit entry in one transaction.
// A delta that would take stock negative comes back as a state conflict.
func (s *service) AdjustStock(ctx context.Context, input AdjustStockInput) (*VariantDTO, error) {
	if input.Delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta cannot be zero")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid history kind")
	}

	var updated *models.ProductVariant
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		variant, err := txRepo.AdjustStock(ctx, input.VariantID, input.Delta)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock or variant missing")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: adjust stock")
		}
		if err := txRepo.AppendHistory(ctx, newHistoryEntry(variant.ID, input.Kind, input.Delta, variant.Stock, input.ReferenceID, input.Note)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert history")
		}
		updated = variant
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust stock")
	}

	if err := s.Invalidate(ctx, updated.ProductID); err != nil {
		return nil, err
	}
	return NewVariantDTO(updated, s.thresholds.LowStockThreshold(ctx)), nil
}

func (s *service) ListVariantHistory(ctx context.Context, variantID uuid.UUID, limit int) ([]HistoryEntryDTO, error) {
	entries, err := s.repo.ListHistory(ctx, variantID, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list history")
	}
	out := make([]HistoryEntryDTO, 0, len(entries))
	for i := range entries {
		out = append(out, *NewHistoryEntryDTO(&entries[i]))
	}
	return out, nil
}

func (s *service) ListLowStock(ctx context.Context) ([]VariantDTO, error) {
	threshold := s.thresholds.LowStockThreshold(ctx)
	variants, err := s.repo.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list low stock")
	}
	out := make([]VariantDTO, 0, len(variants))
	for i := range variants {
		out = append(out, *NewVariantDTO(&variants[i], threshold))
	}
	return out, nil
}

// Invalidate drops cached product payloads.
func (s *service) Invalidate(ctx context.Context, productIDs ...uuid.UUID) error {
	if err := s.cache.invalidate(ctx, productIDs...); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache: invalidate product")
	}
	return nil
}

func validateVariantInput(input VariantInput) error {
	if strings.TrimSpace(input.SKU) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "variant name is required")
	}
	if input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	for _, price := range []decimal.Decimal{input.PriceWalkIn, input.PriceContractor, input.PriceGovernment, input.Cost} {
		if price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "prices cannot be negative")
		}
	}
	return nil
}

func newVariantModel(productID uuid.UUID, input VariantInput) *models.ProductVariant {
	return &models.ProductVariant{
		ID:              uuid.New(),
		ProductID:       productID,
		SKU:             strings.TrimSpace(input.SKU),
		Barcode:         input.Barcode,
		Name:            strings.TrimSpace(input.Name),
		Unit:            strings.TrimSpace(input.Unit),
		Stock:           input.Stock,
		PriceWalkIn:     input.PriceWalkIn,
		PriceContractor: input.PriceContractor,
		PriceGovernment: input.PriceGovernment,
		Cost:            input.Cost,
	}
}

func newHistoryEntry(variantID uuid.UUID, kind enums.VariantHistoryKind, delta, stockAfter int, referenceID *uuid.UUID, note string) *models.VariantHistory {
	return &models.VariantHistory{
		ID:            uuid.New(),
		VariantID:     variantID,
		Kind:          kind,
		QuantityDelta: delta,
		StockAfter:    stockAfter,
		ReferenceID:   referenceID,
		Note:          note,
	}
}

func applyProductUpdate(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
}

// applyVariantUpdate mutates the variant in place and reports whether any
// price field changed.
func applyVariantUpdate(variant *models.ProductVariant, input UpdateVariantInput) bool {
	if input.SKU != nil {
		variant.SKU = strings.TrimSpace(*input.SKU)
	}
	if input.Barcode != nil {
		variant.Barcode = input.Barcode
	}
	if input.Name != nil {
		variant.Name = strings.TrimSpace(*input.Name)
	}
	if input.Unit != nil {
		variant.Unit = strings.TrimSpace(*input.Unit)
	}

	priceChanged := false
	if input.PriceWalkIn != nil && !variant.PriceWalkIn.Equal(*input.PriceWalkIn) {
		variant.PriceWalkIn = *input.PriceWalkIn
		priceChanged = true
	}
	if input.PriceContractor != nil && !variant.PriceContractor.Equal(*input.PriceContractor) {
		variant.PriceContractor = *input.PriceContractor
		priceChanged = true
	}
	if input.PriceGovernment != nil && !variant.PriceGovernment.Equal(*input.PriceGovernment) {
		variant.PriceGovernment = *input.PriceGovernment
		priceChanged = true
	}
	if input.Cost != nil && !variant.Cost.Equal(*input.Cost) {
		variant.Cost = *input.Cost
		priceChanged = true
	}
	return priceChanged
}
