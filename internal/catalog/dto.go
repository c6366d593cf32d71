package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
)

type CategoryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// VariantDTO is the variant payload returned to clients. Status is derived
// from stock against the low-stock threshold at read time.
type VariantDTO struct {
	ID              uuid.UUID           `json:"id"`
	ProductID       uuid.UUID           `json:"product_id"`
	SKU             string              `json:"sku"`
	Barcode         *string             `json:"barcode,omitempty"`
	Name            string              `json:"name"`
	Unit            string              `json:"unit"`
	Stock           int                 `json:"stock"`
	Status          enums.VariantStatus `json:"status"`
	PriceWalkIn     decimal.Decimal     `json:"price_walk_in"`
	PriceContractor decimal.Decimal     `json:"price_contractor"`
	PriceGovernment decimal.Decimal     `json:"price_government"`
	Cost            decimal.Decimal     `json:"cost"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type ProductDTO struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Category  *CategoryDTO `json:"category,omitempty"`
	Variants  []VariantDTO `json:"variants"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

type HistoryEntryDTO struct {
	ID            uuid.UUID                `json:"id"`
	Kind          enums.VariantHistoryKind `json:"kind"`
	QuantityDelta int                      `json:"quantity_delta"`
	StockAfter    int                      `json:"stock_after"`
	ReferenceID   *uuid.UUID               `json:"reference_id,omitempty"`
	Note          string                   `json:"note,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
}

func NewCategoryDTO(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{ID: c.ID, Name: c.Name}
}

func NewVariantDTO(v *models.ProductVariant, lowStockThreshold int) *VariantDTO {
	if v == nil {
		return nil
	}
	return &VariantDTO{
		ID:              v.ID,
		ProductID:       v.ProductID,
		SKU:             v.SKU,
		Barcode:         v.Barcode,
		Name:            v.Name,
		Unit:            v.Unit,
		Stock:           v.Stock,
		Status:          enums.DeriveVariantStatus(v.Stock, lowStockThreshold),
		PriceWalkIn:     v.PriceWalkIn,
		PriceContractor: v.PriceContractor,
		PriceGovernment: v.PriceGovernment,
		Cost:            v.Cost,
		UpdatedAt:       v.UpdatedAt,
	}
}

func NewProductDTO(p *models.Product, lowStockThreshold int) *ProductDTO {
	if p == nil {
		return nil
	}
	variants := make([]VariantDTO, 0, len(p.Variants))
	for i := range p.Variants {
		variants = append(variants, *NewVariantDTO(&p.Variants[i], lowStockThreshold))
	}
	return &ProductDTO{
		ID:        p.ID,
		Name:      p.Name,
		Category:  NewCategoryDTO(p.Category),
		Variants:  variants,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func NewHistoryEntryDTO(h *models.VariantHistory) *HistoryEntryDTO {
	if h == nil {
		return nil
	}
	return &HistoryEntryDTO{
		ID:            h.ID,
		Kind:          h.Kind,
		QuantityDelta: h.QuantityDelta,
		StockAfter:    h.StockAfter,
		ReferenceID:   h.ReferenceID,
		Note:          h.Note,
		CreatedAt:     h.CreatedAt,
	}
}
