package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pattarapol-dev/srisawat-pos-backend/api/responses"
	"github.com/pattarapol-dev/srisawat-pos-backend/api/validators"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/catalog"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/logger"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/pagination"
)

type createCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

func CreateCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCategoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.CreateCategory(r.Context(), req.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func ListCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dtos, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dtos)
	}
}

func DeleteCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "categoryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteCategory(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

type variantRequest struct {
	SKU             string  `json:"sku" validate:"required,min=1"`
	Barcode         *string `json:"barcode,omitempty"`
	Name            string  `json:"name" validate:"required,min=1"`
	Unit            string  `json:"unit" validate:"required,min=1"`
	Stock           int     `json:"stock" validate:"min=0"`
	PriceWalkIn     string  `json:"price_walk_in" validate:"required"`
	PriceContractor string  `json:"price_contractor" validate:"required"`
	PriceGovernment string  `json:"price_government" validate:"required"`
	Cost            string  `json:"cost" validate:"required"`
}

func (v variantRequest) toInput() (catalog.VariantInput, error) {
	prices := make([]decimal.Decimal, 0, 4)
	for _, raw := range []string{v.PriceWalkIn, v.PriceContractor, v.PriceGovernment, v.Cost} {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return catalog.VariantInput{}, pkgerrors.New(pkgerrors.CodeValidation, "prices must be decimal strings")
		}
		prices = append(prices, d)
	}
	return catalog.VariantInput{
		SKU:             v.SKU,
		Barcode:         v.Barcode,
		Name:            v.Name,
		Unit:            v.Unit,
		Stock:           v.Stock,
		PriceWalkIn:     prices[0],
		PriceContractor: prices[1],
		PriceGovernment: prices[2],
		Cost:            prices[3],
	}, nil
}

type createProductRequest struct {
	Name       string           `json:"name" validate:"required,min=1"`
	CategoryID *uuid.UUID       `json:"category_id,omitempty"`
	Variants   []variantRequest `json:"variants" validate:"required,min=1,dive"`
}

func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.CreateProductInput{Name: req.Name, CategoryID: req.CategoryID}
		for _, variant := range req.Variants {
			vi, err := variant.toInput()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Variants = append(input.Variants, vi)
		}

		dto, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

type updateProductRequest struct {
	Name       *string    `json:"name,omitempty" validate:"omitempty,min=1"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
}

func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.UpdateProduct(r.Context(), id, catalog.UpdateProductInput{
			Name:       req.Name,
			CategoryID: req.CategoryID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := validators.ParseQueryUUID(r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), catalog.ListProductsInput{
			Search:     strings.TrimSpace(r.URL.Query().Get("search")),
			CategoryID: categoryID,
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: r.URL.Query().Get("cursor"),
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func CreateVariant(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.URLParamUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req variantRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.CreateVariant(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

type updateVariantRequest struct {
	SKU             *string `json:"sku,omitempty" validate:"omitempty,min=1"`
	Barcode         *string `json:"barcode,omitempty"`
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Unit            *string `json:"unit,omitempty" validate:"omitempty,min=1"`
	PriceWalkIn     *string `json:"price_walk_in,omitempty"`
	PriceContractor *string `json:"price_contractor,omitempty"`
	PriceGovernment *string `json:"price_government,omitempty"`
	Cost            *string `json:"cost,omitempty"`
}

func (v updateVariantRequest) toInput() (catalog.UpdateVariantInput, error) {
	input := catalog.UpdateVariantInput{
		SKU:     v.SKU,
		Barcode: v.Barcode,
		Name:    v.Name,
		Unit:    v.Unit,
	}
	parse := func(raw *string) (*decimal.Decimal, error) {
		if raw == nil {
			return nil, nil
		}
		d, err := decimal.NewFromString(*raw)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices must be decimal strings")
		}
		return &d, nil
	}
	var err error
	if input.PriceWalkIn, err = parse(v.PriceWalkIn); err != nil {
		return input, err
	}
	if input.PriceContractor, err = parse(v.PriceContractor); err != nil {
		return input, err
	}
	if input.PriceGovernment, err = parse(v.PriceGovernment); err != nil {
		return input, err
	}
	if input.Cost, err = parse(v.Cost); err != nil {
		return input, err
	}
	return input, nil
}

func UpdateVariant(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "variantID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateVariantRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.UpdateVariant(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func DeleteVariant(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "variantID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteVariant(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// LookupVariant resolves a till scan: SKU first, then barcode.
func LookupVariant(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimSpace(r.URL.Query().Get("code"))
		if code == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "code is required"))
			return
		}
		dto, err := svc.GetVariantByCode(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

type adjustStockRequest struct {
	Delta int    `json:"delta" validate:"required"`
	Note  string `json:"note,omitempty"`
}

func AdjustStock(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "variantID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req adjustStockRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.AdjustStock(r.Context(), catalog.AdjustStockInput{
			VariantID: id,
			Delta:     req.Delta,
			Kind:      enums.VariantHistoryKindStockChange,
			Note:      req.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func VariantHistory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "variantID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entries, err := svc.ListVariantHistory(r.Context(), id, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

func ListLowStock(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dtos, err := svc.ListLowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dtos)
	}
}
