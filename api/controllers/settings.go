package controllers

import (
	"io"
	"net/http"

	"github.com/pattarapol-dev/srisawat-pos-backend/api/responses"
	"github.com/pattarapol-dev/srisawat-pos-backend/api/validators"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/settings"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/logger"
)

// Logo uploads are capped well above any realistic receipt-header image.
const maxLogoBytes = 2 << 20

func GetSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dto, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

type updateSettingsRequest struct {
	StoreName            *string `json:"store_name,omitempty" validate:"omitempty,min=1"`
	Address              *string `json:"address,omitempty"`
	Phone                *string `json:"phone,omitempty"`
	TaxID                *string `json:"tax_id,omitempty"`
	ReceiptFooter        *string `json:"receipt_footer,omitempty"`
	DefaultMarkupPercent *int    `json:"default_markup_percent,omitempty" validate:"omitempty,min=0,max=500"`
	LowStockThreshold    *int    `json:"low_stock_threshold,omitempty" validate:"omitempty,min=0"`
	VATIncludedDefault   *bool   `json:"vat_included_default,omitempty"`
}

func UpdateSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateSettingsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Update(r.Context(), settings.UpdateSettingsInput{
			StoreName:            req.StoreName,
			Address:              req.Address,
			Phone:                req.Phone,
			TaxID:                req.TaxID,
			ReceiptFooter:        req.ReceiptFooter,
			DefaultMarkupPercent: req.DefaultMarkupPercent,
			LowStockThreshold:    req.LowStockThreshold,
			VATIncludedDefault:   req.VATIncludedDefault,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// UploadLogo accepts a multipart form with a single "logo" file field.
func UploadLogo(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxLogoBytes); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}
		file, header, err := r.FormFile("logo")
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "missing logo file"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxLogoBytes+1))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading logo upload"))
			return
		}
		if len(data) > maxLogoBytes {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "logo file too large"))
			return
		}

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}

		dto, err := svc.UploadLogo(r.Context(), header.Filename, contentType, data)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
