package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pattarapol-dev/srisawat-pos-backend/api/responses"
	"github.com/pattarapol-dev/srisawat-pos-backend/api/validators"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/documents"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/logger"
)

// RenderDocument serves the printable HTML for an invoice. The document
// kind comes from the URL, e.g. /transactions/{id}/documents/receipt.
func RenderDocument(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "transactionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		kind := documents.Kind(chi.URLParam(r, "kind"))
		html, err := svc.Render(r.Context(), kind, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteHTML(w, html)
	}
}
