package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pattarapol-dev/srisawat-pos-backend/api/responses"
	"github.com/pattarapol-dev/srisawat-pos-backend/api/validators"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/storecredit"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/logger"
)

type grantCreditRequest struct {
	CustomerID          uuid.UUID  `json:"customer_id" validate:"required"`
	Amount              string     `json:"amount" validate:"required"`
	SourceTransactionID *uuid.UUID `json:"source_transaction_id,omitempty"`
	Note                string     `json:"note,omitempty"`
}

// GrantCredit issues a manual store credit outside the return flow, e.g.
// a goodwill adjustment.
func GrantCredit(svc storecredit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req grantCreditRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		amount, err := parseDecimal(req.Amount, "amount")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Grant(r.Context(), storecredit.GrantInput{
			CustomerID:          req.CustomerID,
			Amount:              amount,
			SourceTransactionID: req.SourceTransactionID,
			Note:                req.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func GetCredit(svc storecredit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "creditID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
