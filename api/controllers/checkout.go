package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pattarapol-dev/srisawat-pos-backend/api/responses"
	"github.com/pattarapol-dev/srisawat-pos-backend/api/validators"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/auth"
	"github.com/pattarapol-dev/srisawat-pos-backend/internal/checkout"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/logger"
)

type cartLineRequest struct {
	Kind          string     `json:"kind" validate:"required,oneof=catalog outsourced misc"`
	VariantID     *uuid.UUID `json:"variant_id,omitempty"`
	Code          string     `json:"code,omitempty"`
	Quantity      int        `json:"quantity" validate:"required,min=1"`
	Description   string     `json:"description,omitempty"`
	Cost          string     `json:"cost,omitempty"`
	MarkupPercent *string    `json:"markup_percent,omitempty"`
	UnitPrice     string     `json:"unit_price,omitempty"`
}

type cartPaymentRequest struct {
	Amount    string `json:"amount" validate:"required"`
	Method    string `json:"method" validate:"required,oneof=cash transfer cheque credit"`
	Reference string `json:"reference,omitempty"`
}

type cartRequest struct {
	CustomerID     *uuid.UUID          `json:"customer_id,omitempty"`
	Tier           string              `json:"tier" validate:"required,oneof=walk_in contractor government"`
	VATIncluded    bool                `json:"vat_included"`
	TransportFee   string              `json:"transport_fee,omitempty"`
	BalanceForward string              `json:"balance_forward,omitempty"`
	CreditID       *uuid.UUID          `json:"credit_id,omitempty"`
	DueDate        *time.Time          `json:"due_date,omitempty"`
	Note           string              `json:"note,omitempty"`
	Lines          []cartLineRequest   `json:"lines" validate:"dive"`
	InitialPayment *cartPaymentRequest `json:"initial_payment,omitempty"`
}

func parseDecimal(raw, field string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "amount must be a decimal string").WithDetails(map[string]any{"field": field})
	}
	return d, nil
}

func (c cartRequest) toInput(cashierID *uuid.UUID) (checkout.CartInput, error) {
	input := checkout.CartInput{
		CustomerID:  c.CustomerID,
		Tier:        enums.CustomerTier(c.Tier),
		VATIncluded: c.VATIncluded,
		CreditID:    c.CreditID,
		DueDate:     c.DueDate,
		CashierID:   cashierID,
		Note:        c.Note,
	}

	var err error
	if input.TransportFee, err = parseDecimal(c.TransportFee, "transport_fee"); err != nil {
		return input, err
	}
	if input.BalanceForward, err = parseDecimal(c.BalanceForward, "balance_forward"); err != nil {
		return input, err
	}

	for _, line := range c.Lines {
		li := checkout.LineInput{
			Kind:        enums.ItemKind(line.Kind),
			VariantID:   line.VariantID,
			Code:        line.Code,
			Quantity:    line.Quantity,
			Description: line.Description,
		}
		if li.Cost, err = parseDecimal(line.Cost, "cost"); err != nil {
			return input, err
		}
		if li.UnitPrice, err = parseDecimal(line.UnitPrice, "unit_price"); err != nil {
			return input, err
		}
		if line.MarkupPercent != nil {
			markup, err := parseDecimal(*line.MarkupPercent, "markup_percent")
			if err != nil {
				return input, err
			}
			li.MarkupPercent = &markup
		}
		input.Lines = append(input.Lines, li)
	}

	if c.InitialPayment != nil {
		amount, err := parseDecimal(c.InitialPayment.Amount, "amount")
		if err != nil {
			return input, err
		}
		input.InitialPayment = &checkout.PaymentInput{
			Amount:    amount,
			Method:    enums.PaymentMethod(c.InitialPayment.Method),
			Reference: c.InitialPayment.Reference,
		}
	}
	return input, nil
}

// QuoteCart prices the cart without committing anything.
func QuoteCart(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cartRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput(nil)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Quote(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CommitCart finalizes the sale.
func CommitCart(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cartRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var cashierID *uuid.UUID
		if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
			id := claims.UserID
			cashierID = &id
		}

		input, err := req.toInput(cashierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Commit(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
