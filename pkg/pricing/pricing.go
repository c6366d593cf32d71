// Package pricing holds the tills arithmetic: tier price selection, VAT
// handling, transport fees, carried-forward balances, and store credit.
// Everything here is pure; persistence and stock live in the services.
package pricing

import (
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// TaxRatePercent is the single VAT rate the store charges. There is no
// jurisdiction variation.
const TaxRatePercent = 7

var (
	vatRate    = decimal.New(TaxRatePercent, -2) // 0.07
	vatDivisor = decimal.New(100+TaxRatePercent, -2)
)

// PriceBlock is the per-variant price snapshot keyed by customer tier.
// Government prices are VAT-inclusive by policy; the others are exclusive.
type PriceBlock struct {
	WalkIn     decimal.Decimal `json:"walk_in"`
	Contractor decimal.Decimal `json:"contractor"`
	Government decimal.Decimal `json:"government"`
	Cost       decimal.Decimal `json:"cost"`
}

// ForTier selects the unit price for the given tier.
func (p PriceBlock) ForTier(tier enums.CustomerTier) decimal.Decimal {
	switch tier {
	case enums.CustomerTierContractor:
		return p.Contractor
	case enums.CustomerTierGovernment:
		return p.Government
	default:
		return p.WalkIn
	}
}

// Uniform builds a price block that collapses all tiers to a single price,
// used for outsourced and miscellaneous lines.
func Uniform(price, cost decimal.Decimal) PriceBlock {
	return PriceBlock{WalkIn: price, Contractor: price, Government: price, Cost: cost}
}

// LineItem is one cart line as the calculator sees it.
type LineItem struct {
	Prices PriceBlock
	Qty    int
}

// QuoteInput collects everything that influences the payable total.
type QuoteInput struct {
	Items []LineItem
	Tier  enums.CustomerTier
	// VATIncluded toggles the 7% charge for walk-in/contractor sales.
	// Forced on (and ignored) for government sales.
	VATIncluded bool
	// TransportFee and BalanceForward are added to the total after tax and
	// are themselves untaxed.
	TransportFee   decimal.Decimal
	BalanceForward decimal.Decimal
	// Credit is a store-credit amount to apply. Zero means none. A credit
	// larger than the pre-credit total is rejected, so the total can never
	// go negative.
	Credit decimal.Decimal
}

// Quote is the computed money breakdown for a cart.
type Quote struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	CreditApplied decimal.Decimal `json:"credit_applied"`
	VATIncluded   bool            `json:"vat_included"`
}

// Compute derives subtotal, tax, and total for the cart.
//
// Government tier: listed prices already include VAT, so the total is the
// plain sum and the subtotal is back-derived by dividing out the rate.
// Walk-in/contractor: subtotal is the sum and tax is added on top when the
// VAT toggle is on. An empty cart with a carried-forward balance is a
// valid payable.
func Compute(input QuoteInput) (Quote, error) {
	if !input.Tier.IsValid() {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid customer tier")
	}
	if input.TransportFee.IsNegative() {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "transport fee cannot be negative")
	}
	if input.BalanceForward.IsNegative() {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "balance forward cannot be negative")
	}
	if input.Credit.IsNegative() {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "credit cannot be negative")
	}

	sum := decimal.Zero
	for _, item := range input.Items {
		if item.Qty <= 0 {
			return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		unit := item.Prices.ForTier(input.Tier)
		if unit.IsNegative() {
			return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
		}
		sum = sum.Add(unit.Mul(decimal.NewFromInt(int64(item.Qty))))
	}

	var quote Quote
	if input.Tier == enums.CustomerTierGovernment {
		total := sum
		subtotal := total.DivRound(vatDivisor, 2)
		quote = Quote{
			Subtotal:    subtotal,
			Tax:         total.Sub(subtotal),
			Total:       total,
			VATIncluded: true,
		}
	} else {
		tax := decimal.Zero
		if input.VATIncluded {
			tax = sum.Mul(vatRate).Round(2)
		}
		quote = Quote{
			Subtotal:    sum,
			Tax:         tax,
			Total:       sum.Add(tax),
			VATIncluded: input.VATIncluded,
		}
	}

	quote.Total = quote.Total.Add(input.TransportFee).Add(input.BalanceForward)

	if input.Credit.IsPositive() {
		if quote.Total.LessThan(input.Credit) {
			return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "store credit exceeds order total")
		}
		quote.Total = quote.Total.Sub(input.Credit)
		quote.CreditApplied = input.Credit
	}

	return quote, nil
}

// OutsourcedPrice computes the selling price for an item bought from a
// third party at sale time: cost marked up by markupPercent, rounded up to
// the next whole currency unit.
func OutsourcedPrice(cost, markupPercent decimal.Decimal) (decimal.Decimal, error) {
	if cost.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "cost cannot be negative")
	}
	if markupPercent.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "markup cannot be negative")
	}
	factor := decimal.NewFromInt(1).Add(markupPercent.Div(decimal.NewFromInt(100)))
	return cost.Mul(factor).Ceil(), nil
}
