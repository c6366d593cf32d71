package pricing

import (
	"testing"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func line(walkIn, contractor, government string, qty int) LineItem {
	return LineItem{
		Prices: PriceBlock{
			WalkIn:     d(walkIn),
			Contractor: d(contractor),
			Government: d(government),
		},
		Qty: qty,
	}
}

func requireMoney(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(d(want)) {
		t.Fatalf("%s = %s, want %s", label, got, want)
	}
}

func TestGovernmentTierBackDerivesSubtotal(t *testing.T) {
	quote, err := Compute(QuoteInput{
		Items: []LineItem{line("120.00", "110.00", "107.00", 1)},
		Tier:  enums.CustomerTierGovernment,
		// toggle off on purpose: government forces VAT on
		VATIncluded: false,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	requireMoney(t, "subtotal", quote.Subtotal, "100.00")
	requireMoney(t, "tax", quote.Tax, "7.00")
	requireMoney(t, "total", quote.Total, "107.00")
	if !quote.VATIncluded {
		t.Fatal("government quotes must report VAT included")
	}
}

func TestWalkInWithVAT(t *testing.T) {
	quote, err := Compute(QuoteInput{
		Items:       []LineItem{line("100.00", "90.00", "107.00", 2)},
		Tier:        enums.CustomerTierWalkIn,
		VATIncluded: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	requireMoney(t, "subtotal", quote.Subtotal, "200.00")
	requireMoney(t, "tax", quote.Tax, "14.00")
	requireMoney(t, "total", quote.Total, "214.00")
}

func TestWalkInWithoutVAT(t *testing.T) {
	quote, err := Compute(QuoteInput{
		Items:       []LineItem{line("100.00", "90.00", "107.00", 2)},
		Tier:        enums.CustomerTierWalkIn,
		VATIncluded: false,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	requireMoney(t, "subtotal", quote.Subtotal, "200.00")
	requireMoney(t, "tax", quote.Tax, "0")
	requireMoney(t, "total", quote.Total, "200.00")
}

func TestContractorTierUsesContractorPrice(t *testing.T) {
	quote, err := Compute(QuoteInput{
		Items:       []LineItem{line("100.00", "90.00", "107.00", 3)},
		Tier:        enums.CustomerTierContractor,
		VATIncluded: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	requireMoney(t, "subtotal", quote.Subtotal, "270.00")
	requireMoney(t, "tax", quote.Tax, "18.90")
	requireMoney(t, "total", quote.Total, "288.90")
}

func TestTotalAlwaysSubtotalPlusTax(t *testing.T) {
	carts := []QuoteInput{
		{Items: []LineItem{line("33.33", "31.00", "35.67", 3)}, Tier: enums.CustomerTierWalkIn, VATIncluded: true},
		{Items: []LineItem{line("33.33", "31.00", "35.67", 3)}, Tier: enums.CustomerTierContractor, VATIncluded: false},
		{Items: []LineItem{line("33.33", "31.00", "35.67", 7)}, Tier: enums.CustomerTierGovernment},
		{Items: []LineItem{line("0.01", "0.01", "0.01", 1)}, Tier: enums.CustomerTierGovernment},
	}
	for i, input := range carts {
		quote, err := Compute(input)
		if err != nil {
			t.Fatalf("cart %d: unexpected error: %v", i, err)
		}
		if !quote.Subtotal.Add(quote.Tax).Equal(quote.Total) {
			t.Fatalf("cart %d: subtotal %s + tax %s != total %s", i, quote.Subtotal, quote.Tax, quote.Total)
		}
	}
}

func TestTransportFeeAndBalanceForwardNotTaxed(t *testing.T) {
	quote, err := Compute(QuoteInput{
		Items:          []LineItem{line("100.00", "100.00", "107.00", 1)},
		Tier:           enums.CustomerTierWalkIn,
		VATIncluded:    true,
		TransportFee:   d("50.00"),
		BalanceForward: d("25.50"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	requireMoney(t, "tax", quote.Tax, "7.00")
	requireMoney(t, "total", quote.Total, "182.50")
}

func TestEmptyCartWithBalanceForwardIsPayable(t *testing.T) {
	quote, err := Compute(QuoteInput{
		Tier:           enums.CustomerTierWalkIn,
		BalanceForward: d("340.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	requireMoney(t, "subtotal", quote.Subtotal, "0")
	requireMoney(t, "tax", quote.Tax, "0")
	requireMoney(t, "total", quote.Total, "340.00")
}

func TestStoreCreditApplied(t *testing.T) {
	quote, err := Compute(QuoteInput{
		Items:  []LineItem{line("200.00", "200.00", "214.00", 1)},
		Tier:   enums.CustomerTierWalkIn,
		Credit: d("50.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	requireMoney(t, "total", quote.Total, "150.00")
	requireMoney(t, "credit applied", quote.CreditApplied, "50.00")
}

func TestStoreCreditExceedingTotalRejected(t *testing.T) {
	_, err := Compute(QuoteInput{
		Items:  []LineItem{line("40.00", "40.00", "42.80", 1)},
		Tier:   enums.CustomerTierWalkIn,
		Credit: d("50.00"),
	})
	if err == nil {
		t.Fatal("expected error when credit exceeds total")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStoreCreditEqualToTotalZeroesIt(t *testing.T) {
	quote, err := Compute(QuoteInput{
		Items:  []LineItem{line("50.00", "50.00", "53.50", 1)},
		Tier:   enums.CustomerTierWalkIn,
		Credit: d("50.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	requireMoney(t, "total", quote.Total, "0.00")
}

func TestComputeRejectsBadInput(t *testing.T) {
	cases := map[string]QuoteInput{
		"invalid tier":       {Tier: enums.CustomerTier("vip")},
		"zero quantity":      {Tier: enums.CustomerTierWalkIn, Items: []LineItem{line("10.00", "10.00", "10.70", 0)}},
		"negative quantity":  {Tier: enums.CustomerTierWalkIn, Items: []LineItem{line("10.00", "10.00", "10.70", -2)}},
		"negative price":     {Tier: enums.CustomerTierWalkIn, Items: []LineItem{line("-10.00", "10.00", "10.70", 1)}},
		"negative fee":       {Tier: enums.CustomerTierWalkIn, TransportFee: d("-1")},
		"negative balance":   {Tier: enums.CustomerTierWalkIn, BalanceForward: d("-1")},
		"negative credit":    {Tier: enums.CustomerTierWalkIn, Credit: d("-1")},
	}
	for name, input := range cases {
		if _, err := Compute(input); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestOutsourcedPriceRoundsUp(t *testing.T) {
	cases := []struct {
		cost, markup, want string
	}{
		{"100", "20", "120"},
		{"99", "15", "114"},    // 113.85 rounds up
		{"100", "0", "100"},
		{"0.50", "10", "1"},    // 0.55 rounds up to a whole unit
		{"250", "12.5", "282"}, // 281.25
	}
	for _, tc := range cases {
		got, err := OutsourcedPrice(d(tc.cost), d(tc.markup))
		if err != nil {
			t.Fatalf("cost=%s markup=%s: unexpected error: %v", tc.cost, tc.markup, err)
		}
		requireMoney(t, "selling price", got, tc.want)
	}
}

func TestOutsourcedPriceRejectsNegatives(t *testing.T) {
	if _, err := OutsourcedPrice(d("-1"), d("20")); err == nil {
		t.Fatal("expected error for negative cost")
	}
	if _, err := OutsourcedPrice(d("100"), d("-5")); err == nil {
		t.Fatal("expected error for negative markup")
	}
}

func TestUniformCollapsesTiers(t *testing.T) {
	block := Uniform(d("120"), d("100"))
	for _, tier := range []enums.CustomerTier{
		enums.CustomerTierWalkIn,
		enums.CustomerTierContractor,
		enums.CustomerTierGovernment,
	} {
		requireMoney(t, "uniform price", block.ForTier(tier), "120")
	}
	requireMoney(t, "cost", block.Cost, "100")
}
