package enums

import "fmt"

// VariantHistoryKind tags entries in a variant's append-only history log.
type VariantHistoryKind string

const (
	VariantHistoryKindPriceChange VariantHistoryKind = "price_change"
	VariantHistoryKindStockChange VariantHistoryKind = "stock_change"
	VariantHistoryKindSale        VariantHistoryKind = "sale"
	VariantHistoryKindReturn      VariantHistoryKind = "return"
	VariantHistoryKindRestock     VariantHistoryKind = "restock"
)

var validVariantHistoryKinds = []VariantHistoryKind{
	VariantHistoryKindPriceChange,
	VariantHistoryKindStockChange,
	VariantHistoryKindSale,
	VariantHistoryKindReturn,
	VariantHistoryKindRestock,
}

// String implements fmt.Stringer.
func (v VariantHistoryKind) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VariantHistoryKind.
func (v VariantHistoryKind) IsValid() bool {
	for _, candidate := range validVariantHistoryKinds {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVariantHistoryKind converts raw input into a VariantHistoryKind.
func ParseVariantHistoryKind(value string) (VariantHistoryKind, error) {
	for _, candidate := range validVariantHistoryKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid variant history kind %q", value)
}
