package enums

import "fmt"

// VariantStatus is derived from a variant's stock level, never set directly.
type VariantStatus string

const (
	VariantStatusInStock    VariantStatus = "in_stock"
	VariantStatusLowStock   VariantStatus = "low_stock"
	VariantStatusOutOfStock VariantStatus = "out_of_stock"
)

var validVariantStatuses = []VariantStatus{
	VariantStatusInStock,
	VariantStatusLowStock,
	VariantStatusOutOfStock,
}

// DeriveVariantStatus maps a stock level onto its status given the store's
// low-stock threshold.
func DeriveVariantStatus(stock, lowStockThreshold int) VariantStatus {
	switch {
	case stock <= 0:
		return VariantStatusOutOfStock
	case stock < lowStockThreshold:
		return VariantStatusLowStock
	default:
		return VariantStatusInStock
	}
}

// String implements fmt.Stringer.
func (v VariantStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VariantStatus.
func (v VariantStatus) IsValid() bool {
	for _, candidate := range validVariantStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVariantStatus converts raw input into a VariantStatus.
func ParseVariantStatus(value string) (VariantStatus, error) {
	for _, candidate := range validVariantStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid variant status %q", value)
}
