package enums

import "fmt"

// CustomerTier selects which price from a variant's price block applies.
// Government prices are VAT-inclusive by store policy.
type CustomerTier string

const (
	CustomerTierWalkIn     CustomerTier = "walk_in"
	CustomerTierContractor CustomerTier = "contractor"
	CustomerTierGovernment CustomerTier = "government"
)

var validCustomerTiers = []CustomerTier{
	CustomerTierWalkIn,
	CustomerTierContractor,
	CustomerTierGovernment,
}

// String implements fmt.Stringer.
func (c CustomerTier) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CustomerTier.
func (c CustomerTier) IsValid() bool {
	for _, candidate := range validCustomerTiers {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCustomerTier converts raw input into a CustomerTier.
func ParseCustomerTier(value string) (CustomerTier, error) {
	for _, candidate := range validCustomerTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer tier %q", value)
}
