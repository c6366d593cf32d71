package enums

import "fmt"

// ItemKind classifies a transaction line: stocked catalog items, items
// purchased from a third party at sale time, free-text service lines, and
// the synthetic balance-forward line created by invoice consolidation.
type ItemKind string

const (
	ItemKindCatalog        ItemKind = "catalog"
	ItemKindOutsourced     ItemKind = "outsourced"
	ItemKindMisc           ItemKind = "misc"
	ItemKindBalanceForward ItemKind = "balance_forward"
)

var validItemKinds = []ItemKind{
	ItemKindCatalog,
	ItemKindOutsourced,
	ItemKindMisc,
	ItemKindBalanceForward,
}

// String implements fmt.Stringer.
func (i ItemKind) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemKind.
func (i ItemKind) IsValid() bool {
	for _, candidate := range validItemKinds {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemKind converts raw input into an ItemKind.
func ParseItemKind(value string) (ItemKind, error) {
	for _, candidate := range validItemKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item kind %q", value)
}
