package enums

import "fmt"

// BillStatus tracks settlement of an accounts-payable bill. Overdue is not
// stored; it derives from the due date at read time, so a partially paid
// bill past its due date keeps reading as overdue until fully paid.
type BillStatus string

const (
	BillStatusDue  BillStatus = "due"
	BillStatusPaid BillStatus = "paid"
)

var validBillStatuses = []BillStatus{
	BillStatusDue,
	BillStatusPaid,
}

// String implements fmt.Stringer.
func (b BillStatus) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BillStatus.
func (b BillStatus) IsValid() bool {
	for _, candidate := range validBillStatuses {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBillStatus converts raw input into a BillStatus.
func ParseBillStatus(value string) (BillStatus, error) {
	for _, candidate := range validBillStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bill status %q", value)
}
