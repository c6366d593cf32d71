package enums

import "fmt"

// PaymentStatus tracks how much of a sales transaction has been settled.
// Consolidated is terminal: the balance moved to a successor invoice and
// the transaction no longer accepts payments. Overdue is never stored; it
// is derived at read time from the due date.
type PaymentStatus string

const (
	PaymentStatusUnpaid        PaymentStatus = "unpaid"
	PaymentStatusPartiallyPaid PaymentStatus = "partially_paid"
	PaymentStatusPaid          PaymentStatus = "paid"
	PaymentStatusConsolidated  PaymentStatus = "consolidated"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusUnpaid,
	PaymentStatusPartiallyPaid,
	PaymentStatusPaid,
	PaymentStatusConsolidated,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// AcceptsPayment reports whether a transaction in this status may still
// receive payments.
func (p PaymentStatus) AcceptsPayment() bool {
	return p == PaymentStatusUnpaid || p == PaymentStatusPartiallyPaid
}

// ParsePaymentStatus converts raw input into a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
