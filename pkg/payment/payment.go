// Package payment implements the settlement rule shared by sales
// transactions (receivables) and supplier bills (payables): paid amount
// accumulates toward the total, status follows from the comparison, and
// overdue is derived at read time rather than stored.
package payment

import (
	"time"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Apply validates a payment of amount against the current total/paid pair
// and returns the new paid amount plus the resulting status. The amount
// must be positive and must not exceed the outstanding balance; callers
// reject before mutating any state.
func Apply(total, paid, amount decimal.Decimal) (decimal.Decimal, enums.PaymentStatus, error) {
	if !amount.IsPositive() {
		return paid, StatusFor(total, paid), pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}
	outstanding := total.Sub(paid)
	if amount.GreaterThan(outstanding) {
		return paid, StatusFor(total, paid), pkgerrors.New(pkgerrors.CodeValidation, "payment exceeds outstanding balance").
			WithDetails(map[string]string{"outstanding": outstanding.StringFixed(2)})
	}
	newPaid := paid.Add(amount)
	return newPaid, StatusFor(total, newPaid), nil
}

// StatusFor derives the stored status from the paid/total pair. A zero
// total (a sale fully covered by store credit) has nothing owed and reads
// paid from the start.
func StatusFor(total, paid decimal.Decimal) enums.PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(total):
		return enums.PaymentStatusPaid
	case paid.IsPositive():
		return enums.PaymentStatusPartiallyPaid
	default:
		return enums.PaymentStatusUnpaid
	}
}

// Outstanding returns the unpaid remainder, never negative.
func Outstanding(total, paid decimal.Decimal) decimal.Decimal {
	rest := total.Sub(paid)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// IsOverdue reports whether an open transaction is past its due date.
// Paid and consolidated transactions are never overdue.
func IsOverdue(status enums.PaymentStatus, dueDate *time.Time, now time.Time) bool {
	if dueDate == nil {
		return false
	}
	if !status.AcceptsPayment() {
		return false
	}
	return dueDate.Before(now)
}

// BillIsOverdue is the payable-side equivalent: any unpaid bill past its
// due date reads as overdue, including after a partial payment.
func BillIsOverdue(status enums.BillStatus, dueDate time.Time, now time.Time) bool {
	return status != enums.BillStatusPaid && dueDate.Before(now)
}
