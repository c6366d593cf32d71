package payment

import (
	"testing"
	"time"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestApplyPartialPayment(t *testing.T) {
	paid, status, err := Apply(d("100.00"), d("0"), d("30.00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !paid.Equal(d("30.00")) {
		t.Fatalf("paid = %s, want 30.00", paid)
	}
	if status != enums.PaymentStatusPartiallyPaid {
		t.Fatalf("status = %s, want partially_paid", status)
	}
}

func TestApplyExactBalanceSettles(t *testing.T) {
	paid, status, err := Apply(d("100.00"), d("30.00"), d("70.00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !paid.Equal(d("100.00")) {
		t.Fatalf("paid = %s, want 100.00", paid)
	}
	if status != enums.PaymentStatusPaid {
		t.Fatalf("status = %s, want paid", status)
	}
}

func TestApplyRejectsNonPositiveAmount(t *testing.T) {
	for _, amount := range []string{"0", "-10"} {
		paid, status, err := Apply(d("100"), d("20"), d(amount))
		if err == nil {
			t.Fatalf("amount %s: expected rejection", amount)
		}
		if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
			t.Fatalf("amount %s: expected validation error, got %v", amount, err)
		}
		// state unchanged on rejection
		if !paid.Equal(d("20")) {
			t.Fatalf("amount %s: paid mutated to %s", amount, paid)
		}
		if status != enums.PaymentStatusPartiallyPaid {
			t.Fatalf("amount %s: status mutated to %s", amount, status)
		}
	}
}

func TestApplyRejectsOverpayment(t *testing.T) {
	paid, _, err := Apply(d("100"), d("80"), d("20.01"))
	if err == nil {
		t.Fatal("expected overpayment rejection")
	}
	if !paid.Equal(d("80")) {
		t.Fatalf("paid mutated to %s on rejection", paid)
	}
}

func TestStatusForZeroTotal(t *testing.T) {
	// a fully credited sale has total zero and nothing owed; it must never
	// sit in receivables as unpaid
	if got := StatusFor(d("0"), d("0")); got != enums.PaymentStatusPaid {
		t.Fatalf("status = %s, want paid", got)
	}
}

func TestOutstandingNeverNegative(t *testing.T) {
	if got := Outstanding(d("50"), d("80")); !got.IsZero() {
		t.Fatalf("outstanding = %s, want 0", got)
	}
	if got := Outstanding(d("80"), d("50")); !got.Equal(d("30")) {
		t.Fatalf("outstanding = %s, want 30", got)
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	if !IsOverdue(enums.PaymentStatusUnpaid, &past, now) {
		t.Fatal("unpaid past due must be overdue")
	}
	if !IsOverdue(enums.PaymentStatusPartiallyPaid, &past, now) {
		t.Fatal("partially paid past due must be overdue")
	}
	if IsOverdue(enums.PaymentStatusPaid, &past, now) {
		t.Fatal("paid is never overdue")
	}
	if IsOverdue(enums.PaymentStatusConsolidated, &past, now) {
		t.Fatal("consolidated is never overdue")
	}
	if IsOverdue(enums.PaymentStatusUnpaid, &future, now) {
		t.Fatal("future due date is not overdue")
	}
	if IsOverdue(enums.PaymentStatusUnpaid, nil, now) {
		t.Fatal("no due date is never overdue")
	}
}

func TestBillIsOverdueSurvivesPartialPayment(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)

	// still due after a partial payment: overdue keeps reading true
	if !BillIsOverdue(enums.BillStatusDue, past, now) {
		t.Fatal("due bill past due date must be overdue")
	}
	if BillIsOverdue(enums.BillStatusPaid, past, now) {
		t.Fatal("paid bill is never overdue")
	}
}
