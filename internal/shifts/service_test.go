package shifts

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
)

func TestNewShiftDTOVariance(t *testing.T) {
	closedAt := time.Now()
	closing := decimal.NewFromInt(5200)
	shift := &models.ShiftReport{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		OpenedAt:    closedAt.Add(-8 * time.Hour),
		ClosedAt:    &closedAt,
		OpeningCash: decimal.NewFromInt(1000),
		ClosingCash: &closing,
		CashSales:   decimal.NewFromInt(4300),
	}

	dto := newShiftDTO(shift)
	if dto.ExpectedCash == nil || !dto.ExpectedCash.Equal(decimal.NewFromInt(5300)) {
		t.Fatalf("expected cash: %v", dto.ExpectedCash)
	}
	if dto.CashVariance == nil || !dto.CashVariance.Equal(decimal.NewFromInt(-100)) {
		t.Fatalf("variance: %v", dto.CashVariance)
	}
}

func TestNewShiftDTOOpenShiftHasNoVariance(t *testing.T) {
	shift := &models.ShiftReport{
		ID:          uuid.New(),
		OpenedAt:    time.Now(),
		OpeningCash: decimal.NewFromInt(1000),
	}

	dto := newShiftDTO(shift)
	if dto.ExpectedCash != nil || dto.CashVariance != nil {
		t.Fatal("open shift must not report variance")
	}
}
