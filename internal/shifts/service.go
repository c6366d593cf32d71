package shifts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
)

// Service brackets a cashier's till session. Closing a shift snapshots the
// cash and transfer takings for the window so the report survives later
// payment edits.
type Service interface {
	Open(ctx context.Context, userID uuid.UUID, openingCash decimal.Decimal) (*ShiftDTO, error)
	Close(ctx context.Context, input CloseShiftInput) (*ShiftDTO, error)
	Current(ctx context.Context, userID uuid.UUID) (*ShiftDTO, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]ShiftDTO, error)
}

type CloseShiftInput struct {
	ShiftID     uuid.UUID
	UserID      uuid.UUID
	ClosingCash decimal.Decimal
	Note        string
}

type ShiftDTO struct {
	ID            uuid.UUID        `json:"id"`
	UserID        uuid.UUID        `json:"user_id"`
	OpenedAt      time.Time        `json:"opened_at"`
	ClosedAt      *time.Time       `json:"closed_at,omitempty"`
	OpeningCash   decimal.Decimal  `json:"opening_cash"`
	ClosingCash   *decimal.Decimal `json:"closing_cash,omitempty"`
	CashSales     decimal.Decimal  `json:"cash_sales"`
	TransferSales decimal.Decimal  `json:"transfer_sales"`
	ExpectedCash  *decimal.Decimal `json:"expected_cash,omitempty"`
	CashVariance  *decimal.Decimal `json:"cash_variance,omitempty"`
	Note          string           `json:"note,omitempty"`
}

type ServiceParams struct {
	Repo *Repository
	Now  func() time.Time
}

type service struct {
	repo *Repository
	now  func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("shift repository required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{repo: params.Repo, now: params.Now}, nil
}

func (s *service) Open(ctx context.Context, userID uuid.UUID, openingCash decimal.Decimal) (*ShiftDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user required")
	}
	if openingCash.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "opening cash cannot be negative")
	}

	if _, err := s.repo.FindOpenByUser(ctx, userID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "shift already open")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load open shift")
	}

	shift := &models.ShiftReport{
		ID:          uuid.New(),
		UserID:      userID,
		OpenedAt:    s.now().UTC(),
		OpeningCash: openingCash,
	}
	if err := s.repo.Create(ctx, shift); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert shift")
	}
	return newShiftDTO(shift), nil
}

func (s *service) Close(ctx context.Context, input CloseShiftInput) (*ShiftDTO, error) {
	if input.ClosingCash.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "closing cash cannot be negative")
	}

	shift, err := s.repo.FindByID(ctx, input.ShiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shift not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load shift")
	}
	if shift.UserID != input.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "shift belongs to another user")
	}
	if shift.ClosedAt != nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "shift already closed")
	}

	now := s.now().UTC()
	cash, err := s.repo.SumPaymentsByMethod(ctx, enums.PaymentMethodCash, shift.OpenedAt, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sum cash payments")
	}
	transfer, err := s.repo.SumPaymentsByMethod(ctx, enums.PaymentMethodTransfer, shift.OpenedAt, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sum transfer payments")
	}

	shift.ClosedAt = &now
	shift.ClosingCash = &input.ClosingCash
	shift.CashSales = cash
	shift.TransferSales = transfer
	shift.Note = strings.TrimSpace(input.Note)
	if err := s.repo.Save(ctx, shift); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update shift")
	}
	return newShiftDTO(shift), nil
}

func (s *service) Current(ctx context.Context, userID uuid.UUID) (*ShiftDTO, error) {
	shift, err := s.repo.FindOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no open shift")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load open shift")
	}
	return newShiftDTO(shift), nil
}

func (s *service) History(ctx context.Context, userID uuid.UUID, limit int) ([]ShiftDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	shiftsList, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list shifts")
	}
	dtos := make([]ShiftDTO, 0, len(shiftsList))
	for i := range shiftsList {
		dtos = append(dtos, *newShiftDTO(&shiftsList[i]))
	}
	return dtos, nil
}

func newShiftDTO(shift *models.ShiftReport) *ShiftDTO {
	dto := &ShiftDTO{
		ID:            shift.ID,
		UserID:        shift.UserID,
		OpenedAt:      shift.OpenedAt,
		ClosedAt:      shift.ClosedAt,
		OpeningCash:   shift.OpeningCash,
		ClosingCash:   shift.ClosingCash,
		CashSales:     shift.CashSales,
		TransferSales: shift.TransferSales,
		Note:          shift.Note,
	}
	if shift.ClosedAt != nil && shift.ClosingCash != nil {
		expected := shift.OpeningCash.Add(shift.CashSales)
		variance := shift.ClosingCash.Sub(expected)
		dto.ExpectedCash = &expected
		dto.CashVariance = &variance
	}
	return dto
}
