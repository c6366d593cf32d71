package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/pagination"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/payment"
)

// Service manages supplier bills (payables).
type Service interface {
	Create(ctx context.Context, input CreateBillInput) (*BillDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*BillDTO, error)
	List(ctx context.Context, input ListInput) (*BillListResult, error)
	RecordPayment(ctx context.Context, id uuid.UUID, input PaymentInput) (*BillDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateBillInput struct {
	SupplierID uuid.UUID
	Code       string
	Amount     decimal.Decimal
	DueDate    *time.Time
	Note       string
}

type ListInput struct {
	SupplierID  *uuid.UUID
	Status      *enums.BillStatus
	OverdueOnly bool
	Pagination  pagination.Params
}

type PaymentInput struct {
	Amount    decimal.Decimal
	Method    enums.PaymentMethod
	Reference string
}

type ServiceParams struct {
	Repo     *Repository
	DBClient *db.Client
	Now      func() time.Time
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("billing repository required")
	}
	if params.DBClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{repo: params.Repo, dbClient: params.DBClient, now: params.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateBillInput) (*BillDTO, error) {
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bill amount must be positive")
	}

	bill := &models.Bill{
		ID:         uuid.New(),
		SupplierID: input.SupplierID,
		Code:       strings.TrimSpace(input.Code),
		Amount:     input.Amount,
		PaidAmount: decimal.Zero,
		Status:     enums.BillStatusDue,
		DueDate:    input.DueDate,
		Note:       strings.TrimSpace(input.Note),
	}
	if err := s.repo.Create(ctx, bill); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert bill")
	}
	return s.Get(ctx, bill.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*BillDTO, error) {
	bill, err := s.loadBill(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return NewBillDTO(bill, s.now()), nil
}

func (s *service) List(ctx context.Context, input ListInput) (*BillListResult, error) {
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(input.Pagination.Limit)

	now := s.now()
	filter := ListFilter{SupplierID: input.SupplierID, Status: input.Status}
	if input.OverdueOnly {
		filter.OverdueBefore = &now
	}
	bills, err := s.repo.List(ctx, filter, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list bills")
	}

	hasMore := len(bills) > limit
	if hasMore {
		bills = bills[:limit]
	}

	result := &BillListResult{Bills: make([]BillDTO, 0, len(bills))}
	for i := range bills {
		result.Bills = append(result.Bills, *NewBillDTO(&bills[i], now))
	}
	if hasMore {
		last := bills[len(bills)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

// RecordPayment applies the shared payment rule; the bill flips to paid only
// when fully covered.
func (s *service) RecordPayment(ctx context.Context, id uuid.UUID, input PaymentInput) (*BillDTO, error) {
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		bill, err := s.loadBill(ctx, txRepo, id)
		if err != nil {
			return err
		}
		if bill.Status == enums.BillStatusPaid {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "bill is already paid")
		}

		newPaid, _, err := payment.Apply(bill.Amount, bill.PaidAmount, input.Amount)
		if err != nil {
			return err
		}

		record := &models.BillPayment{
			ID:        uuid.New(),
			BillID:    bill.ID,
			Amount:    input.Amount,
			Method:    input.Method,
			Reference: strings.TrimSpace(input.Reference),
		}
		if err := txRepo.CreatePayment(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert bill payment")
		}

		bill.PaidAmount = newPaid
		bill.Status = billStatusFor(bill.Amount, newPaid)
		if err := txRepo.Save(ctx, bill); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update bill")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record bill payment")
	}

	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadBill(ctx, s.repo, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete bill")
	}
	return nil
}

func (s *service) loadBill(ctx context.Context, repo *Repository, id uuid.UUID) (*models.Bill, error) {
	bill, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bill not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load bill")
	}
	return bill, nil
}

func billStatusFor(amount, paid decimal.Decimal) enums.BillStatus {
	if paid.GreaterThanOrEqual(amount) {
		return enums.BillStatusPaid
	}
	return enums.BillStatusDue
}
