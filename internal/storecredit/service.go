package storecredit

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
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
)

// Service manages customer store credits. Redemption itself happens inside
// checkout so it shares the sale's transaction.
type Service interface {
	Grant(ctx context.Context, input GrantInput) (*CreditDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CreditDTO, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, unusedOnly bool) (*CreditListResult, error)
}

type GrantInput struct {
	CustomerID          uuid.UUID
	Amount              decimal.Decimal
	SourceTransactionID *uuid.UUID
	Note                string
}

type CreditDTO struct {
	ID                  uuid.UUID       `json:"id"`
	CustomerID          uuid.UUID       `json:"customer_id"`
	Amount              decimal.Decimal `json:"amount"`
	IsUsed              bool            `json:"is_used"`
	UsedAt              *time.Time      `json:"used_at,omitempty"`
	UsedTransactionID   *uuid.UUID      `json:"used_transaction_id,omitempty"`
	SourceTransactionID *uuid.UUID      `json:"source_transaction_id,omitempty"`
	Note                string          `json:"note,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

type CreditListResult struct {
	Credits   []CreditDTO     `json:"credits"`
	Available decimal.Decimal `json:"available"`
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store credit repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Grant(ctx context.Context, input GrantInput) (*CreditDTO, error) {
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "credit amount must be positive")
	}
	credit := &models.StoreCredit{
		ID:                  uuid.New(),
		CustomerID:          input.CustomerID,
		Amount:              input.Amount,
		SourceTransactionID: input.SourceTransactionID,
		Note:                strings.TrimSpace(input.Note),
	}
	if err := s.repo.Create(ctx, credit); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert store credit")
	}
	return newCreditDTO(credit), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CreditDTO, error) {
	credit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store credit not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store credit")
	}
	return newCreditDTO(credit), nil
}

func (s *service) ListByCustomer(ctx context.Context, customerID uuid.UUID, unusedOnly bool) (*CreditListResult, error) {
	credits, err := s.repo.ListByCustomer(ctx, customerID, unusedOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list store credits")
	}

	result := &CreditListResult{
		Credits:   make([]CreditDTO, 0, len(credits)),
		Available: decimal.Zero,
	}
	for i := range credits {
		dto := newCreditDTO(&credits[i])
		result.Credits = append(result.Credits, *dto)
		if !dto.IsUsed {
			result.Available = result.Available.Add(dto.Amount)
		}
	}
	return result, nil
}

func newCreditDTO(c *models.StoreCredit) *CreditDTO {
	return &CreditDTO{
		ID:                  c.ID,
		CustomerID:          c.CustomerID,
		Amount:              c.Amount,
		IsUsed:              c.IsUsed,
		UsedAt:              c.UsedAt,
		UsedTransactionID:   c.UsedTransactionID,
		SourceTransactionID: c.SourceTransactionID,
		Note:                c.Note,
		CreatedAt:           c.CreatedAt,
	}
}
