package customers

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
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/pagination"
)

type Service interface {
	Create(ctx context.Context, input CreateCustomerInput) (*CustomerDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CustomerDTO, error)
	List(ctx context.Context, search, cursor string, limit int) (*CustomerListResult, error)
	Balance(ctx context.Context, id uuid.UUID) (*BalanceDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateCustomerInput struct {
	Name    string
	Phone   string
	Address string
	TaxID   string
	Tier    enums.CustomerTier
	Note    string
}

type UpdateCustomerInput struct {
	Name    *string
	Phone   *string
	Address *string
	TaxID   *string
	Tier    *enums.CustomerTier
	Note    *string
}

type CustomerDTO struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Phone     string             `json:"phone,omitempty"`
	Address   string             `json:"address,omitempty"`
	TaxID     string             `json:"tax_id,omitempty"`
	Tier      enums.CustomerTier `json:"tier"`
	Note      string             `json:"note,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

type CustomerListResult struct {
	Customers  []CustomerDTO `json:"customers"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// BalanceDTO summarises a customer's open invoices for the consolidation
// screen.
type BalanceDTO struct {
	CustomerID   uuid.UUID       `json:"customer_id"`
	OpenInvoices int             `json:"open_invoices"`
	Outstanding  decimal.Decimal `json:"outstanding"`
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateCustomerInput) (*CustomerDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	tier := input.Tier
	if tier == "" {
		tier = enums.CustomerTierWalkIn
	}
	if !tier.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid pricing tier")
	}

	customer := &models.Customer{
		ID:      uuid.New(),
		Name:    name,
		Phone:   strings.TrimSpace(input.Phone),
		Address: strings.TrimSpace(input.Address),
		TaxID:   strings.TrimSpace(input.TaxID),
		Tier:    tier,
		Note:    strings.TrimSpace(input.Note),
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert customer")
	}
	return newCustomerDTO(customer), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}
	if err := applyCustomerUpdate(customer, input); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update customer")
	}
	return newCustomerDTO(customer), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}
	return newCustomerDTO(customer), nil
}

func (s *service) List(ctx context.Context, search, cursor string, limit int) (*CustomerListResult, error) {
	limit = pagination.NormalizeLimit(limit)
	cur, err := pagination.ParseCursor(cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	customers, err := s.repo.List(ctx, strings.TrimSpace(search), cur, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list customers")
	}

	result := &CustomerListResult{Customers: make([]CustomerDTO, 0, len(customers))}
	if len(customers) > limit {
		customers = customers[:limit]
		last := customers[len(customers)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	for i := range customers {
		result.Customers = append(result.Customers, *newCustomerDTO(&customers[i]))
	}
	return result, nil
}

func (s *service) Balance(ctx context.Context, id uuid.UUID) (*BalanceDTO, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}
	open, err := s.repo.OutstandingByCustomer(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load open invoices")
	}

	balance := &BalanceDTO{CustomerID: id, Outstanding: decimal.Zero}
	for i := range open {
		balance.OpenInvoices++
		balance.Outstanding = balance.Outstanding.Add(open[i].Outstanding())
	}
	return balance, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	open, err := s.repo.OutstandingByCustomer(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load open invoices")
	}
	if len(open) > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "customer has open invoices")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete customer")
	}
	return nil
}

func applyCustomerUpdate(customer *models.Customer, input UpdateCustomerInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
		}
		customer.Name = name
	}
	if input.Phone != nil {
		customer.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		customer.Address = strings.TrimSpace(*input.Address)
	}
	if input.TaxID != nil {
		customer.TaxID = strings.TrimSpace(*input.TaxID)
	}
	if input.Tier != nil {
		if !input.Tier.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid pricing tier")
		}
		customer.Tier = *input.Tier
	}
	if input.Note != nil {
		customer.Note = strings.TrimSpace(*input.Note)
	}
	return nil
}

func newCustomerDTO(c *models.Customer) *CustomerDTO {
	return &CustomerDTO{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		TaxID:     c.TaxID,
		Tier:      c.Tier,
		Note:      c.Note,
		CreatedAt: c.CreatedAt,
	}
}
