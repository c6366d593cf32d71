package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/pagination"
)

type Service interface {
	Create(ctx context.Context, input CreateSupplierInput) (*SupplierDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateSupplierInput) (*SupplierDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*SupplierDTO, error)
	List(ctx context.Context, search, cursor string, limit int) (*SupplierListResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateSupplierInput struct {
	Name    string
	Phone   string
	Address string
	TaxID   string
	Note    string
}

type UpdateSupplierInput struct {
	Name    *string
	Phone   *string
	Address *string
	TaxID   *string
	Note    *string
}

type SupplierDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	TaxID     string    `json:"tax_id,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type SupplierListResult struct {
	Suppliers  []SupplierDTO `json:"suppliers"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateSupplierInput) (*SupplierDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier name required")
	}
	supplier := &models.Supplier{
		ID:      uuid.New(),
		Name:    name,
		Phone:   strings.TrimSpace(input.Phone),
		Address: strings.TrimSpace(input.Address),
		TaxID:   strings.TrimSpace(input.TaxID),
		Note:    strings.TrimSpace(input.Note),
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert supplier")
	}
	return newSupplierDTO(supplier), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateSupplierInput) (*SupplierDTO, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}
	if err := applySupplierUpdate(supplier, input); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, supplier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update supplier")
	}
	return newSupplierDTO(supplier), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*SupplierDTO, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}
	return newSupplierDTO(supplier), nil
}

func (s *service) List(ctx context.Context, search, cursor string, limit int) (*SupplierListResult, error) {
	limit = pagination.NormalizeLimit(limit)
	cur, err := pagination.ParseCursor(cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	suppliers, err := s.repo.List(ctx, strings.TrimSpace(search), cur, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list suppliers")
	}

	result := &SupplierListResult{Suppliers: make([]SupplierDTO, 0, len(suppliers))}
	if len(suppliers) > limit {
		suppliers = suppliers[:limit]
		last := suppliers[len(suppliers)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	for i := range suppliers {
		result.Suppliers = append(result.Suppliers, *newSupplierDTO(&suppliers[i]))
	}
	return result, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	open, err := s.repo.CountOpenBills(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count open bills")
	}
	if open > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "supplier has unpaid bills")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete supplier")
	}
	return nil
}

func applySupplierUpdate(supplier *models.Supplier, input UpdateSupplierInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "supplier name required")
		}
		supplier.Name = name
	}
	if input.Phone != nil {
		supplier.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		supplier.Address = strings.TrimSpace(*input.Address)
	}
	if input.TaxID != nil {
		supplier.TaxID = strings.TrimSpace(*input.TaxID)
	}
	if input.Note != nil {
		supplier.Note = strings.TrimSpace(*input.Note)
	}
	return nil
}

func newSupplierDTO(s *models.Supplier) *SupplierDTO {
	return &SupplierDTO{
		ID:        s.ID,
		Name:      s.Name,
		Phone:     s.Phone,
		Address:   s.Address,
		TaxID:     s.TaxID,
		Note:      s.Note,
		CreatedAt: s.CreatedAt,
	}
}
