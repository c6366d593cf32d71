package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/pagination"
)

// Repository persists supplier bills and their payment history.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, bill *models.Bill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

func (r *Repository) Save(ctx context.Context, bill *models.Bill) error {
	return r.db.WithContext(ctx).Save(bill).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Bill{}, "id = ?", id).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Bill, error) {
	var bill models.Bill
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Payments", func(q *gorm.DB) *gorm.DB { return q.Order("created_at ASC") }).
		First(&bill, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// ListFilter narrows the bill listing. OverdueBefore keeps only due bills
// whose due date passed before the given instant.
type ListFilter struct {
	SupplierID    *uuid.UUID
	Status        *enums.BillStatus
	OverdueBefore *time.Time
}

func (r *Repository) List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.Bill, error) {
	q := r.db.WithContext(ctx).
		Preload("Supplier").
		Order("created_at DESC, id DESC").
		Limit(limit)

	if filter.SupplierID != nil {
		q = q.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.OverdueBefore != nil {
		q = q.Where("due_date < ? AND status = ?", *filter.OverdueBefore, enums.BillStatusDue)
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var bills []models.Bill
	if err := q.Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *Repository) CreatePayment(ctx context.Context, record *models.BillPayment) error {
	return r.db.WithContext(ctx).Create(record).Error
}
