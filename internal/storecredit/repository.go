package storecredit

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, credit *models.StoreCredit) error {
	return r.db.WithContext(ctx).Create(credit).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StoreCredit, error) {
	var credit models.StoreCredit
	if err := r.db.WithContext(ctx).First(&credit, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &credit, nil
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, unusedOnly bool) ([]models.StoreCredit, error) {
	q := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC")
	if unusedOnly {
		q = q.Where("is_used = ?", false)
	}
	var credits []models.StoreCredit
	if err := q.Find(&credits).Error; err != nil {
		return nil, err
	}
	return credits, nil
}
