package shifts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
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

func (r *Repository) Create(ctx context.Context, shift *models.ShiftReport) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

func (r *Repository) Save(ctx context.Context, shift *models.ShiftReport) error {
	return r.db.WithContext(ctx).Save(shift).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ShiftReport, error) {
	var shift models.ShiftReport
	if err := r.db.WithContext(ctx).First(&shift, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

// FindOpenByUser returns the user's current open shift, if any.
func (r *Repository) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*models.ShiftReport, error) {
	var shift models.ShiftReport
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND closed_at IS NULL", userID).
		Order("opened_at DESC").
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.ShiftReport, error) {
	var shiftsList []models.ShiftReport
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("opened_at DESC").
		Limit(limit).
		Find(&shiftsList).Error
	if err != nil {
		return nil, err
	}
	return shiftsList, nil
}

// SumPaymentsByMethod totals payment records taken in the window.
func (r *Repository) SumPaymentsByMethod(ctx context.Context, method enums.PaymentMethod, from, to time.Time) (decimal.Decimal, error) {
	var raw *string
	err := r.db.WithContext(ctx).Model(&models.PaymentRecord{}).
		Select("SUM(amount)").
		Where("method = ? AND created_at >= ? AND created_at < ?", method, from, to).
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, err
	}
	if raw == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*raw)
}
