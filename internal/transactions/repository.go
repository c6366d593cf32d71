package transactions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/pagination"
)

// Repository wires together receivables persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the transaction with items, payments, and customer.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments", func(q *gorm.DB) *gorm.DB { return q.Order("created_at ASC") }).
		Preload("Customer").
		First(&txn, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// ListFilter narrows the receivables listing. OverdueBefore keeps only open
// invoices whose due date passed before the given instant.
type ListFilter struct {
	CustomerID    *uuid.UUID
	Status        *enums.PaymentStatus
	OverdueBefore *time.Time
}

func (r *Repository) List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.Transaction, error) {
	q := r.db.WithContext(ctx).
		Preload("Customer").
		Order("created_at DESC, id DESC").
		Limit(limit)

	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.OverdueBefore != nil {
		q = q.Where("due_date IS NOT NULL AND due_date < ? AND status IN ?", *filter.OverdueBefore, []enums.PaymentStatus{
			enums.PaymentStatusUnpaid,
			enums.PaymentStatusPartiallyPaid,
		})
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var txns []models.Transaction
	if err := q.Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// ListOpenByCustomer returns the customer's transactions still accepting
// payment, oldest first.
func (r *Repository) ListOpenByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status IN ?", customerID, []enums.PaymentStatus{
			enums.PaymentStatusUnpaid,
			enums.PaymentStatusPartiallyPaid,
		}).
		Order("created_at ASC").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// ListByConsolidationTarget returns the originals folded into a successor.
func (r *Repository) ListByConsolidationTarget(ctx context.Context, successorID uuid.UUID) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.WithContext(ctx).
		Where("consolidated_into = ?", successorID).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *Repository) Create(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *Repository) Save(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Save(txn).Error
}

// Delete soft-deletes the transaction; items and payments stay reachable
// through Unscoped for audits.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Transaction{}, "id = ?", id).Error
}

func (r *Repository) HardDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&models.Transaction{}, "id = ?", id).Error
}

func (r *Repository) CreatePaymentRecord(ctx context.Context, record *models.PaymentRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *Repository) CountPayments(ctx context.Context, transactionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PaymentRecord{}).
		Where("transaction_id = ?", transactionID).
		Count(&count).Error
	return count, err
}

func (r *Repository) CreateItems(ctx context.Context, items []models.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *Repository) CreateStoreCredit(ctx context.Context, credit *models.StoreCredit) error {
	return r.db.WithContext(ctx).Create(credit).Error
}

// RestockVariant adds returned quantity back.
func (r *Repository) RestockVariant(ctx context.Context, variantID uuid.UUID, qty int) (*models.ProductVariant, error) {
	res := r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var variant models.ProductVariant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", variantID).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *Repository) AppendHistory(ctx context.Context, entry *models.VariantHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// CountByCodePrefix supports daily invoice numbering for consolidation
// successors.
func (r *Repository) CountByCodePrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Unscoped().
		Where("code LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}
