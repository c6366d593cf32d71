package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
)

// Repository covers the persistence the checkout flow touches directly.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) FindVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *Repository) FindVariantByCode(ctx context.Context, code string) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("sku = ?", code).
		Or("barcode = ?", code).
		First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// DecrementStock is the guarded decrement used at commit. Zero rows means
// the stock guard failed.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (*models.ProductVariant, error) {
	res := r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindVariant(ctx, id)
}

func (r *Repository) AppendHistory(ctx context.Context, entry *models.VariantHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *Repository) FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *Repository) FindStoreCredit(ctx context.Context, id uuid.UUID) (*models.StoreCredit, error) {
	var credit models.StoreCredit
	if err := r.db.WithContext(ctx).First(&credit, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &credit, nil
}

// MarkCreditUsed consumes the credit. Zero rows means it was already spent.
func (r *Repository) MarkCreditUsed(ctx context.Context, creditID, transactionID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.StoreCredit{}).
		Where("id = ? AND is_used = ?", creditID, false).
		Updates(map[string]any{
			"is_used":             true,
			"used_at":             time.Now().UTC(),
			"used_transaction_id": transactionID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *Repository) CreatePaymentRecord(ctx context.Context, record *models.PaymentRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *Repository) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Save(txn).Error
}

// CountTransactionsSince supports daily invoice numbering.
func (r *Repository) CountTransactionsSince(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Unscoped().
		Where("code LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}
