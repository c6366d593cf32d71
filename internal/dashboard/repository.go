package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SalesTotals sums invoice totals and counts in the window. Consolidation
// successors carry balance_forward lines only, so originals marked
// consolidated are excluded to avoid double counting.
func (r *Repository) SalesTotals(ctx context.Context, from, to time.Time) (decimal.Decimal, int64, error) {
	type row struct {
		Total *string
		Count int64
	}
	var result row
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("SUM(total) AS total, COUNT(*) AS count").
		Where("created_at >= ? AND created_at < ? AND status <> ?", from, to, "consolidated").
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	total := decimal.Zero
	if result.Total != nil {
		total, err = decimal.NewFromString(*result.Total)
		if err != nil {
			return decimal.Zero, 0, err
		}
	}
	return total, result.Count, nil
}

// PaymentsTotal sums money actually collected in the window.
func (r *Repository) PaymentsTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var raw *string
	err := r.db.WithContext(ctx).Model(&models.PaymentRecord{}).
		Select("SUM(amount)").
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, err
	}
	if raw == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*raw)
}

// OpenReceivables loads every invoice still carrying a balance.
func (r *Repository) OpenReceivables(ctx context.Context) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{"unpaid", "partially_paid"}).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// OpenPayables loads supplier bills still due.
func (r *Repository) OpenPayables(ctx context.Context) ([]models.Bill, error) {
	var bills []models.Bill
	err := r.db.WithContext(ctx).
		Where("status = ?", "due").
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *Repository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductVariant{}).
		Where("stock > 0 AND stock <= ?", threshold).
		Count(&count).Error
	return count, err
}

func (r *Repository) CountOutOfStock(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductVariant{}).
		Where("stock = 0").
		Count(&count).Error
	return count, err
}

type topSellerRow struct {
	Description string
	Quantity    int64
	Revenue     *string
}

// TopSellers ranks catalog lines sold in the window by quantity. Returned
// lines include returns, which show up as negative quantities and net out.
func (r *Repository) TopSellers(ctx context.Context, from, to time.Time, limit int) ([]topSellerRow, error) {
	var rows []topSellerRow
	err := r.db.WithContext(ctx).Model(&models.TransactionItem{}).
		Select("transaction_items.description AS description, SUM(transaction_items.quantity) AS quantity, SUM(transaction_items.line_total) AS revenue").
		Joins("JOIN transactions ON transactions.id = transaction_items.transaction_id").
		Where("transaction_items.kind = ?", "catalog").
		Where("transactions.created_at >= ? AND transactions.created_at < ?", from, to).
		Group("transaction_items.description").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
