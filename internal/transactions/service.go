package transactions

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

// Service exposes receivables operations: payments, returns, consolidation,
// and the admin delete.
type Service interface {
	List(ctx context.Context, input ListInput) (*TransactionListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*TransactionDTO, error)
	RecordPayment(ctx context.Context, id uuid.UUID, input PaymentInput) (*TransactionDTO, error)
	Return(ctx context.Context, id uuid.UUID, input ReturnInput) (*ReturnResult, error)
	Consolidate(ctx context.Context, input ConsolidateInput) (*TransactionDTO, error)
	Unconsolidate(ctx context.Context, successorID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ListInput struct {
	CustomerID  *uuid.UUID
	Status      *enums.PaymentStatus
	OverdueOnly bool
	Pagination  pagination.Params
}

type PaymentInput struct {
	Amount     decimal.Decimal
	Method     enums.PaymentMethod
	Reference  string
	ReceivedBy *uuid.UUID
}

// ReturnLine selects an item row and how many units come back.
type ReturnLine struct {
	ItemID   uuid.UUID
	Quantity int
}

type ReturnInput struct {
	Lines   []ReturnLine
	Restock bool
	Note    string
}

type ReturnResult struct {
	Transaction *TransactionDTO `json:"transaction"`
	CreditID    uuid.UUID       `json:"credit_id"`
	CreditTotal decimal.Decimal `json:"credit_total"`
}

type ConsolidateInput struct {
	CustomerID     uuid.UUID
	TransactionIDs []uuid.UUID
	DueDate        *time.Time
	OperatorID     *uuid.UUID
}

// ServiceParams collects the service dependencies.
type ServiceParams struct {
	Repo     *Repository
	DBClient *db.Client
	// MinConsolidation is the smallest number of open invoices worth merging.
	MinConsolidation int
	Now              func() time.Time
}

type service struct {
	repo             *Repository
	dbClient         *db.Client
	minConsolidation int
	now              func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("transactions repository required")
	}
	if params.DBClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.MinConsolidation < 2 {
		params.MinConsolidation = 2
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		repo:             params.Repo,
		dbClient:         params.DBClient,
		minConsolidation: params.MinConsolidation,
		now:              params.Now,
	}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*TransactionListResult, error) {
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(input.Pagination.Limit)

	now := s.now()
	filter := ListFilter{CustomerID: input.CustomerID, Status: input.Status}
	if input.OverdueOnly {
		filter.OverdueBefore = &now
	}
	txns, err := s.repo.List(ctx, filter, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list transactions")
	}

	hasMore := len(txns) > limit
	if hasMore {
		txns = txns[:limit]
	}

	result := &TransactionListResult{Transactions: make([]TransactionDTO, 0, len(txns))}
	for i := range txns {
		result.Transactions = append(result.Transactions, *NewTransactionDTO(&txns[i], now))
	}
	if hasMore {
		last := txns[len(txns)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*TransactionDTO, error) {
	txn, err := s.loadTransaction(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return NewTransactionDTO(txn, s.now()), nil
}

// RecordPayment applies the payment rule and appends the record in one DB
// transaction. The stored row only changes after the rule passed.
func (s *service) RecordPayment(ctx context.Context, id uuid.UUID, input PaymentInput) (*TransactionDTO, error) {
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	var updated *models.Transaction
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txn, err := s.loadTransaction(ctx, txRepo, id)
		if err != nil {
			return err
		}
		if !txn.Status.AcceptsPayment() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "transaction no longer accepts payments").
				WithDetails(map[string]string{"status": txn.Status.String()})
		}

		newPaid, status, err := payment.Apply(txn.Total, txn.PaidAmount, input.Amount)
		if err != nil {
			return err
		}

		record := &models.PaymentRecord{
			ID:            uuid.New(),
			TransactionID: txn.ID,
			Amount:        input.Amount,
			Method:        input.Method,
			Reference:     strings.TrimSpace(input.Reference),
			ReceivedBy:    input.ReceivedBy,
		}
		if err := txRepo.CreatePaymentRecord(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert payment record")
		}

		txn.PaidAmount = newPaid
		txn.Status = status
		if err := txRepo.Save(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update transaction")
		}
		updated = txn
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment")
	}

	return s.Get(ctx, updated.ID)
}

// Return appends negative item rows, restocks catalog lines when asked, and
// issues the store credit, all in one DB transaction.
func (s *service) Return(ctx context.Context, id uuid.UUID, input ReturnInput) (*ReturnResult, error) {
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no return lines")
	}

	var (
		creditID    uuid.UUID
		creditTotal decimal.Decimal
	)

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txn, err := s.loadTransaction(ctx, txRepo, id)
		if err != nil {
			return err
		}
		if txn.CustomerID == nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "returns need a customer to credit")
		}
		if txn.Status == enums.PaymentStatusConsolidated {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot return against a consolidated invoice")
		}

		itemsByID := make(map[uuid.UUID]*models.TransactionItem, len(txn.Items))
		remaining := make(map[uuid.UUID]int, len(txn.Items))
		for i := range txn.Items {
			item := &txn.Items[i]
			if item.Quantity > 0 {
				itemsByID[item.ID] = item
				remaining[item.ID] += item.Quantity
			} else if item.ReturnedItemID != nil {
				remaining[*item.ReturnedItemID] += item.Quantity
			}
		}

		total := decimal.Zero
		returnRows := make([]models.TransactionItem, 0, len(input.Lines))
		for _, line := range input.Lines {
			item, ok := itemsByID[line.ItemID]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not on this invoice")
			}
			if line.Quantity <= 0 || line.Quantity > remaining[line.ItemID] {
				return pkgerrors.New(pkgerrors.CodeValidation, "return exceeds remaining quantity").
					WithDetails(map[string]any{
						"item_id":   line.ItemID,
						"quantity":  line.Quantity,
						"remaining": remaining[line.ItemID],
					})
			}
			remaining[line.ItemID] -= line.Quantity

			lineCredit := item.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(lineCredit)
			returnedID := item.ID
			returnRows = append(returnRows, models.TransactionItem{
				ID:             uuid.New(),
				TransactionID:  txn.ID,
				VariantID:      item.VariantID,
				ReturnedItemID: &returnedID,
				Kind:           item.Kind,
				Description:    "return: " + item.Description,
				Quantity:       -line.Quantity,
				UnitPrice:      item.UnitPrice,
				UnitCost:       item.UnitCost,
				LineTotal:      lineCredit.Neg(),
			})

			if input.Restock && item.VariantID != nil {
				variant, err := txRepo.RestockVariant(ctx, *item.VariantID, line.Quantity)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: restock variant")
				}
				entry := &models.VariantHistory{
					ID:            uuid.New(),
					VariantID:     variant.ID,
					Kind:          enums.VariantHistoryKindReturn,
					QuantityDelta: line.Quantity,
					StockAfter:    variant.Stock,
					ReferenceID:   &txn.ID,
					Note:          strings.TrimSpace(input.Note),
				}
				if err := txRepo.AppendHistory(ctx, entry); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert history")
				}
			}
		}

		if err := txRepo.CreateItems(ctx, returnRows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert return items")
		}

		credit := &models.StoreCredit{
			ID:                  uuid.New(),
			CustomerID:          *txn.CustomerID,
			Amount:              total,
			SourceTransactionID: &txn.ID,
			Note:                strings.TrimSpace(input.Note),
		}
		if err := txRepo.CreateStoreCredit(ctx, credit); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert store credit")
		}

		creditID = credit.ID
		creditTotal = total
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "process return")
	}

	dto, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ReturnResult{Transaction: dto, CreditID: creditID, CreditTotal: creditTotal}, nil
}

// Consolidate folds the customer's selected open invoices into one successor
// carrying their summed outstanding as a balance-forward line.
func (s *service) Consolidate(ctx context.Context, input ConsolidateInput) (*TransactionDTO, error) {
	if len(input.TransactionIDs) < s.minConsolidation {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("consolidation needs at least %d invoices", s.minConsolidation))
	}

	var successorID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		outstanding := decimal.Zero
		originals := make([]*models.Transaction, 0, len(input.TransactionIDs))
		for _, id := range input.TransactionIDs {
			txn, err := s.loadTransaction(ctx, txRepo, id)
			if err != nil {
				return err
			}
			if txn.CustomerID == nil || *txn.CustomerID != input.CustomerID {
				return pkgerrors.New(pkgerrors.CodeValidation, "invoice belongs to another customer").
					WithDetails(map[string]any{"transaction_id": id})
			}
			if !txn.Status.AcceptsPayment() {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "invoice is not open").
					WithDetails(map[string]any{"transaction_id": id, "status": txn.Status.String()})
			}
			outstanding = outstanding.Add(txn.Outstanding())
			originals = append(originals, txn)
		}
		if !outstanding.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "nothing outstanding to consolidate")
		}

		code, err := s.nextCode(ctx, txRepo)
		if err != nil {
			return err
		}

		successorID = uuid.New()
		successor := &models.Transaction{
			ID:             successorID,
			Code:           code,
			CustomerID:     &input.CustomerID,
			CashierID:      input.OperatorID,
			Tier:           originals[0].Tier,
			VATIncluded:    false,
			Subtotal:       decimal.Zero,
			Tax:            decimal.Zero,
			BalanceForward: outstanding,
			Total:          outstanding,
			PaidAmount:     decimal.Zero,
			Status:         enums.PaymentStatusUnpaid,
			DueDate:        input.DueDate,
			Items: []models.TransactionItem{{
				ID:            uuid.New(),
				TransactionID: successorID,
				Kind:          enums.ItemKindBalanceForward,
				Description:   fmt.Sprintf("balance forward (%d invoices)", len(originals)),
				Quantity:      1,
				UnitPrice:     outstanding,
				LineTotal:     outstanding,
			}},
		}
		if err := txRepo.Create(ctx, successor); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert successor")
		}

		for _, txn := range originals {
			txn.Status = enums.PaymentStatusConsolidated
			txn.ConsolidatedInto = &successorID
			if err := txRepo.Save(ctx, txn); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark consolidated")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consolidate")
	}

	return s.Get(ctx, successorID)
}

// Unconsolidate reverses a consolidation. Refused once the successor has
// taken any payment; each original's status is recomputed from its stored
// amounts.
func (s *service) Unconsolidate(ctx context.Context, successorID uuid.UUID) error {
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		successor, err := s.loadTransaction(ctx, txRepo, successorID)
		if err != nil {
			return err
		}

		originals, err := txRepo.ListByConsolidationTarget(ctx, successorID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list originals")
		}
		if len(originals) == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "not a consolidation invoice")
		}

		payments, err := txRepo.CountPayments(ctx, successorID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count payments")
		}
		if payments > 0 || successor.PaidAmount.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "successor already has payments")
		}

		for i := range originals {
			original := &originals[i]
			original.Status = payment.StatusFor(original.Total, original.PaidAmount)
			original.ConsolidatedInto = nil
			if err := txRepo.Save(ctx, original); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: restore original")
			}
		}

		if err := txRepo.HardDelete(ctx, successorID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete successor")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unconsolidate")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	txn, err := s.loadTransaction(ctx, s.repo, id)
	if err != nil {
		return err
	}
	if txn.Status == enums.PaymentStatusConsolidated {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "unconsolidate before deleting")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete transaction")
	}
	return nil
}

func (s *service) loadTransaction(ctx context.Context, repo *Repository, id uuid.UUID) (*models.Transaction, error) {
	txn, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load transaction")
	}
	return txn, nil
}

func (s *service) nextCode(ctx context.Context, repo *Repository) (string, error) {
	prefix := "INV-" + s.now().UTC().Format("20060102")
	count, err := repo.CountByCodePrefix(ctx, prefix)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count invoices")
	}
	return fmt.Sprintf("%s-%04d", prefix, count+1), nil
}
