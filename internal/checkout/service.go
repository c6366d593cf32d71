package checkout

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
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/payment"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/pricing"
)

// Service turns a cart into a persisted sale.
type Service interface {
	// Quote prices the cart without touching stock or writing anything.
	Quote(ctx context.Context, input CartInput) (*QuoteResult, error)
	// Commit creates the transaction atomically: stock decremented under
	// guard, credit consumed, items snapshotted. Any failure rolls the
	// whole sale back.
	Commit(ctx context.Context, input CartInput) (*CommitResult, error)
}

// MarkupSource yields the outsource markup percent default.
type MarkupSource interface {
	OutsourceMarkupPercent(ctx context.Context) decimal.Decimal
}

// Invalidator drops cached catalog entries after stock moves.
type Invalidator interface {
	Invalidate(ctx context.Context, productIDs ...uuid.UUID) error
}

// LineInput is one requested cart line. Exactly one of the three kinds:
// catalog (VariantID or Code), outsourced (Cost [+ MarkupPercent]), misc
// (UnitPrice).
type LineInput struct {
	Kind          enums.ItemKind
	VariantID     *uuid.UUID
	Code          string
	Quantity      int
	Description   string
	Cost          decimal.Decimal
	MarkupPercent *decimal.Decimal
	UnitPrice     decimal.Decimal
}

// PaymentInput is an optional payment taken at the counter with the sale.
type PaymentInput struct {
	Amount    decimal.Decimal
	Method    enums.PaymentMethod
	Reference string
}

// CartInput is the full checkout payload.
type CartInput struct {
	CustomerID     *uuid.UUID
	Tier           enums.CustomerTier
	VATIncluded    bool
	TransportFee   decimal.Decimal
	BalanceForward decimal.Decimal
	CreditID       *uuid.UUID
	DueDate        *time.Time
	CashierID      *uuid.UUID
	Note           string
	Lines          []LineInput
	InitialPayment *PaymentInput
}

// ResolvedLine is a priced cart line ready to persist.
type ResolvedLine struct {
	VariantID   *uuid.UUID
	ProductID   *uuid.UUID
	Kind        enums.ItemKind
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	UnitCost    decimal.Decimal
}

type QuoteResult struct {
	Quote pricing.Quote  `json:"quote"`
	Lines []ResolvedLine `json:"lines"`
}

type CommitResult struct {
	TransactionID uuid.UUID           `json:"transaction_id"`
	Code          string              `json:"code"`
	Quote         pricing.Quote       `json:"quote"`
	PaidAmount    decimal.Decimal     `json:"paid_amount"`
	Status        enums.PaymentStatus `json:"status"`
}

// ServiceParams collects the service dependencies.
type ServiceParams struct {
	Repo        *Repository
	DBClient    *db.Client
	Markup      MarkupSource
	Invalidator Invalidator
}

type service struct {
	repo        *Repository
	dbClient    *db.Client
	markup      MarkupSource
	invalidator Invalidator
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if params.DBClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Markup == nil {
		return nil, fmt.Errorf("markup source required")
	}
	return &service{
		repo:        params.Repo,
		dbClient:    params.DBClient,
		markup:      params.Markup,
		invalidator: params.Invalidator,
	}, nil
}

func (s *service) Quote(ctx context.Context, input CartInput) (*QuoteResult, error) {
	if err := validateCart(input); err != nil {
		return nil, err
	}

	lines, err := s.resolveLines(ctx, s.repo, input)
	if err != nil {
		return nil, err
	}

	credit, err := s.loadCredit(ctx, s.repo, input)
	if err != nil {
		return nil, err
	}

	quote, err := computeQuote(input, lines, creditAmount(credit))
	if err != nil {
		return nil, err
	}
	return &QuoteResult{Quote: quote, Lines: lines}, nil
}

func (s *service) Commit(ctx context.Context, input CartInput) (*CommitResult, error) {
	if err := validateCart(input); err != nil {
		return nil, err
	}

	var (
		result     CommitResult
		productIDs []uuid.UUID
	)

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txnID := uuid.New()

		lines := make([]ResolvedLine, 0, len(input.Lines))
		for _, line := range input.Lines {
			resolved, err := s.resolveLine(ctx, txRepo, input.Tier, line)
			if err != nil {
				return err
			}
			if resolved.Kind == enums.ItemKindCatalog {
				variant, err := txRepo.DecrementStock(ctx, *resolved.VariantID, resolved.Quantity)
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
							WithDetails(map[string]any{"variant_id": resolved.VariantID, "quantity": resolved.Quantity})
					}
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement stock")
				}
				entry := &models.VariantHistory{
					ID:            uuid.New(),
					VariantID:     variant.ID,
					Kind:          enums.VariantHistoryKindSale,
					QuantityDelta: -resolved.Quantity,
					StockAfter:    variant.Stock,
					ReferenceID:   &txnID,
				}
				if err := txRepo.AppendHistory(ctx, entry); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert history")
				}
				productIDs = append(productIDs, variant.ProductID)
			}
			lines = append(lines, resolved)
		}

		credit, err := s.loadCredit(ctx, txRepo, input)
		if err != nil {
			return err
		}

		quote, err := computeQuote(input, lines, creditAmount(credit))
		if err != nil {
			return err
		}

		code, err := s.nextCode(ctx, txRepo)
		if err != nil {
			return err
		}

		txn := &models.Transaction{
			ID:             txnID,
			Code:           code,
			CustomerID:     input.CustomerID,
			CashierID:      input.CashierID,
			Tier:           input.Tier,
			VATIncluded:    quote.VATIncluded,
			Subtotal:       quote.Subtotal,
			Tax:            quote.Tax,
			TransportFee:   input.TransportFee,
			BalanceForward: input.BalanceForward,
			CreditApplied:  quote.CreditApplied,
			Total:          quote.Total,
			PaidAmount:     decimal.Zero,
			Status:         payment.StatusFor(quote.Total, decimal.Zero),
			DueDate:        input.DueDate,
			Note:           strings.TrimSpace(input.Note),
			Items:          buildItemModels(txnID, lines),
		}
		if err := txRepo.CreateTransaction(ctx, txn); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "invoice code collision")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert transaction")
		}

		if credit != nil {
			if err := txRepo.MarkCreditUsed(ctx, credit.ID, txnID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeStateConflict, "store credit already used")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark credit used")
			}
		}

		if input.InitialPayment != nil {
			newPaid, status, err := payment.Apply(txn.Total, txn.PaidAmount, input.InitialPayment.Amount)
			if err != nil {
				return err
			}
			record := &models.PaymentRecord{
				ID:            uuid.New(),
				TransactionID: txnID,
				Amount:        input.InitialPayment.Amount,
				Method:        input.InitialPayment.Method,
				Reference:     strings.TrimSpace(input.InitialPayment.Reference),
				ReceivedBy:    input.CashierID,
			}
			if err := txRepo.CreatePaymentRecord(ctx, record); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert payment record")
			}
			txn.PaidAmount = newPaid
			txn.Status = status
			if err := txRepo.UpdateTransaction(ctx, txn); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update transaction")
			}
		}

		result = CommitResult{
			TransactionID: txnID,
			Code:          code,
			Quote:         quote,
			PaidAmount:    txn.PaidAmount,
			Status:        txn.Status,
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "commit checkout")
	}

	if s.invalidator != nil && len(productIDs) > 0 {
		if err := s.invalidator.Invalidate(ctx, productIDs...); err != nil {
			return nil, err
		}
	}
	return &result, nil
}

func (s *service) resolveLines(ctx context.Context, repo *Repository, input CartInput) ([]ResolvedLine, error) {
	lines := make([]ResolvedLine, 0, len(input.Lines))
	for _, line := range input.Lines {
		resolved, err := s.resolveLine(ctx, repo, input.Tier, line)
		if err != nil {
			return nil, err
		}
		lines = append(lines, resolved)
	}
	return lines, nil
}

func (s *service) resolveLine(ctx context.Context, repo *Repository, tier enums.CustomerTier, line LineInput) (ResolvedLine, error) {
	if line.Quantity <= 0 {
		return ResolvedLine{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	switch line.Kind {
	case enums.ItemKindCatalog:
		variant, err := s.lookupVariant(ctx, repo, line)
		if err != nil {
			return ResolvedLine{}, err
		}
		return ResolvedLine{
			VariantID:   &variant.ID,
			ProductID:   &variant.ProductID,
			Kind:        enums.ItemKindCatalog,
			Description: variant.Name,
			Quantity:    line.Quantity,
			UnitPrice:   variant.Prices().ForTier(tier),
			UnitCost:    variant.Cost,
		}, nil

	case enums.ItemKindOutsourced:
		if !line.Cost.IsPositive() {
			return ResolvedLine{}, pkgerrors.New(pkgerrors.CodeValidation, "outsourced cost must be positive")
		}
		markup := s.markup.OutsourceMarkupPercent(ctx)
		if line.MarkupPercent != nil {
			markup = *line.MarkupPercent
		}
		price, err := pricing.OutsourcedPrice(line.Cost, markup)
		if err != nil {
			return ResolvedLine{}, err
		}
		return ResolvedLine{
			Kind:        enums.ItemKindOutsourced,
			Description: strings.TrimSpace(line.Description),
			Quantity:    line.Quantity,
			UnitPrice:   price,
			UnitCost:    line.Cost,
		}, nil

	case enums.ItemKindMisc:
		if line.UnitPrice.IsNegative() {
			return ResolvedLine{}, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
		}
		if strings.TrimSpace(line.Description) == "" {
			return ResolvedLine{}, pkgerrors.New(pkgerrors.CodeValidation, "misc line needs a description")
		}
		return ResolvedLine{
			Kind:        enums.ItemKindMisc,
			Description: strings.TrimSpace(line.Description),
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			UnitCost:    line.Cost,
		}, nil

	default:
		return ResolvedLine{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid line kind")
	}
}

func (s *service) lookupVariant(ctx context.Context, repo *Repository, line LineInput) (*models.ProductVariant, error) {
	var (
		variant *models.ProductVariant
		err     error
	)
	switch {
	case line.VariantID != nil:
		variant, err = repo.FindVariant(ctx, *line.VariantID)
	case strings.TrimSpace(line.Code) != "":
		variant, err = repo.FindVariantByCode(ctx, strings.TrimSpace(line.Code))
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog line needs a variant id or code")
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find variant")
	}
	return variant, nil
}

// loadCredit validates redeemability, not the amount; the amount rule lives
// in pricing.Compute.
func (s *service) loadCredit(ctx context.Context, repo *Repository, input CartInput) (*models.StoreCredit, error) {
	if input.CreditID == nil {
		return nil, nil
	}
	if input.CustomerID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store credit requires a customer")
	}
	credit, err := repo.FindStoreCredit(ctx, *input.CreditID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store credit not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find store credit")
	}
	if credit.IsUsed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "store credit already used")
	}
	if credit.CustomerID != *input.CustomerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store credit belongs to another customer")
	}
	return credit, nil
}

func (s *service) nextCode(ctx context.Context, repo *Repository) (string, error) {
	prefix := "INV-" + time.Now().UTC().Format("20060102")
	count, err := repo.CountTransactionsSince(ctx, prefix)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count invoices")
	}
	return fmt.Sprintf("%s-%04d", prefix, count+1), nil
}

func validateCart(input CartInput) error {
	if !input.Tier.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid customer tier")
	}
	if len(input.Lines) == 0 && !input.BalanceForward.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	return nil
}

// computeQuote maps resolved lines into the pricing engine.
func computeQuote(input CartInput, lines []ResolvedLine, credit decimal.Decimal) (pricing.Quote, error) {
	items := make([]pricing.LineItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, pricing.LineItem{
			Prices: pricing.Uniform(line.UnitPrice, line.UnitCost),
			Qty:    line.Quantity,
		})
	}
	return pricing.Compute(pricing.QuoteInput{
		Items:          items,
		Tier:           input.Tier,
		VATIncluded:    input.VATIncluded,
		TransportFee:   input.TransportFee,
		BalanceForward: input.BalanceForward,
		Credit:         credit,
	})
}

func creditAmount(credit *models.StoreCredit) decimal.Decimal {
	if credit == nil {
		return decimal.Zero
	}
	return credit.Amount
}

func buildItemModels(txnID uuid.UUID, lines []ResolvedLine) []models.TransactionItem {
	items := make([]models.TransactionItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.TransactionItem{
			ID:            uuid.New(),
			TransactionID: txnID,
			VariantID:     line.VariantID,
			Kind:          line.Kind,
			Description:   line.Description,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			UnitCost:      line.UnitCost,
			LineTotal:     line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}
	return items
}
