package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/pattarapol-dev/srisawat-pos-backend/pkg/errors"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/payment"
)

const topSellerLimit = 10

// thresholdSource yields the current low-stock threshold; settings backs it.
type thresholdSource interface {
	LowStockThreshold(ctx context.Context) int
}

type Service interface {
	Summary(ctx context.Context, from, to time.Time) (*SummaryDTO, error)
}

type SalesDTO struct {
	InvoiceTotal decimal.Decimal `json:"invoice_total"`
	InvoiceCount int64           `json:"invoice_count"`
	Collected    decimal.Decimal `json:"collected"`
}

type ReceivablesDTO struct {
	Outstanding  decimal.Decimal `json:"outstanding"`
	OpenInvoices int64           `json:"open_invoices"`
	Overdue      decimal.Decimal `json:"overdue"`
	OverdueCount int64           `json:"overdue_count"`
}

type PayablesDTO struct {
	Outstanding  decimal.Decimal `json:"outstanding"`
	OpenBills    int64           `json:"open_bills"`
	Overdue      decimal.Decimal `json:"overdue"`
	OverdueCount int64           `json:"overdue_count"`
}

type StockDTO struct {
	LowStock   int64 `json:"low_stock"`
	OutOfStock int64 `json:"out_of_stock"`
}

type TopSellerDTO struct {
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type SummaryDTO struct {
	From        time.Time      `json:"from"`
	To          time.Time      `json:"to"`
	Sales       SalesDTO       `json:"sales"`
	Receivables ReceivablesDTO `json:"receivables"`
	Payables    PayablesDTO    `json:"payables"`
	Stock       StockDTO       `json:"stock"`
	TopSellers  []TopSellerDTO `json:"top_sellers"`
}

type ServiceParams struct {
	Repo       *Repository
	Thresholds thresholdSource
	Now        func() time.Time
}

type service struct {
	repo       *Repository
	thresholds thresholdSource
	now        func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	if params.Thresholds == nil {
		return nil, fmt.Errorf("threshold source required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{repo: params.Repo, thresholds: params.Thresholds, now: params.Now}, nil
}

func (s *service) Summary(ctx context.Context, from, to time.Time) (*SummaryDTO, error) {
	if !to.After(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "time range is empty")
	}
	now := s.now()

	invoiceTotal, invoiceCount, err := s.repo.SalesTotals(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sales totals")
	}
	collected, err := s.repo.PaymentsTotal(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: payments total")
	}

	receivables, err := s.receivables(ctx, now)
	if err != nil {
		return nil, err
	}
	payables, err := s.payables(ctx, now)
	if err != nil {
		return nil, err
	}

	threshold := s.thresholds.LowStockThreshold(ctx)
	lowStock, err := s.repo.CountLowStock(ctx, threshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count low stock")
	}
	outOfStock, err := s.repo.CountOutOfStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count out of stock")
	}

	sellers, err := s.topSellers(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &SummaryDTO{
		From: from,
		To:   to,
		Sales: SalesDTO{
			InvoiceTotal: invoiceTotal,
			InvoiceCount: invoiceCount,
			Collected:    collected,
		},
		Receivables: *receivables,
		Payables:    *payables,
		Stock:       StockDTO{LowStock: lowStock, OutOfStock: outOfStock},
		TopSellers:  sellers,
	}, nil
}

func (s *service) receivables(ctx context.Context, now time.Time) (*ReceivablesDTO, error) {
	open, err := s.repo.OpenReceivables(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: open receivables")
	}
	dto := &ReceivablesDTO{Outstanding: decimal.Zero, Overdue: decimal.Zero}
	for i := range open {
		outstanding := open[i].Outstanding()
		dto.OpenInvoices++
		dto.Outstanding = dto.Outstanding.Add(outstanding)
		if payment.IsOverdue(open[i].Status, open[i].DueDate, now) {
			dto.OverdueCount++
			dto.Overdue = dto.Overdue.Add(outstanding)
		}
	}
	return dto, nil
}

func (s *service) payables(ctx context.Context, now time.Time) (*PayablesDTO, error) {
	open, err := s.repo.OpenPayables(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: open payables")
	}
	dto := &PayablesDTO{Outstanding: decimal.Zero, Overdue: decimal.Zero}
	for i := range open {
		outstanding := open[i].Outstanding()
		dto.OpenBills++
		dto.Outstanding = dto.Outstanding.Add(outstanding)
		if open[i].DueDate != nil && payment.BillIsOverdue(open[i].Status, *open[i].DueDate, now) {
			dto.OverdueCount++
			dto.Overdue = dto.Overdue.Add(outstanding)
		}
	}
	return dto, nil
}

func (s *service) topSellers(ctx context.Context, from, to time.Time) ([]TopSellerDTO, error) {
	rows, err := s.repo.TopSellers(ctx, from, to, topSellerLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: top sellers")
	}
	sellers := make([]TopSellerDTO, 0, len(rows))
	for _, row := range rows {
		revenue := decimal.Zero
		if row.Revenue != nil {
			revenue, err = decimal.NewFromString(*row.Revenue)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse revenue")
			}
		}
		sellers = append(sellers, TopSellerDTO{
			Description: row.Description,
			Quantity:    row.Quantity,
			Revenue:     revenue,
		})
	}
	return sellers, nil
}
