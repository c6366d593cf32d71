package orders

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
)

// Service covers restock orders from draft through receiving. Receiving is
// what moves stock; a received line writes a restock entry into the variant
// history.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, filter ListFilter, cursor string, limit int) (*OrderListResult, error)
	MarkOrdered(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	Receive(ctx context.Context, id uuid.UUID, input ReceiveInput) (*OrderDTO, error)
	Cancel(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type OrderLineInput struct {
	VariantID uuid.UUID
	Quantity  int
	UnitCost  decimal.Decimal
}

type CreateOrderInput struct {
	SupplierID   uuid.UUID
	ExpectedDate *time.Time
	Note         string
	Lines        []OrderLineInput
}

// ReceiveInput lists quantities actually delivered per line. Lines omitted
// from the map receive their full ordered quantity.
type ReceiveInput struct {
	Quantities map[uuid.UUID]int
}

type ServiceParams struct {
	Repo     *Repository
	DBClient *db.Client
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.DBClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: params.Repo, dbClient: params.DBClient}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if err := validateCreateOrder(input); err != nil {
		return nil, err
	}

	var order *models.PurchaseOrder
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		code, err := s.nextCode(ctx, txRepo)
		if err != nil {
			return err
		}

		order = &models.PurchaseOrder{
			ID:           uuid.New(),
			SupplierID:   input.SupplierID,
			Code:         code,
			Status:       enums.PurchaseOrderStatusDraft,
			ExpectedDate: input.ExpectedDate,
			Note:         strings.TrimSpace(input.Note),
		}
		for _, line := range input.Lines {
			order.Items = append(order.Items, models.PurchaseOrderItem{
				ID:              uuid.New(),
				PurchaseOrderID: order.ID,
				VariantID:       line.VariantID,
				Quantity:        line.Quantity,
				UnitCost:        line.UnitCost,
			})
		}
		if err := txRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert purchase order")
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase order")
	}
	return NewOrderDTO(order), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(order), nil
}

func (s *service) List(ctx context.Context, filter ListFilter, cursor string, limit int) (*OrderListResult, error) {
	limit = pagination.NormalizeLimit(limit)
	cur, err := pagination.ParseCursor(cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	ordersList, err := s.repo.List(ctx, filter, cur, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list purchase orders")
	}

	result := &OrderListResult{Orders: make([]OrderDTO, 0, len(ordersList))}
	if len(ordersList) > limit {
		ordersList = ordersList[:limit]
		last := ordersList[len(ordersList)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	for i := range ordersList {
		result.Orders = append(result.Orders, *NewOrderDTO(&ordersList[i]))
	}
	return result, nil
}

func (s *service) MarkOrdered(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.PurchaseOrderStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only draft orders can be sent")
	}
	order.Status = enums.PurchaseOrderStatusOrdered
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update purchase order")
	}
	return NewOrderDTO(order), nil
}

func (s *service) Receive(ctx context.Context, id uuid.UUID, input ReceiveInput) (*OrderDTO, error) {
	var received *models.PurchaseOrder
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		order, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "purchase order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load purchase order")
		}
		if order.Status != enums.PurchaseOrderStatusOrdered {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only ordered orders can be received")
		}

		for i := range order.Items {
			item := &order.Items[i]
			qty, err := receivedQuantity(item, input)
			if err != nil {
				return err
			}
			if qty == 0 {
				continue
			}

			variant, err := txRepo.RestockVariant(ctx, item.VariantID, qty)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: restock variant")
			}

			entry := &models.VariantHistory{
				ID:            uuid.New(),
				VariantID:     item.VariantID,
				Kind:          enums.VariantHistoryKindRestock,
				QuantityDelta: qty,
				StockAfter:    variant.Stock,
				ReferenceID:   &order.ID,
				Note:          "received " + order.Code,
			}
			if err := txRepo.AppendHistory(ctx, entry); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: append history")
			}

			item.ReceivedQuantity = qty
			if err := txRepo.SaveItem(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order item")
			}
		}

		order.Status = enums.PurchaseOrderStatusReceived
		if err := txRepo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update purchase order")
		}
		received = order
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "receive purchase order")
	}
	return NewOrderDTO(received), nil
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == enums.PurchaseOrderStatusReceived {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "received orders cannot be cancelled")
	}
	if order.Status == enums.PurchaseOrderStatusCancelled {
		return NewOrderDTO(order), nil
	}
	order.Status = enums.PurchaseOrderStatusCancelled
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update purchase order")
	}
	return NewOrderDTO(order), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != enums.PurchaseOrderStatusDraft && order.Status != enums.PurchaseOrderStatusCancelled {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "only draft or cancelled orders can be deleted")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete purchase order")
	}
	return nil
}

func (s *service) findOrder(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load purchase order")
	}
	return order, nil
}

func (s *service) nextCode(ctx context.Context, repo *Repository) (string, error) {
	prefix := "PO-" + time.Now().UTC().Format("20060102") + "-"
	count, err := repo.CountByCodePrefix(ctx, prefix)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count order codes")
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

func validateCreateOrder(input CreateOrderInput) error {
	if input.SupplierID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "supplier required")
	}
	if len(input.Lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one line")
	}
	for _, line := range input.Lines {
		if line.VariantID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "line variant required")
		}
		if line.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		if line.UnitCost.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "line cost cannot be negative")
		}
	}
	return nil
}

func receivedQuantity(item *models.PurchaseOrderItem, input ReceiveInput) (int, error) {
	if input.Quantities == nil {
		return item.Quantity, nil
	}
	qty, ok := input.Quantities[item.ID]
	if !ok {
		return item.Quantity, nil
	}
	if qty < 0 || qty > item.Quantity {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "received quantity out of range")
	}
	return qty, nil
}
