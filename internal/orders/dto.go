package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/db/models"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/enums"
)

type ItemDTO struct {
	ID               uuid.UUID       `json:"id"`
	VariantID        uuid.UUID       `json:"variant_id"`
	Quantity         int             `json:"quantity"`
	ReceivedQuantity int             `json:"received_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	LineCost         decimal.Decimal `json:"line_cost"`
}

type OrderDTO struct {
	ID           uuid.UUID                 `json:"id"`
	Code         string                    `json:"code"`
	SupplierID   uuid.UUID                 `json:"supplier_id"`
	SupplierName string                    `json:"supplier_name,omitempty"`
	Status       enums.PurchaseOrderStatus `json:"status"`
	ExpectedDate *time.Time                `json:"expected_date,omitempty"`
	Note         string                    `json:"note,omitempty"`
	Total        decimal.Decimal           `json:"total"`
	Items        []ItemDTO                 `json:"items,omitempty"`
	CreatedAt    time.Time                 `json:"created_at"`
}

type OrderListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func NewOrderDTO(o *models.PurchaseOrder) *OrderDTO {
	dto := &OrderDTO{
		ID:           o.ID,
		Code:         o.Code,
		SupplierID:   o.SupplierID,
		Status:       o.Status,
		ExpectedDate: o.ExpectedDate,
		Note:         o.Note,
		Total:        decimal.Zero,
		CreatedAt:    o.CreatedAt,
	}
	if o.Supplier != nil {
		dto.SupplierName = o.Supplier.Name
	}
	for i := range o.Items {
		item := &o.Items[i]
		lineCost := item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity)))
		dto.Items = append(dto.Items, ItemDTO{
			ID:               item.ID,
			VariantID:        item.VariantID,
			Quantity:         item.Quantity,
			ReceivedQuantity: item.ReceivedQuantity,
			UnitCost:         item.UnitCost,
			LineCost:         lineCost,
		})
		dto.Total = dto.Total.Add(lineCost)
	}
	return dto
}
