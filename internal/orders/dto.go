package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ardidrizi/inventory-saas/pkg/db/models"
	"github.com/ardidrizi/inventory-saas/pkg/enums"
	"github.com/ardidrizi/inventory-saas/pkg/pagination"
)

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// CreateOrderInput holds the payload to create an order.
type CreateOrderInput struct {
	CustomerName  string           `json:"customerName" validate:"required"`
	CustomerEmail string           `json:"customerEmail" validate:"required,email"`
	Items         []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// OrderItemDTO is the API shape of a committed order line. Name and
// unit price are snapshots taken at order time.
type OrderItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// OrderDTO is the API representation of an order.
type OrderDTO struct {
	ID            uuid.UUID         `json:"id"`
	OrderNumber   string            `json:"orderNumber"`
	Status        enums.OrderStatus `json:"status"`
	TotalAmount   decimal.Decimal   `json:"totalAmount"`
	CustomerName  string            `json:"customerName"`
	CustomerEmail string            `json:"customerEmail"`
	CreatedBy     uuid.UUID         `json:"createdBy"`
	CreatorName   string            `json:"creatorName,omitempty"`
	Items         []OrderItemDTO    `json:"items"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// ListFilter narrows order listings.
type ListFilter struct {
	Status *enums.OrderStatus
}

// ListResult pairs a page of orders with its pagination metadata.
type ListResult struct {
	Orders []OrderDTO      `json:"orders"`
	Meta   pagination.Meta `json:"meta"`
}

// FromModel converts a stored order into its API shape.
func FromModel(order *models.Order) *OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}

	dto := &OrderDTO{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		TotalAmount:   order.TotalAmount,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		CreatedBy:     order.CreatedBy,
		Items:         items,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	if order.Creator != nil {
		dto.CreatorName = order.Creator.Name
	}
	return dto
}
