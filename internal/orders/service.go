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

	"github.com/ardidrizi/inventory-saas/internal/audit"
	"github.com/ardidrizi/inventory-saas/internal/products"
	"github.com/ardidrizi/inventory-saas/pkg/db"
	"github.com/ardidrizi/inventory-saas/pkg/db/models"
	"github.com/ardidrizi/inventory-saas/pkg/enums"
	pkgerrors "github.com/ardidrizi/inventory-saas/pkg/errors"
	"github.com/ardidrizi/inventory-saas/pkg/metrics"
	"github.com/ardidrizi/inventory-saas/pkg/pagination"
)

// maxOrderNumberAttempts bounds regeneration when a generated order
// number collides with an existing row.
const maxOrderNumberAttempts = 5

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLocker interface {
	FindActiveForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Product, error)
	DecrementStock(ctx context.Context, tx *gorm.DB, id uuid.UUID, qty int) error
}

// Service exposes the order transaction engine.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateOrderInput) (*OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) (*ListResult, error)
	UpdateStatus(ctx context.Context, actorID, id uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
}

type service struct {
	repo      *Repository
	tx        txRunner
	products  productLocker
	recorder  audit.Recorder
	metrics   *metrics.OrderMetrics
	newNumber func(time.Time) (string, error)
}

// ServiceParams bundles the dependencies required to build the order
// engine. Metrics may be nil.
type ServiceParams struct {
	Repo     *Repository
	Tx       txRunner
	Products productLocker
	Recorder audit.Recorder
	Metrics  *metrics.OrderMetrics
}

// NewService constructs the order engine.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product store is required")
	}
	if params.Recorder == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	return &service{
		repo:      params.Repo,
		tx:        params.Tx,
		products:  params.Products,
		recorder:  params.Recorder,
		metrics:   params.Metrics,
		newNumber: NewOrderNumber,
	}, nil
}

// Create runs the whole order inside one transaction: every product row
// is locked and decremented, or none are. Item snapshots and the total
// are taken from the locked rows, so the prices a customer was quoted
// survive later catalog edits.
func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateOrderInput) (*OrderDTO, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	var order *models.Order
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		number, err := s.newNumber(time.Now().UTC())
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
		}

		candidate, err := s.createWithNumber(ctx, actorID, input, number)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				s.metrics.IncNumberRetry()
				continue
			}
			if typed := pkgerrors.As(err); typed != nil {
				if typed.Code() == pkgerrors.CodeInsufficientStock {
					s.metrics.IncInsufficientStock()
				}
				return nil, err
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}
		order = candidate
		break
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "could not allocate a unique order number")
	}

	s.metrics.IncCreated()
	s.recorder.Record(ctx, audit.Entry{
		UserID:     actorID,
		Action:     enums.AuditActionCreate,
		EntityType: enums.EntityTypeOrder,
		EntityID:   order.ID,
		Metadata: map[string]any{
			"orderNumber": order.OrderNumber,
			"totalAmount": order.TotalAmount.String(),
			"itemCount":   len(order.Items),
		},
	})
	return FromModel(order), nil
}

func (s *service) createWithNumber(ctx context.Context, actorID uuid.UUID, input CreateOrderInput, number string) (*models.Order, error) {
	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(input.Items))

		// Items are processed in caller order; each product row stays
		// locked until the transaction resolves.
		for _, line := range input.Items {
			product, err := s.products.FindActiveForUpdate(ctx, tx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
						WithDetails(map[string]any{"productId": line.ProductID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock product")
			}
			if product.Quantity < line.Quantity {
				return insufficientStock(product, line.Quantity)
			}
			if err := s.products.DecrementStock(ctx, tx, product.ID, line.Quantity); err != nil {
				if errors.Is(err, products.ErrStockConflict) {
					return insufficientStock(product, line.Quantity)
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
			}

			items = append(items, models.OrderItem{
				ID:          uuid.New(),
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				UnitPrice:   product.Price,
			})
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		candidate := &models.Order{
			ID:            uuid.New(),
			OrderNumber:   number,
			TotalAmount:   total,
			Status:        enums.OrderStatusPending,
			CustomerName:  strings.TrimSpace(input.CustomerName),
			CustomerEmail: strings.TrimSpace(input.CustomerEmail),
			CreatedBy:     actorID,
			Items:         items,
		}
		if err := s.repo.WithTx(tx).Insert(ctx, candidate); err != nil {
			return err
		}
		order = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func (s *service) List(ctx context.Context, filter ListFilter, page pagination.Params) (*ListResult, error) {
	rows, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return &ListResult{Orders: out, Meta: page.MetaFor(total)}, nil
}

// UpdateStatus sets the order's status to any of the five known values.
// Transitions are not restricted, so support staff can walk an order
// backwards after a mistaken update.
func (s *service) UpdateStatus(ctx context.Context, actorID, id uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}

	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.Entry{
		UserID:     actorID,
		Action:     enums.AuditActionUpdateStatus,
		EntityType: enums.EntityTypeOrder,
		EntityID:   id,
		Metadata:   map[string]any{"status": status.String()},
	})
	return FromModel(order), nil
}

func (s *service) findOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup order")
	}
	return order, nil
}

func validateCreateInput(input CreateOrderInput) error {
	if strings.TrimSpace(input.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(input.CustomerEmail) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	for _, line := range input.Items {
		if line.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "item product id is required")
		}
		if line.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
	}
	return nil
}

func insufficientStock(product *models.Product, requested int) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock,
		fmt.Sprintf("insufficient stock for %s", product.Name)).
		WithDetails(map[string]any{
			"productId":   product.ID,
			"productName": product.Name,
			"requested":   requested,
			"available":   product.Quantity,
		})
}
