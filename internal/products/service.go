package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ardidrizi/inventory-saas/internal/audit"
	"github.com/ardidrizi/inventory-saas/pkg/db"
	"github.com/ardidrizi/inventory-saas/pkg/db/models"
	"github.com/ardidrizi/inventory-saas/pkg/enums"
	pkgerrors "github.com/ardidrizi/inventory-saas/pkg/errors"
	"github.com/ardidrizi/inventory-saas/pkg/pagination"
)

// Service exposes catalog management operations.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, actorID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, actorID, productID uuid.UUID) error
	Get(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) (*ListResult, error)
}

type productStore interface {
	Create(ctx context.Context, product *models.Product) error
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Product, int64, error)
}

type service struct {
	repo     productStore
	recorder audit.Recorder
}

// ServiceParams bundles the dependencies required to build a catalog service.
type ServiceParams struct {
	Repo     productStore
	Recorder audit.Recorder
}

// NewService constructs a catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.Recorder == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	return &service{repo: params.Repo, recorder: params.Recorder}, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	sku := NormalizeSKU(input.SKU)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	product := &models.Product{
		ID:          uuid.New(),
		Name:        name,
		SKU:         sku,
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Quantity:    input.Quantity,
		Category:    strings.TrimSpace(input.Category),
	}
	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists").
				WithDetails(map[string]any{"sku": sku})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert product")
	}

	s.recorder.Record(ctx, audit.Entry{
		UserID:     actorID,
		Action:     enums.AuditActionCreate,
		EntityType: enums.EntityTypeProduct,
		EntityID:   product.ID,
		Metadata:   map[string]any{"sku": product.SKU, "name": product.Name},
	})
	return FromModel(product), nil
}

func (s *service) Update(ctx context.Context, actorID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.findActive(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := applyUpdate(product, input); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists").
				WithDetails(map[string]any{"sku": product.SKU})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}

	s.recorder.Record(ctx, audit.Entry{
		UserID:     actorID,
		Action:     enums.AuditActionUpdate,
		EntityType: enums.EntityTypeProduct,
		EntityID:   product.ID,
		Metadata:   map[string]any{"sku": product.SKU},
	})
	return FromModel(product), nil
}

func (s *service) Delete(ctx context.Context, actorID, productID uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}

	s.recorder.Record(ctx, audit.Entry{
		UserID:     actorID,
		Action:     enums.AuditActionDelete,
		EntityType: enums.EntityTypeProduct,
		EntityID:   productID,
	})
	return nil
}

func (s *service) Get(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.findActive(ctx, productID)
	if err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

func (s *service) List(ctx context.Context, filter ListFilter, page pagination.Params) (*ListResult, error) {
	rows, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return &ListResult{Products: out, Meta: page.MetaFor(total)}, nil
}

func (s *service) findActive(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	return product, nil
}

func applyUpdate(product *models.Product, input UpdateProductInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = name
	}
	if input.SKU != nil {
		sku := NormalizeSKU(*input.SKU)
		if sku == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "sku cannot be empty")
		}
		product.SKU = sku
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
		}
		product.Quantity = *input.Quantity
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	return nil
}
