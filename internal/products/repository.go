package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ardidrizi/inventory-saas/pkg/db/models"
	"github.com/ardidrizi/inventory-saas/pkg/pagination"
)

// ErrStockConflict reports that a guarded decrement matched no row,
// meaning the remaining stock no longer covers the requested quantity.
var ErrStockConflict = errors.New("stock conflict")

// Repository wires together product persistence helpers. Soft-deleted
// rows are invisible to every method here; they survive only for order
// history snapshots.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// FindActiveByID loads a non-deleted product.
func (r *Repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindActiveForUpdate loads a non-deleted product under a FOR UPDATE row
// lock inside the given transaction. The sqlite driver drops the locking
// clause, so callers must not rely on it alone; the guarded decrement is
// the final arbiter.
func (r *Repository) FindActiveForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DecrementStock subtracts qty from on-hand stock inside the given
// transaction. The WHERE guard keeps quantity from going negative;
// ErrStockConflict is returned when no row qualified.
func (r *Repository) DecrementStock(ctx context.Context, tx *gorm.DB, id uuid.UUID, qty int) error {
	res := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND is_deleted = ? AND quantity >= ?", id, false, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockConflict
	}
	return nil
}

// Update persists the full product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// SoftDelete marks a non-deleted product as deleted. A second call on
// the same row reports gorm.ErrRecordNotFound.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND is_deleted = ?", id, false).
		UpdateColumn("is_deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns a page of non-deleted products, newest first, plus the
// total count matching the filter.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Product, int64, error) {
	p := page.Normalize()

	qb := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_deleted = ?", false)
	if filter.Category != "" {
		qb = qb.Where("category = ?", filter.Category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		qb = qb.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := qb.
		Order("created_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CountActive returns the number of non-deleted products.
func (r *Repository) CountActive(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_deleted = ?", false).
		Count(&total).Error
	return total, err
}

// CountLowStock returns how many non-deleted products sit at or below
// the threshold.
func (r *Repository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_deleted = ? AND quantity <= ?", false, threshold).
		Count(&total).Error
	return total, err
}

// LowStock lists non-deleted products at or below the threshold,
// scarcest first.
func (r *Repository) LowStock(ctx context.Context, threshold, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("is_deleted = ? AND quantity <= ?", false, threshold).
		Order("quantity ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
