package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ardidrizi/inventory-saas/pkg/db/models"
	"github.com/ardidrizi/inventory-saas/pkg/enums"
)

// Repository aggregates order and user figures for the dashboard.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CountOrders returns the total number of orders.
func (r *Repository) CountOrders(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&total).Error
	return total, err
}

// CountUsers returns the total number of accounts.
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error
	return total, err
}

// Revenue sums order totals, skipping cancelled orders.
func (r *Repository) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var row struct {
		Total decimal.NullDecimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("SUM(total_amount) AS total").
		Where("status <> ?", enums.OrderStatusCancelled).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !row.Total.Valid {
		return decimal.Zero, nil
	}
	return row.Total.Decimal, nil
}

// CountByStatus returns order counts keyed by status.
func (r *Repository) CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	var rows []struct {
		Status enums.OrderStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[enums.OrderStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

// RecentOrders returns the newest orders with their creators preloaded.
func (r *Repository) RecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// OrdersSince returns the creation time, total, and status of every
// order created at or after the cutoff. The per-day series is folded in
// Go so the query stays portable across drivers.
func (r *Repository) OrdersSince(ctx context.Context, since time.Time) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Select("id", "created_at", "total_amount", "status").
		Where("created_at >= ?", since).
		Find(&rows).Error
	return rows, err
}
