package audit

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ardidrizi/inventory-saas/pkg/db/models"
	"github.com/ardidrizi/inventory-saas/pkg/enums"
	"github.com/ardidrizi/inventory-saas/pkg/pagination"
)

// ListFilter narrows which audit rows a page returns.
type ListFilter struct {
	UserID     *uuid.UUID
	Action     *enums.AuditAction
	EntityType *enums.EntityType
	EntityID   *uuid.UUID
}

// Repository persists and reads the append-only audit trail.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an audit repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert appends a single audit row.
func (r *Repository) Insert(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns a page of audit rows, newest first, plus the total count.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.AuditLog, int64, error) {
	p := page.Normalize()

	query := r.db.WithContext(ctx).Model(&models.AuditLog{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Action != nil {
		query = query.Where("action = ?", *filter.Action)
	}
	if filter.EntityType != nil {
		query = query.Where("entity_type = ?", *filter.EntityType)
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.AuditLog
	err := query.
		Preload("Actor").
		Order("created_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
