package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/ardidrizi/inventory-saas/pkg/db/types"
	"github.com/ardidrizi/inventory-saas/pkg/enums"
)

// AuditLog is an append-only trail of who changed what. Rows are never
// updated or deleted.
type AuditLog struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	Actor      *User             `gorm:"foreignKey:UserID;references:ID"`
	Action     enums.AuditAction `gorm:"column:action;type:text;not null"`
	EntityType enums.EntityType  `gorm:"column:entity_type;type:text;not null"`
	EntityID   uuid.UUID         `gorm:"column:entity_id;type:uuid;not null"`
	Metadata   dbtypes.JSONMap   `gorm:"column:metadata;type:jsonb;serializer:json"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
}
