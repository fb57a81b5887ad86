package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ardidrizi/inventory-saas/pkg/enums"
)

// Order is the committed result of a stock-decrementing transaction.
// Item snapshots keep the order readable after products change or are
// soft deleted.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber   string            `gorm:"column:order_number;type:text;not null;uniqueIndex"`
	TotalAmount   decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Status        enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CustomerName  string            `gorm:"column:customer_name;not null"`
	CustomerEmail string            `gorm:"column:customer_email;not null"`
	CreatedBy     uuid.UUID         `gorm:"column:created_by;type:uuid;not null"`
	Creator       *User             `gorm:"foreignKey:CreatedBy;references:ID"`
	Items         []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
