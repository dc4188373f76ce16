package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus is the closed set of states an order can be in. Transitions
// beyond the initial Pending are performed out-of-band, never by this code.
type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderCompleted OrderStatus = "Completed"
	OrderShipped   OrderStatus = "Shipped"
	OrderInTransit OrderStatus = "InTransit"
)

// IsValid reports whether s is one of the known order statuses.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderCompleted, OrderShipped, OrderInTransit:
		return true
	}
	return false
}

// Order represents a customer order. The slug is generated client-side
// before the insert so it exists ahead of the server round-trip.
type Order struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Slug       string          `json:"slug" gorm:"uniqueIndex;type:varchar(120)" validate:"required"`
	UserID     string          `json:"user" gorm:"type:varchar(36);index" validate:"required"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:numeric(12,2)"`
	Status     OrderStatus     `json:"status" gorm:"type:varchar(20)"`
	Items      []OrderItem     `json:"order_items" gorm:"foreignKey:OrderID"`
	gorm.Model
}

// OrderItem binds an order to a product and a quantity. Immutable once created.
type OrderItem struct {
	ID        string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	OrderID   string  `json:"order" gorm:"type:varchar(36);index" validate:"required"`
	ProductID string  `json:"product" gorm:"type:varchar(36);index" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	Product   Product `json:"products" gorm:"foreignKey:ProductID"`
	gorm.Model
}
