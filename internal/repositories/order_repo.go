package repositories

import (
	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(order *models.Order) error
	// GetByUserID returns a user's orders ordered by creation time descending.
	GetByUserID(userID string) ([]models.Order, error)
	// GetBySlugForUser returns one order with its items and each item's
	// product preloaded, scoped to the owning user.
	GetBySlugForUser(slug, userID string) (*models.Order, error)
	// CreateItems inserts a batch of order items in one call. Items are
	// immutable once created, so there is no update path.
	CreateItems(items []models.OrderItem) error
}
