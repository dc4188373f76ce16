package repositories

import (
	"storefront/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	// GetByCategoryID returns the category's products ordered by creation
	// time descending. An empty result is not an error.
	GetByCategoryID(categoryID string) ([]models.Product, error)
	Create(product *models.Product) error
	// DecrementStock invokes the backend's atomic decrement_product_quantity
	// routine for a single product.
	DecrementStock(productID string, quantity int) error
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetAll() ([]models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	Create(category *models.Category) error
}
