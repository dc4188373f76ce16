package repositories

import (
	"errors"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetBySlug retrieves a single product by its unique slug.
func (r *GORMProductRepository) GetBySlug(slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with slug %s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by slug %s: %w", slug, err)
	}
	return &product, nil
}

// GetByCategoryID retrieves a category's products, newest first.
func (r *GORMProductRepository) GetByCategoryID(categoryID string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Where("category_id = ?", categoryID).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products for category %s: %w", categoryID, err)
	}
	return products, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// DecrementStock calls the backend's decrement_product_quantity routine.
// The decrement itself is atomic server-side; this call only reports
// whether the invocation succeeded.
func (r *GORMProductRepository) DecrementStock(productID string, quantity int) error {
	if err := r.db.Exec("SELECT decrement_product_quantity(?, ?)", productID, quantity).Error; err != nil {
		return fmt.Errorf("failed to decrement stock for product %s by %d: %w", productID, quantity, err)
	}
	return nil
}
