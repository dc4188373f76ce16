package repositories

import (
	"fmt"
	"sort"
	"sync"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all products.
func (r *MockProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	return productList, nil
}

// GetBySlug returns a product by its slug.
func (r *MockProductRepository) GetBySlug(slug string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.Slug == slug {
			product := p
			return &product, nil
		}
	}
	return nil, fmt.Errorf("product with slug %s: %w", slug, ErrNotFound)
}

// GetByCategoryID returns a category's products, newest first.
func (r *MockProductRepository) GetByCategoryID(categoryID string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var products []models.Product
	for _, p := range r.products {
		if p.CategoryID == categoryID {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
	return nil
}

// DecrementStock reduces a product's quantity, refusing to go negative
// the way the server-side routine does.
func (r *MockProductRepository) DecrementStock(productID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[productID]
	if !ok {
		return fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	if product.Quantity < quantity {
		return fmt.Errorf("insufficient stock for product %s (have %d, want %d)", productID, product.Quantity, quantity)
	}
	product.Quantity -= quantity
	r.products[productID] = product
	return nil
}
