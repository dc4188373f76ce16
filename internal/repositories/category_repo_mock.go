package repositories

import (
	"fmt"
	"sync"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MockCategoryRepository is an in-memory implementation of CategoryRepository.
type MockCategoryRepository struct {
	categories map[string]models.Category
	mu         sync.RWMutex
}

// NewMockCategoryRepository creates a new instance of MockCategoryRepository.
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		categories: make(map[string]models.Category),
	}
}

// GetAll returns all categories.
func (r *MockCategoryRepository) GetAll() ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categoryList := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		categoryList = append(categoryList, c)
	}
	return categoryList, nil
}

// GetBySlug returns a category by its slug.
func (r *MockCategoryRepository) GetBySlug(slug string) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.categories {
		if c.Slug == slug {
			category := c
			return &category, nil
		}
	}
	return nil, fmt.Errorf("category with slug %s: %w", slug, ErrNotFound)
}

// Create adds a new category.
func (r *MockCategoryRepository) Create(category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	r.categories[category.ID] = *category
	return nil
}
