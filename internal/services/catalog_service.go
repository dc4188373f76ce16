package services

import (
	"fmt"

	"storefront/internal/cache"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"golang.org/x/sync/errgroup"
)

// Catalog is the uncorrelated product and category listing the shop's
// landing screen binds to.
type Catalog struct {
	Products   []models.Product  `json:"products"`
	Categories []models.Category `json:"categories"`
}

// CategoryWithProducts is a category together with its products, newest
// first.
type CategoryWithProducts struct {
	Category models.Category  `json:"category"`
	Products []models.Product `json:"products"`
}

// CatalogService handles catalog reads. Responses are cached by request
// parameters and invalidated by the mutations that stale them.
type CatalogService struct {
	products   repositories.ProductRepository
	categories repositories.CategoryRepository
	cache      *cache.Cache
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(products repositories.ProductRepository, categories repositories.CategoryRepository, responseCache *cache.Cache) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		cache:      responseCache,
	}
}

// ListProductsAndCategories fetches all rows from both tables in
// parallel. Either fetch failing fails the whole operation; the two sets
// are returned uncorrelated.
func (s *CatalogService) ListProductsAndCategories() (*Catalog, error) {
	key := cache.Key("catalog", "all")
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*Catalog), nil
	}

	var (
		products   []models.Product
		categories []models.Category
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		products, err = s.products.GetAll()
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.categories.GetAll()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("an error occurred while fetching data: %w", err)
	}

	catalog := &Catalog{Products: products, Categories: categories}
	s.cache.Set(key, catalog)
	return catalog, nil
}

// GetProduct fetches a single product by its unique slug.
func (s *CatalogService) GetProduct(productSlug string) (*models.Product, error) {
	key := cache.Key("product", productSlug)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*models.Product), nil
	}

	product, err := s.products.GetBySlug(productSlug)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, product)
	return product, nil
}

// GetCategoryWithProducts resolves a category by slug and then its
// products, newest first. A missing slug disables the lookup; a category
// with zero products is a valid, non-error outcome.
func (s *CatalogService) GetCategoryWithProducts(categorySlug string) (*CategoryWithProducts, error) {
	if categorySlug == "" {
		return nil, ErrSlugRequired
	}

	key := cache.Key("category", categorySlug)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*CategoryWithProducts), nil
	}

	category, err := s.categories.GetBySlug(categorySlug)
	if err != nil {
		// ErrNotFound passes through so callers can tell "no such
		// category" apart from a transport failure.
		return nil, err
	}

	products, err := s.products.GetByCategoryID(category.ID)
	if err != nil {
		return nil, fmt.Errorf("error fetching products for category %s: %w", categorySlug, err)
	}
	if products == nil {
		products = []models.Product{}
	}

	result := &CategoryWithProducts{Category: *category, Products: products}
	s.cache.Set(key, result)
	return result, nil
}
