package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	items  map[string][]models.OrderItem // keyed by order ID
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
		items:  make(map[string][]models.OrderItem),
	}
}

// Create adds a new order, enforcing slug uniqueness like the backend does.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.orders {
		if existing.Slug == order.Slug {
			return fmt.Errorf("order slug %s already exists", order.Slug)
		}
	}
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// GetByUserID returns a user's orders, newest first.
func (r *MockOrderRepository) GetByUserID(userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := []models.Order{}
	for _, order := range r.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// GetBySlugForUser returns one order with its items attached.
func (r *MockOrderRepository) GetBySlugForUser(slug, userID string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.Slug == slug && order.UserID == userID {
			found := order
			found.Items = append([]models.OrderItem{}, r.items[order.ID]...)
			return &found, nil
		}
	}
	return nil, fmt.Errorf("order with slug %s: %w", slug, ErrNotFound)
}

// CreateItems stores a batch of order items.
func (r *MockOrderRepository) CreateItems(items []models.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		if _, ok := r.orders[items[i].OrderID]; !ok {
			return fmt.Errorf("order %s: %w", items[i].OrderID, ErrNotFound)
		}
		r.items[items[i].OrderID] = append(r.items[items[i].OrderID], items[i])
	}
	return nil
}
