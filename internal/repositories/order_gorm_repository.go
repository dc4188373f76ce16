package repositories

import (
	"errors"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create inserts a new order row. The caller supplies the slug and status.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByUserID retrieves a user's orders, newest first.
func (r *GORMOrderRepository) GetByUserID(userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// GetBySlugForUser retrieves one order with its items and products, scoped
// to the owning user so a slug cannot leak another user's order.
func (r *GORMOrderRepository) GetBySlugForUser(slug, userID string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items.Product").
		First(&order, "slug = ? AND user_id = ?", slug, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with slug %s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by slug %s: %w", slug, err)
	}
	return &order, nil
}

// CreateItems inserts a batch of order items in a single statement.
func (r *GORMOrderRepository) CreateItems(items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
	}
	if err := r.db.Omit("Product").Create(&items).Error; err != nil {
		return fmt.Errorf("failed to create order items: %w", err)
	}
	return nil
}
