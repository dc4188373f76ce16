package services

import (
	"fmt"
	"log"

	"storefront/internal/cache"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/session"
	"storefront/pkg/slug"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// EventPublisher is the wire to the checkout event queue. A nil publisher
// is tolerated; publishes are then skipped with a log line.
type EventPublisher interface {
	PublishOrderCreated(order *models.Order) error
	PublishReconciliation(orderID, reason string) error
}

// OrderItemInsert is one (order, product, quantity) triple of a batch.
type OrderItemInsert struct {
	OrderID   string
	ProductID string
	Quantity  int
}

// OrderService handles order reads and the two checkout writes. Every
// operation takes the caller's identity explicitly and is gated on it
// before any backend call. Concurrent callers with different identities
// never observe each other's rows; the shared session store is not
// consulted here.
type OrderService struct {
	orders   repositories.OrderRepository
	products repositories.ProductRepository
	cache    *cache.Cache
	events   EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orders repositories.OrderRepository, products repositories.ProductRepository, responseCache *cache.Cache, events EventPublisher) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		cache:    responseCache,
		events:   events,
	}
}

// ListOrders returns the given user's orders, newest first.
func (s *OrderService) ListOrders(identity *session.Identity) ([]models.Order, error) {
	if identity == nil {
		return nil, ErrAuthRequired
	}

	key := cache.Key("orders", identity.ID)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.Order), nil
	}

	orders, err := s.orders.GetByUserID(identity.ID)
	if err != nil {
		return nil, fmt.Errorf("an error occurred while fetching orders: %w", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	s.cache.Set(key, orders)
	return orders, nil
}

// GetOrder returns one of the given user's orders by slug, with its
// items and each item's product.
func (s *OrderService) GetOrder(identity *session.Identity, orderSlug string) (*models.Order, error) {
	if identity == nil {
		return nil, ErrAuthRequired
	}

	key := cache.Key("orders", identity.ID, orderSlug)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*models.Order), nil
	}

	order, err := s.orders.GetBySlugForUser(orderSlug, identity.ID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, order)
	return order, nil
}

// CreateOrder inserts a new Pending order for the given user. The slug
// is generated before the round-trip; cached order listings are
// invalidated so subsequent reads are fresh.
func (s *OrderService) CreateOrder(identity *session.Identity, totalPrice decimal.Decimal) (*models.Order, error) {
	if identity == nil {
		return nil, ErrAuthRequired
	}

	order := &models.Order{
		ID:         uuid.New().String(),
		Slug:       slug.NewOrderSlug(),
		UserID:     identity.ID,
		TotalPrice: totalPrice,
		Status:     models.OrderPending,
	}
	if err := s.orders.Create(order); err != nil {
		return nil, fmt.Errorf("an error occurred while creating order: %w", err)
	}

	s.cache.Invalidate(cache.Key("orders", identity.ID))

	if s.events != nil {
		if err := s.events.PublishOrderCreated(order); err != nil {
			log.Printf("Warning: failed to publish order created event for order %s: %v", order.ID, err)
		}
	} else {
		log.Println("Event publisher is not initialized, skipping order created event")
	}

	return order, nil
}

// CreateOrderItems inserts the batch in one call and then issues one
// stock decrement per distinct product. Decrements run concurrently with
// each other but only after the insert succeeded; their failures surface
// as ErrStockDecrement instead of being silently dropped.
func (s *OrderService) CreateOrderItems(inserts []OrderItemInsert) error {
	items := make([]models.OrderItem, 0, len(inserts))
	for _, insert := range inserts {
		items = append(items, models.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   insert.OrderID,
			ProductID: insert.ProductID,
			Quantity:  insert.Quantity,
		})
	}
	if err := s.orders.CreateItems(items); err != nil {
		return fmt.Errorf("an error occurred while creating order items: %w", err)
	}

	// Aggregate quantities per product so each product gets exactly one
	// decrement call regardless of how many lines reference it.
	quantities := make(map[string]int)
	for _, insert := range inserts {
		quantities[insert.ProductID] += insert.Quantity
	}

	var g errgroup.Group
	for productID, quantity := range quantities {
		productID, quantity := productID, quantity
		g.Go(func() error {
			return s.products.DecrementStock(productID, quantity)
		})
	}
	err := g.Wait()

	// Stock changed (at least partially, even on failure); cached
	// product reads are stale either way.
	s.cache.Invalidate("product")
	s.cache.Invalidate("catalog")
	s.cache.Invalidate("category")

	if err != nil {
		return fmt.Errorf("%w: %v", ErrStockDecrement, err)
	}
	return nil
}
