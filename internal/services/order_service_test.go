package services_test

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"storefront/internal/cache"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/session"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func identityOf(id, email string) *session.Identity {
	return &session.Identity{ID: id, Email: email}
}

func TestOrderService_ListOrders(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	service := services.NewOrderService(mockOrders, mockProducts, cache.New(time.Minute), nil)

	expected := []models.Order{
		{ID: "o2", Slug: "order-20240102-aaaaaaaa", UserID: "user-123", Status: models.OrderPending},
		{ID: "o1", Slug: "order-20240101-bbbbbbbb", UserID: "user-123", Status: models.OrderShipped},
	}
	mockOrders.On("GetByUserID", "user-123").Return(expected, nil).Once()

	orders, err := service.ListOrders(identityOf("user-123", "test@example.com"))
	require.NoError(t, err)
	assert.Equal(t, expected, orders)
	mockOrders.AssertExpectations(t)
}

func TestOrderService_ListOrders_RequiresIdentity(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	service := services.NewOrderService(mockOrders, mockProducts, cache.New(time.Minute), nil)

	_, err := service.ListOrders(nil)
	assert.ErrorIs(t, err, services.ErrAuthRequired)
	// The gate holds before any backend call.
	mockOrders.AssertNotCalled(t, "GetByUserID", mock.Anything)
}

func TestOrderService_ListOrders_ScopedToCaller(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	service := services.NewOrderService(mockOrders, mockProducts, cache.New(time.Minute), nil)

	// A sign-in by a different user elsewhere in the process must not
	// redirect this caller's query: the service reads only the identity
	// it was handed, never shared session state.
	other := authedSession("user-b", "b@example.com")
	other.HandleAuthChange(identityOf("user-b", "b@example.com"))

	mockOrders.On("GetByUserID", "user-a").
		Return([]models.Order{{ID: "o1", UserID: "user-a"}}, nil).Once()

	orders, err := service.ListOrders(identityOf("user-a", "a@example.com"))
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "user-a", orders[0].UserID)
	mockOrders.AssertNotCalled(t, "GetByUserID", "user-b")
}

func TestOrderService_GetOrder(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	service := services.NewOrderService(mockOrders, mockProducts, cache.New(time.Minute), nil)

	expected := &models.Order{
		ID:     "o1",
		Slug:   "order-20240101-bbbbbbbb",
		UserID: "user-123",
		Items: []models.OrderItem{
			{ID: "i1", OrderID: "o1", ProductID: "p1", Quantity: 2, Product: models.Product{ID: "p1", Title: "Product A"}},
		},
	}
	mockOrders.On("GetBySlugForUser", "order-20240101-bbbbbbbb", "user-123").Return(expected, nil).Once()

	order, err := service.GetOrder(identityOf("user-123", "test@example.com"), "order-20240101-bbbbbbbb")
	require.NoError(t, err)
	assert.Equal(t, expected, order)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Product A", order.Items[0].Product.Title)
	mockOrders.AssertExpectations(t)
}

func TestOrderService_CreateOrder(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	mockEvents := new(MockPublisher)
	responseCache := cache.New(time.Minute)
	service := services.NewOrderService(mockOrders, mockProducts, responseCache, mockEvents)

	// A cached listing must be invalidated by the creation.
	responseCache.Set(cache.Key("orders", "user-123"), []models.Order{})

	mockOrders.On("Create", mock.AnythingOfType("*models.Order")).Return(nil).Once()
	mockEvents.On("PublishOrderCreated", mock.AnythingOfType("*models.Order")).Return(nil).Once()

	order, err := service.CreateOrder(identityOf("user-123", "test@example.com"), decimal.NewFromFloat(25.50))
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, "user-123", order.UserID)
	assert.Equal(t, "25.50", order.TotalPrice.StringFixed(2))
	assert.Regexp(t, regexp.MustCompile(`^order-\d{8}-[0-9a-f]{8}$`), order.Slug)

	_, cached := responseCache.Get(cache.Key("orders", "user-123"))
	assert.False(t, cached, "order listing cache should be invalidated")
	mockOrders.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestOrderService_CreateOrder_UniqueSlugs(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	service := services.NewOrderService(mockOrders, mockProducts, cache.New(time.Minute), nil)

	mockOrders.On("Create", mock.AnythingOfType("*models.Order")).Return(nil)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		order, err := service.CreateOrder(identityOf("user-123", "test@example.com"), decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.False(t, seen[order.Slug], "slug %s repeated", order.Slug)
		seen[order.Slug] = true
	}
}

func TestOrderService_CreateOrder_RequiresIdentity(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	service := services.NewOrderService(mockOrders, mockProducts, cache.New(time.Minute), nil)

	_, err := service.CreateOrder(nil, decimal.NewFromFloat(25.50))
	assert.ErrorIs(t, err, services.ErrAuthRequired)
	// Fails before any network call.
	mockOrders.AssertNotCalled(t, "Create", mock.Anything)
}

func TestOrderService_CreateOrderItems(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	service := services.NewOrderService(mockOrders, mockProducts, cache.New(time.Minute), nil)

	mockOrders.On("CreateItems", mock.AnythingOfType("[]models.OrderItem")).Return(nil).Once()
	// Quantities are aggregated per distinct product: product A appears
	// in two lines but gets exactly one decrement call.
	mockProducts.On("DecrementStock", "prod-a", 3).Return(nil).Once()
	mockProducts.On("DecrementStock", "prod-b", 1).Return(nil).Once()

	err := service.CreateOrderItems([]services.OrderItemInsert{
		{OrderID: "o1", ProductID: "prod-a", Quantity: 2},
		{OrderID: "o1", ProductID: "prod-b", Quantity: 1},
		{OrderID: "o1", ProductID: "prod-a", Quantity: 1},
	})
	require.NoError(t, err)
	mockOrders.AssertExpectations(t)
	mockProducts.AssertExpectations(t)
}

func TestOrderService_CreateOrderItems_InsertErrorSkipsDecrements(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	service := services.NewOrderService(mockOrders, mockProducts, cache.New(time.Minute), nil)

	mockOrders.On("CreateItems", mock.Anything).Return(fmt.Errorf("constraint violation")).Once()

	err := service.CreateOrderItems([]services.OrderItemInsert{
		{OrderID: "o1", ProductID: "prod-a", Quantity: 2},
	})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrStockDecrement)
	// No stock moves when the items were not recorded.
	mockProducts.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything)
}

func TestOrderService_CreateOrderItems_DecrementFailureSurfaced(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	service := services.NewOrderService(mockOrders, mockProducts, cache.New(time.Minute), nil)

	mockOrders.On("CreateItems", mock.Anything).Return(nil).Once()
	mockProducts.On("DecrementStock", "prod-a", 2).Return(fmt.Errorf("rpc failed")).Once()

	err := service.CreateOrderItems([]services.OrderItemInsert{
		{OrderID: "o1", ProductID: "prod-a", Quantity: 2},
	})
	// Decrement failures are a distinct error kind, never swallowed.
	assert.ErrorIs(t, err, services.ErrStockDecrement)
	mockOrders.AssertExpectations(t)
	mockProducts.AssertExpectations(t)
}
