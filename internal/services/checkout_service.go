package services

import (
	"errors"
	"fmt"
	"log"

	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/payments"
	"storefront/internal/session"

	"github.com/shopspring/decimal"
)

// CheckoutService drives the checkout sequence: identity, cart, payment,
// order row, order items, reset. Each step is gated on the previous one
// succeeding, and the cart is cleared only on full success so a paid-for
// cart is never silently lost.
type CheckoutService struct {
	sessions *session.Store
	cart     *cart.Cart
	orders   *OrderService
	gateway  payments.Gateway
	events   EventPublisher
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(sessions *session.Store, shoppingCart *cart.Cart, orders *OrderService, gateway payments.Gateway, events EventPublisher) *CheckoutService {
	return &CheckoutService{
		sessions: sessions,
		cart:     shoppingCart,
		orders:   orders,
		gateway:  gateway,
		events:   events,
	}
}

// Checkout runs the full sequence and returns the created order on
// success. Errors carry the taxonomy sentinel for their step:
// ErrAuthRequired, ErrEmptyCart, ErrPaymentFailed, ErrSessionExpired,
// ErrItemsNotRecorded (order attached) or ErrStockDecrement.
func (s *CheckoutService) Checkout() (*models.Order, error) {
	identity, ok := s.sessions.Identity()
	if !ok {
		return nil, ErrAuthRequired
	}
	if s.cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	// One snapshot feeds the whole sequence: the amount charged, the
	// order total and the item rows all derive from it, so a cart
	// mutation mid-flight can never make them diverge.
	lines := s.cart.Lines()
	total := s.cart.Total()
	amountMinor := total.Mul(decimal.NewFromInt(100)).IntPart()

	sheetID, err := s.gateway.SetupPaymentSheet(amountMinor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	completed, err := s.gateway.PresentPaymentSheet(sheetID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	if !completed {
		// The user backed out; nothing was charged and the cart stays.
		return nil, ErrPaymentFailed
	}

	// The payment sheet may have been up for a while; the order is
	// written only if the session still belongs to the user who paid.
	current, ok := s.sessions.Identity()
	if !ok || current.ID != identity.ID {
		return nil, ErrSessionExpired
	}

	order, err := s.orders.CreateOrder(current, total)
	if err != nil {
		if errors.Is(err, ErrAuthRequired) {
			return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
		}
		return nil, err
	}

	inserts := make([]OrderItemInsert, 0, len(lines))
	for _, line := range lines {
		inserts = append(inserts, OrderItemInsert{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}

	if err := s.orders.CreateOrderItems(inserts); err != nil {
		if errors.Is(err, ErrStockDecrement) {
			// Items and payment are fully recorded; only stock diverged.
			// The purchase is complete, so the cart resets, but the
			// failure is surfaced and queued for reconciliation.
			s.publishReconciliation(order.ID, err)
			s.cart.Reset()
			return order, err
		}
		// Payment captured, order row exists, items missing. Keep the
		// cart so nothing paid-for is lost, and flag for manual follow-up.
		s.publishReconciliation(order.ID, err)
		return order, fmt.Errorf("%w: %v", ErrItemsNotRecorded, err)
	}

	s.cart.Reset()
	return order, nil
}

func (s *CheckoutService) publishReconciliation(orderID string, cause error) {
	if s.events == nil {
		log.Printf("Event publisher is not initialized, skipping reconciliation event for order %s", orderID)
		return
	}
	if err := s.events.PublishReconciliation(orderID, cause.Error()); err != nil {
		log.Printf("Warning: failed to publish reconciliation event for order %s: %v", orderID, err)
	}
}
