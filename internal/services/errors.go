package services

import "errors"

// Checkout and data-access failures are classified so callers can render
// differentiated messaging per class. Check with errors.Is.
var (
	// ErrAuthRequired means a gated operation was attempted without a
	// resolved identity. It is returned before any backend call is made.
	ErrAuthRequired = errors.New("authentication required")

	// ErrSlugRequired means a category lookup was attempted without a slug.
	ErrSlugRequired = errors.New("category slug is required")

	// ErrEmptyCart means checkout was attempted with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrPaymentFailed means the gateway setup or presentation did not
	// complete; nothing was written and the cart is untouched.
	ErrPaymentFailed = errors.New("payment was not completed")

	// ErrSessionExpired means the identity lapsed between payment and
	// order creation; the user must sign in again.
	ErrSessionExpired = errors.New("session expired")

	// ErrStockDecrement means one or more stock decrements failed after
	// the order items were recorded. Never discard it: stock and orders
	// have diverged and reconciliation is needed.
	ErrStockDecrement = errors.New("stock decrement failed")

	// ErrItemsNotRecorded means payment was captured and the order row
	// exists, but the order items could not be recorded.
	ErrItemsNotRecorded = errors.New("order items were not recorded")
)
