package handlers

import (
	"errors"
	"log"

	"storefront/internal/cart"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the cart and for checkout.
type CartHandler struct {
	cart     *cart.Cart
	catalog  *services.CatalogService
	checkout *services.CheckoutService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(shoppingCart *cart.Cart, catalog *services.CatalogService, checkout *services.CheckoutService) *CartHandler {
	return &CartHandler{
		cart:     shoppingCart,
		catalog:  catalog,
		checkout: checkout,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart and checkout routes. The cart is
// device-local state, so both surfaces sit behind the device-session
// gate: a token for a different user than the device session holds is
// refused before it can touch the cart.
func (h *CartHandler) RegisterRoutes(router fiber.Router, sessionGate fiber.Handler) {
	cartRoutes := router.Group("/cart", sessionGate)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Post("/items/:id/increment", h.HandleIncrementItem)
	cartRoutes.Post("/items/:id/decrement", h.HandleDecrementItem)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)

	router.Post("/checkout", sessionGate, h.HandleCheckout)
}

// HandleGetCart returns the current cart lines and derived total.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"items": h.cart.Lines(),
		"total": h.cart.TotalPrice(),
	})
}

// AddItemRequest represents the request body for adding to the cart.
type AddItemRequest struct {
	ProductSlug string `json:"product_slug" validate:"required"`
	Quantity    int    `json:"quantity" validate:"omitempty,gt=0"`
}

// HandleAddItem looks the product up and merges it into the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add-item request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	product, err := h.catalog.GetProduct(req.ProductSlug)
	if err != nil {
		log.Printf("Error fetching product %s for cart: %v", req.ProductSlug, err)
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "An error occurred while fetching data",
			"error":   err.Error(),
		})
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	h.cart.Add(*product, quantity)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"items": h.cart.Lines(),
		"total": h.cart.TotalPrice(),
	})
}

// HandleIncrementItem raises a line's quantity by one, clamped to stock.
func (h *CartHandler) HandleIncrementItem(c *fiber.Ctx) error {
	h.cart.Increment(c.Params("id"))
	return c.JSON(fiber.Map{
		"items": h.cart.Lines(),
		"total": h.cart.TotalPrice(),
	})
}

// HandleDecrementItem lowers a line's quantity by one, flooring at 1.
func (h *CartHandler) HandleDecrementItem(c *fiber.Ctx) error {
	h.cart.Decrement(c.Params("id"))
	return c.JSON(fiber.Map{
		"items": h.cart.Lines(),
		"total": h.cart.TotalPrice(),
	})
}

// HandleRemoveItem deletes a line unconditionally.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	h.cart.Remove(c.Params("id"))
	return c.JSON(fiber.Map{
		"items": h.cart.Lines(),
		"total": h.cart.TotalPrice(),
	})
}

// HandleCheckout runs the checkout sequence and maps each failure class
// to its user-facing message.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	order, err := h.checkout.Checkout()
	if err != nil {
		log.Printf("Checkout error: %v", err)
		switch {
		case errors.Is(err, services.ErrAuthRequired):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Please sign in to proceed with checkout",
			})
		case errors.Is(err, services.ErrEmptyCart):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Please add items to your cart before checking out.",
			})
		case errors.Is(err, services.ErrPaymentFailed):
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"message": "The payment process was not completed.",
			})
		case errors.Is(err, services.ErrSessionExpired):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Please sign in again to complete your purchase.",
			})
		case errors.Is(err, services.ErrItemsNotRecorded):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Your payment was processed but we encountered an error saving your order items. Our team will contact you to resolve this.",
				"order":   order,
			})
		case errors.Is(err, services.ErrStockDecrement):
			// The purchase is fully recorded; only stock bookkeeping
			// failed and has been queued for reconciliation.
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{
				"message": "Order created successfully",
				"warning": "Stock adjustment is pending reconciliation",
				"order":   order,
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "An unexpected error occurred. Please try again or contact support if the problem persists.",
				"error":   err.Error(),
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order created successfully",
		"order":   order,
	})
}
