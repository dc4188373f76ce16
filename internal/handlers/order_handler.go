package handlers

import (
	"errors"
	"log"

	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/internal/session"

	"github.com/gofiber/fiber/v2"
)

// requestIdentity rebuilds the identity the auth gate stashed on the
// request. Nil when the route was reached without one.
func requestIdentity(c *fiber.Ctx) *session.Identity {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return nil
	}
	email, _ := c.Locals("email").(string)
	return &session.Identity{ID: userID, Email: email}
}

// OrderHandler handles HTTP requests for the current user's orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes behind the auth gate. Each
// request is served under its own token's identity, which the service
// requires again below the gate.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, authGate fiber.Handler) {
	orderRoutes := router.Group("/orders", authGate)
	orderRoutes.Get("/", h.HandleListMyOrders)
	orderRoutes.Get("/:slug", h.HandleGetMyOrder)
}

// HandleListMyOrders returns the requesting user's orders, newest first.
func (h *OrderHandler) HandleListMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(requestIdentity(c))
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		if errors.Is(err, services.ErrAuthRequired) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Please sign in to view orders",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "An error occurred while fetching orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetMyOrder returns one of the requesting user's orders by slug,
// with its items and products.
func (h *OrderHandler) HandleGetMyOrder(c *fiber.Ctx) error {
	orderSlug := c.Params("slug")
	order, err := h.service.GetOrder(requestIdentity(c), orderSlug)
	if err != nil {
		log.Printf("Error fetching order %s: %v", orderSlug, err)
		switch {
		case errors.Is(err, services.ErrAuthRequired):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Please sign in to view order details",
			})
		case errors.Is(err, repositories.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "An error occurred while fetching data",
				"error":   err.Error(),
			})
		}
	}
	return c.JSON(order)
}
