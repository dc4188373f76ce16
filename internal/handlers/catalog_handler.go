package handlers

import (
	"errors"
	"log"

	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles HTTP requests for the product catalog.
type CatalogHandler struct {
	service *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		service: service,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products", h.HandleListProductsAndCategories)
	router.Get("/products/:slug", h.HandleGetProduct)
	router.Get("/categories/:slug", h.HandleGetCategory)
}

// HandleListProductsAndCategories returns all products and all categories.
func (h *CatalogHandler) HandleListProductsAndCategories(c *fiber.Ctx) error {
	catalog, err := h.service.ListProductsAndCategories()
	if err != nil {
		log.Printf("Error fetching catalog: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "An error occurred while fetching data",
			"error":   err.Error(),
		})
	}
	return c.JSON(catalog)
}

// HandleGetProduct returns a single product by slug.
func (h *CatalogHandler) HandleGetProduct(c *fiber.Ctx) error {
	productSlug := c.Params("slug")
	product, err := h.service.GetProduct(productSlug)
	if err != nil {
		log.Printf("Error fetching product %s: %v", productSlug, err)
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
	return c.JSON(product)
}

// HandleGetCategory returns a category and its products by category slug.
func (h *CatalogHandler) HandleGetCategory(c *fiber.Ctx) error {
	categorySlug := c.Params("slug")
	result, err := h.service.GetCategoryWithProducts(categorySlug)
	if err != nil {
		log.Printf("Error fetching category %s: %v", categorySlug, err)
		switch {
		case errors.Is(err, services.ErrSlugRequired):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Category slug is required",
			})
		case errors.Is(err, repositories.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Category not found",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "An error occurred while fetching data",
				"error":   err.Error(),
			})
		}
	}
	return c.JSON(result)
}
