package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"storefront/internal/cache"
	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/payments"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/internal/session"
	"storefront/pkg/rabbitmq"
)

// App bundles the running pieces main needs to manage.
type App struct {
	Fiber *fiber.App
	Auth  *services.AuthService
	MQ    *rabbitmq.Client
}

// NewApp wires configuration, storage, the session store, services and
// the HTTP surface into a runnable app.
func NewApp(cfg *config.Config) (*App, error) {
	// --- Backend client (hosted relational store) ---
	var (
		productRepo  repositories.ProductRepository
		categoryRepo repositories.CategoryRepository
		orderRepo    repositories.OrderRepository
		userRepo     repositories.UserRepository
		credRepo     repositories.CredentialRepository
	)
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		// Fall back to in-memory repositories with seed data so the app
		// still comes up for local development.
		log.Printf("Database unavailable (%v), using in-memory repositories", err)
		mockProducts := repositories.NewMockProductRepository()
		mockCategories := repositories.NewMockCategoryRepository()
		seedCatalog(mockProducts, mockCategories)
		productRepo = mockProducts
		categoryRepo = mockCategories
		orderRepo = repositories.NewMockOrderRepository()
		userRepo = repositories.NewMockUserRepository()
		credRepo = repositories.NewMockCredentialRepository()
	} else {
		err = db.AutoMigrate(
			&models.Product{},
			&models.Category{},
			&models.Order{},
			&models.OrderItem{},
			&models.User{},
			&models.Credential{},
		)
		if err != nil {
			return nil, err
		}
		productRepo = repositories.NewGORMProductRepository(db)
		categoryRepo = repositories.NewGORMCategoryRepository(db)
		orderRepo = repositories.NewGORMOrderRepository(db)
		userRepo = repositories.NewGORMUserRepository(db)
		credRepo = repositories.NewGORMCredentialRepository(db)
	}

	// --- Durable local cart ---
	cartStore, err := cart.NewGormStore(cfg.CartDBPath)
	if err != nil {
		return nil, err
	}
	shoppingCart, err := cart.New(cartStore)
	if err != nil {
		return nil, err
	}

	// --- RabbitMQ client ---
	var mqClient *rabbitmq.Client
	var events services.EventPublisher
	mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Printf("RabbitMQ unavailable (%v), checkout events will be skipped", err)
		mqClient = nil
	} else {
		events = mqClient
	}

	// --- Session store ---
	// Created at process start, updated on auth events; there is no
	// hidden package-level session.
	sessions := session.NewStore(userRepo)
	authService := services.NewAuthService(credRepo, sessions, cfg.JWTSecret)
	go sessions.Bootstrap(func() (*session.Identity, error) {
		// A persisted session token, if any, is restored the same way a
		// fresh sign-in would be.
		token := viper.GetString("SESSION_TOKEN")
		if token == "" {
			return nil, nil
		}
		return authService.IdentityFromToken(token)
	})

	// --- Services ---
	responseCache := cache.New(5 * time.Minute)
	catalogService := services.NewCatalogService(productRepo, categoryRepo, responseCache)
	orderService := services.NewOrderService(orderRepo, productRepo, responseCache, events)
	gateway := payments.NewHTTPGateway(cfg.GatewayURL, cfg.GatewayKey)
	checkoutService := services.NewCheckoutService(sessions, shoppingCart, orderService, gateway, events)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	orderHandler := handlers.NewOrderHandler(orderService)
	cartHandler := handlers.NewCartHandler(shoppingCart, catalogService, checkoutService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New()) // Request logger

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)
	catalogHandler.RegisterRoutes(apiV1)
	orderHandler.RegisterRoutes(apiV1, middleware.AuthRequired(authService))
	cartHandler.RegisterRoutes(apiV1, middleware.DeviceSession(authService, sessions))

	app.Get("/health", func(c *fiber.Ctx) error {
		mqStatus := "connected"
		if mqClient == nil {
			mqStatus = "unavailable"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"rabbitmq": mqStatus,
		})
	})

	return &App{
		Fiber: app,
		Auth:  authService,
		MQ:    mqClient,
	}, nil
}

func main() {
	cfg := config.Load()

	app, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	if app.MQ != nil {
		defer app.MQ.Close()

		// Listen for checkout events. Reconciliation events flag orders
		// whose payment succeeded but whose items or stock did not record.
		log.Println("Starting RabbitMQ consumer for checkout events...")
		err := app.MQ.ConsumeCheckoutEvents(func(msg amqp.Delivery) error {
			log.Printf("Received checkout event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
			return nil
		})
		if err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Fiber.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Fiber.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// seedCatalog populates the in-memory repositories with demo data.
func seedCatalog(products repositories.ProductRepository, categories repositories.CategoryRepository) {
	demoCategories := []models.Category{
		{ID: "cat-1", Slug: "laptops", Name: "Laptops"},
		{ID: "cat-2", Slug: "accessories", Name: "Accessories"},
	}
	for i := range demoCategories {
		if err := categories.Create(&demoCategories[i]); err != nil {
			log.Printf("Error seeding category %s: %v", demoCategories[i].Name, err)
		}
	}

	demoProducts := []models.Product{
		{ID: "prod-1", Slug: "ultrabook-13", Title: "Ultrabook 13", Price: decimal.NewFromFloat(1200.00), Quantity: 10, CategoryID: "cat-1"},
		{ID: "prod-2", Slug: "mechanical-keyboard", Title: "Mechanical Keyboard", Price: decimal.NewFromFloat(75.00), Quantity: 25, CategoryID: "cat-2"},
		{ID: "prod-3", Slug: "wireless-mouse", Title: "Wireless Mouse", Price: decimal.NewFromFloat(25.00), Quantity: 50, CategoryID: "cat-2"},
	}
	for i := range demoProducts {
		if err := products.Create(&demoProducts[i]); err != nil {
			log.Printf("Error seeding product %s: %v", demoProducts[i].Title, err)
		}
	}
}
