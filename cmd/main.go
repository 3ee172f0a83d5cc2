package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"golang-bookstore-gateway/configs"
	"golang-bookstore-gateway/internal/backend"
	"golang-bookstore-gateway/internal/handlers"
	"golang-bookstore-gateway/internal/middleware"
	"golang-bookstore-gateway/internal/services"
	"golang-bookstore-gateway/pkg/auth"
	"golang-bookstore-gateway/pkg/cache"
	"golang-bookstore-gateway/pkg/messaging"
)

func main() {
	// Load configuration
	config := configs.LoadConfig()

	// Set Gin mode
	gin.SetMode(config.Server.Mode)

	shippingFee, err := decimal.NewFromString(config.Checkout.ShippingFlatFee)
	if err != nil {
		log.Fatal("Invalid SHIPPING_FLAT_FEE:", err)
	}

	// Initialize Redis cache
	redisCache, err := cache.NewRedisCache(config.Redis.URL, config.Redis.Password, config.Redis.DB)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisCache.Close()

	// Initialize Kafka producer
	kafkaProducer := messaging.NewKafkaProducer()
	defer kafkaProducer.Close()

	// Initialize JWT manager for session validation
	jwtManager := auth.NewJWTManager(config.JWT.SecretKey, config.JWT.ExpiryHours)

	// Commerce backend client
	backendClient := backend.NewClient(config.Backend.BaseURL, config.Backend.Timeout)

	// Initialize services
	cartStore := services.NewCartStore(backendClient, redisCache)
	checkoutService := services.NewCheckoutService(
		cartStore,
		backendClient,
		kafkaProducer,
		config.Kafka.Brokers,
		shippingFee,
		config.Checkout.DefaultPaymentMethod,
	)
	productService := services.NewProductService(backendClient, redisCache)
	orderService := services.NewOrderService(backendClient)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	// Initialize handlers
	cartHandler := handlers.NewCartHandler(cartStore)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)

	// Initialize Gin router
	router := gin.Default()

	// CORS middleware
	router.Use(cors.Default())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "golang-bookstore-gateway",
		})
	})

	// API routes
	api := router.Group("/api/v1")

	cartHandler.RegisterRoutes(api, authMiddleware)
	checkoutHandler.RegisterRoutes(api, authMiddleware)
	orderHandler.RegisterRoutes(api, authMiddleware)
	productHandler.RegisterRoutes(api)

	log.Printf("Server starting on port %s", config.Server.Port)
	log.Fatal(router.Run(":" + config.Server.Port))
}
