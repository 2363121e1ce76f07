package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"mithqal/internal/config"
	"mithqal/internal/database"
	"mithqal/internal/handlers"
	"mithqal/internal/logger"
	"mithqal/internal/middleware"
	"mithqal/internal/provider"
	"mithqal/internal/services"
	"mithqal/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "mithqal/internal/docs" // Import swagger docs
)

// @title           Mithqal API
// @version         1.0
// @description     Mithqal is a precious-metals portfolio tracker that records bullion trades, maintains weighted-average cost positions, and values holdings against recorded spot prices.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	priceProvider := provider.NewGoldAPIProvider(&http.Client{Timeout: 10 * time.Second}, appConfig.PriceFeedURL)

	userService := services.NewUserService(db)
	portfolioService := services.NewPortfolioService(db)
	priceService := services.NewPriceService(db, priceProvider)
	transactionService := services.NewTransactionService(db, portfolioService, priceService)
	summaryService := services.NewSummaryService(db, portfolioService, priceService)
	snapshotService := services.NewSnapshotService(db, portfolioService, priceService)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	summaryHandler := handlers.NewSummaryHandler(summaryService)
	priceHandler := handlers.NewPriceHandler(priceService)
	snapshotHandler := handlers.NewSnapshotHandler(snapshotService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Portfolio routes
	portfolios := protected.Group("/portfolios")
	portfolios.POST("", portfolioHandler.CreatePortfolio)
	portfolios.GET("", portfolioHandler.GetPortfolios)
	portfolios.GET("/:id", portfolioHandler.GetPortfolio)
	portfolios.PUT("/:id", portfolioHandler.UpdatePortfolio)
	portfolios.DELETE("/:id", portfolioHandler.DeletePortfolio)
	portfolios.POST("/:id/transactions", transactionHandler.CreateTransaction)
	portfolios.GET("/:id/transactions", transactionHandler.GetTransactions)
	portfolios.POST("/:id/transactions/validate", transactionHandler.ValidateTransaction)
	portfolios.GET("/:id/summary", summaryHandler.GetPortfolioSummary)
	portfolios.GET("/:id/summary/:symbol", summaryHandler.GetInstrumentSummary)
	portfolios.GET("/:id/ledger/:symbol", summaryHandler.GetInstrumentLedger)
	portfolios.GET("/:id/snapshots", snapshotHandler.GetSnapshots)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Price routes
	prices := protected.Group("/prices")
	prices.GET("", priceHandler.GetLatestPrices)
	prices.GET("/:symbol", priceHandler.GetPriceHistory)

	// Pipeline routes (key-authenticated, for the ingest/snapshot jobs)
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(appConfig.PipelineAPIKey))
	pipeline.POST("/prices", priceHandler.IngestPrice)
	pipeline.POST("/prices/refresh", priceHandler.RefreshPrices)
	pipeline.POST("/snapshots", snapshotHandler.TriggerSnapshots)

	// Periodic spot-price refresh
	if appConfig.PriceRefreshInterval > 0 {
		go refreshPricesLoop(priceService, appConfig.PriceRefreshInterval)
	}

	log.Infof("Starting Mithqal backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

func refreshPricesLoop(priceService services.PriceServicer, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		recorded, fetchErrs, err := priceService.RefreshSpotPrices(ctx)
		cancel()
		if err != nil {
			logger.Get().Errorf("Scheduled price refresh failed: %v", err)
			continue
		}
		for _, fe := range fetchErrs {
			logger.Get().Warnf("Scheduled price refresh: %s: %v", fe.Symbol, fe.Err)
		}
		logger.Get().Infof("Scheduled price refresh recorded %d price(s)", recorded)
	}
}
