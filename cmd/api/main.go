package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/google"
	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
	"fintrack/internal/validator"

	_ "fintrack/internal/docs" // Import swagger docs
)

// @title           Fintrack API
// @version         1.0
// @description     Fintrack is a personal finance tracker: per-user transactions, achievement badges, and summary aggregation, with password and Google sign-in.

// @host      localhost:8080
// @BasePath  /

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

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	profileService := services.NewProfileService(db)
	transactionService := services.NewTransactionService(db)
	badgeService := services.NewBadgeService(db)
	auditService := services.NewAuditService(db)
	googleVerifier := google.NewVerifier(appConfig.GoogleTokenInfoURL, appConfig.GoogleTimeout)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService, googleVerifier)
	profileHandler := handlers.NewProfileHandler(profileService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	badgeHandler := handlers.NewBadgeHandler(badgeService, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

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

	// Public routes
	router.POST("/register/", authHandler.Register)
	router.POST("/login/", authHandler.Login)
	router.POST("/google/", authHandler.GoogleLogin)
	router.POST("/refresh/", authHandler.Refresh)

	// Protected routes
	protected := router.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/me/", authHandler.Me)

	protected.GET("/profile/", profileHandler.GetProfile)
	protected.PATCH("/profile/", profileHandler.UpdateProfile)

	protected.GET("/transactions/", transactionHandler.GetUserTransactions)
	protected.POST("/transactions/", transactionHandler.CreateTransaction)
	protected.GET("/transactions/summary/", transactionHandler.GetSummary)
	protected.GET("/transactions/:id/", transactionHandler.GetTransactionByID)
	protected.PUT("/transactions/:id/", transactionHandler.UpdateTransaction)
	protected.PATCH("/transactions/:id/", transactionHandler.PatchTransaction)
	protected.DELETE("/transactions/:id/", transactionHandler.DeleteTransaction)

	protected.GET("/badges/", badgeHandler.GetUserBadges)
	protected.POST("/badges/", badgeHandler.CreateBadge)
	protected.GET("/badges/:id/", badgeHandler.GetBadgeByID)
	protected.PUT("/badges/:id/", badgeHandler.UpdateBadge)
	protected.PATCH("/badges/:id/", badgeHandler.UpdateBadge)
	protected.DELETE("/badges/:id/", badgeHandler.DeleteBadge)

	log.Infof("Starting Fintrack backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
