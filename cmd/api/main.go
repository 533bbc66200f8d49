package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "revcycle-engine/docs"
	"revcycle-engine/internal/audit"
	"revcycle-engine/internal/config"
	"revcycle-engine/internal/handler"
	"revcycle-engine/internal/middleware"
	"revcycle-engine/internal/repository"
	"revcycle-engine/internal/service"
	"revcycle-engine/pkg/logger"
)

// @title Revenue Cycle Reconciliation API
// @version 1.0
// @description API for reconciling insurer payments against medical account balances and managing glosa appeals
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@revcycle-engine.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Init(cfg.App.LogLevel)
	logger.GetLogger().Info("Starting Revenue Cycle Reconciliation Service")

	// Connect to database
	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.GetLogger().WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	logger.GetLogger().Info("Database connection established")

	// Redis backs the rate limiter
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Audit events go to RabbitMQ when configured, the log otherwise
	auditPub := connectAudit(cfg.RabbitMQ)

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	glosaRepo := repository.NewGlosaRepository(db)

	// Initialize services
	accountService := service.NewAccountService(accountRepo)
	paymentService := service.NewPaymentService(paymentRepo)
	glosaService := service.NewGlosaService(glosaRepo, accountRepo, auditPub)
	reconService := service.NewReconciliationService(paymentRepo, accountRepo, auditPub)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	glosaHandler := handler.NewGlosaHandler(glosaService)
	reconHandler := handler.NewReconciliationHandler(reconService)

	// Setup router
	router := setupRouter(cfg, redisClient, accountHandler, paymentHandler, glosaHandler, reconHandler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.GetLogger().WithField("address", addr).Info("Server starting")

	if err := router.Run(addr); err != nil {
		logger.GetLogger().WithError(err).Fatal("Failed to start server")
	}
}

func connectDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func connectAudit(cfg config.RabbitMQConfig) audit.Publisher {
	if cfg.URL == "" {
		logger.GetLogger().Info("RabbitMQ not configured, audit events go to the log")
		return audit.NewLogPublisher()
	}

	pub, err := audit.NewAMQPPublisher(cfg.URL, cfg.Exchange)
	if err != nil {
		logger.GetLogger().WithError(err).Warn("Failed to connect to RabbitMQ, audit events go to the log")
		return audit.NewLogPublisher()
	}

	return pub
}

func setupRouter(
	cfg *config.Config,
	redisClient *redis.Client,
	accountHandler *handler.AccountHandler,
	paymentHandler *handler.PaymentHandler,
	glosaHandler *handler.GlosaHandler,
	reconHandler *handler.ReconciliationHandler,
) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	if cfg.Auth.Enabled {
		v1.Use(middleware.Auth(cfg.Auth.JWTSecret))
	}
	{
		// Account routes
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.CreateAccount)
			accounts.GET("", accountHandler.ListAccounts)
			accounts.GET("/:account_id", accountHandler.GetAccount)
			accounts.PATCH("/:account_id/status", accountHandler.TransitionAccountStatus)
			accounts.GET("/:account_id/glosas", glosaHandler.ListAccountGlosas)
		}

		// Payment routes
		payments := v1.Group("/payments")
		{
			payments.POST("", paymentHandler.CreatePayment)
			payments.GET("", paymentHandler.ListPayments)
			payments.GET("/:payment_id", paymentHandler.GetPayment)
		}

		// Glosa routes
		glosas := v1.Group("/glosas")
		{
			glosas.POST("", glosaHandler.RegisterGlosa)
			glosas.GET("/:glosa_id", glosaHandler.GetGlosa)
			glosas.PUT("/:glosa_id/appeal", glosaHandler.UpdateAppeal)
			glosas.POST("/:glosa_id/appeal/submit", glosaHandler.SubmitAppeal)
			glosas.POST("/:glosa_id/appeal/resolve", glosaHandler.ResolveAppeal)
		}

		// Reconciliation route, role gated and rate limited per client
		reconcile := v1.Group("/reconcile")
		if cfg.Auth.Enabled {
			reconcile.Use(middleware.RequireRole(cfg.Auth.ReconcileRoles...))
		}
		reconcile.Use(middleware.RateLimit(
			redisClient,
			cfg.App.RateLimit,
			time.Duration(cfg.App.RateLimitWindowSecs)*time.Second,
		))
		{
			reconcile.POST("", reconHandler.Reconcile)
		}
	}

	return router
}
