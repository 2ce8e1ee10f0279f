package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/config"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/database"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/handlers"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/middleware"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/migrations"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/models"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/routes"
	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/services"
	"github.com/TandelPriyanshi/BorrowBase-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// 0. Load Config & Initialize Logger
	config.LoadConfig()

	// Environment-based logger initialization (production = JSON, development = pretty)
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)

	logger.Info().Str("environment", env).Msg("Starting BorrowBase Backend...")

	// Set Gin mode based on environment
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Connect Database
	database.Connect()
	database.InitRedis()

	// --- Database Migration Stage ---
	logger.Info().Msg("🔄 Running Database Migrations (Stage 1: Tables)...")

	// Disable foreign key constraints on the first pass so circular
	// references (User <-> Resource) migrate cleanly
	database.DB.Config.DisableForeignKeyConstraintWhenMigrating = true

	tableModels := []interface{}{
		&models.User{},
		&models.Resource{},
		&models.ResourcePhoto{},
		&models.BorrowRequest{},
		&models.Message{},
		&models.Review{},
		&models.Notification{},
		&models.QueuedNotification{},
		&models.SystemSetting{},
	}

	for _, m := range tableModels {
		if err := database.DB.AutoMigrate(m); err != nil {
			logger.Fatal().Err(err).Msgf("Failed to migrate table for %T", m)
		}
	}

	logger.Info().Msg("🔄 Running Database Migrations (Stage 2: Constraints)...")
	database.DB.Config.DisableForeignKeyConstraintWhenMigrating = false
	if err := database.DB.AutoMigrate(tableModels...); err != nil {
		logger.Fatal().Err(err).Msg("Failed to add database constraints")
	}

	logger.Info().Msg("🔄 Running Database Migrations (Stage 3: Versioned)...")
	if err := migrations.NewMigrator(database.DB).Run(); err != nil {
		logger.Fatal().Err(err).Msg("Versioned migrations failed")
	}
	logger.Info().Msg("✅ Database Migrations Complete")

	// 3. Init OAuth
	handlers.InitOAuthConfig()

	// 4. Setup Router
	r := gin.New()

	// Middlewares
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	// Exempt /socket.io from rate limiting (long-polling transport hammers it)
	r.Use(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 10 && c.Request.URL.Path[:10] == "/socket.io" {
			c.Next()
			return
		}
		middleware.GeneralRateLimit()(c)
	})

	// 5. Register Routes
	api := r.Group("/api")
	{
		// Auth routes - no maintenance check (allow login even during maintenance)
		auth := api.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		routes.RegisterAuthRoutes(auth)

		// Public system status (for maintenance page)
		api.GET("/system/status", handlers.PublicGetSystemStatus)

		// Protected routes - apply maintenance mode check
		protected := api.Group("")
		protected.Use(middleware.OptionalAuthMiddleware(), middleware.MaintenanceMode())

		routes.RegisterUserRoutes(protected)
		routes.RegisterResourceRoutes(protected)
		routes.RegisterBorrowRoutes(protected)
		routes.RegisterChatRoutes(protected)
		routes.RegisterNotificationRoutes(protected)
		routes.RegisterReviewRoutes(protected)
		routes.RegisterUploadRoutes(protected)
		routes.RegisterAdminRoutes(api) // Admin routes bypass maintenance
	}

	// Enhanced health check with DB and Redis status
	r.GET("/health", func(c *gin.Context) {
		dbStatus := "ok"
		redisStatus := "ok"

		sqlDB, err := database.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			dbStatus = "error"
		}

		if database.Redis != nil {
			if _, err := database.Redis.Ping(context.Background()).Result(); err != nil {
				redisStatus = "error"
			}
		} else {
			redisStatus = "not configured"
		}

		status := "ok"
		if dbStatus != "ok" || (redisStatus != "ok" && redisStatus != "not configured") {
			status = "degraded"
		}

		c.JSON(200, gin.H{
			"status":  status,
			"message": "BorrowBase Backend is running 🚀",
			"checks": gin.H{
				"database": dbStatus,
				"redis":    redisStatus,
			},
		})
	})

	// Init Socket.io
	socketServer := handlers.InitSocketServer()
	defer socketServer.Close()

	r.GET("/socket.io/*any", handlers.SocketHandler(socketServer))
	r.POST("/socket.io/*any", handlers.SocketHandler(socketServer))

	// Background dispatcher for queued notifications
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	defer stopDispatcher()
	dispatcher := services.NewDispatcher(database.DB, handlers.PushToUser)
	go dispatcher.Run(dispatcherCtx)

	// 6. Start Server with graceful shutdown
	port := config.AppConfig.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", port).Str("env", env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("🛑 Shutting down server gracefully...")

	stopDispatcher()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("✅ Server exited gracefully")
}
