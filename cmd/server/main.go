package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/homeheartcreation/shop-backend/config"
	"github.com/homeheartcreation/shop-backend/internal/app/controller"
	"github.com/homeheartcreation/shop-backend/internal/app/repository"
	"github.com/homeheartcreation/shop-backend/internal/app/service"
	"github.com/homeheartcreation/shop-backend/internal/db"
	"github.com/homeheartcreation/shop-backend/internal/middleware"
	"github.com/homeheartcreation/shop-backend/internal/router"
	"github.com/homeheartcreation/shop-backend/internal/scheduler"
	"github.com/homeheartcreation/shop-backend/internal/storage"
	"github.com/homeheartcreation/shop-backend/pkg/logger"
	"github.com/homeheartcreation/shop-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting shop backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database; an unreachable database leaves the server degraded
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Warn("Migrations skipped, database unavailable", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Token revocation is optional
	var blacklist service.TokenBlacklist
	var tokenStore *redis.TokenStore
	if cfg.Redis.Enabled() {
		client, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, logout will not revoke tokens", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			tokenStore = redis.NewTokenStore(client)
			blacklist = tokenStore
		}
	}

	var objectStorage storage.ObjectStorage
	if cfg.S3.Bucket != "" {
		objectStorage = storage.NewS3Storage(cfg.S3)
	}

	gdb := db.GetDB()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gdb)
	categoryRepo := repository.NewCategoryRepository(gdb)
	productRepo := repository.NewProductRepository(gdb)
	reviewRepo := repository.NewReviewRepository(gdb)
	orderRepo := repository.NewOrderRepository(gdb)
	messageRepo := repository.NewMessageRepository(gdb)
	notificationRepo := repository.NewNotificationRepository(gdb)

	// Initialize services
	authService := service.NewAuthService(userRepo, blacklist, cfg.JWT.Secret, cfg.JWT.TokenTTL)
	categoryService := service.NewCategoryService(categoryRepo, productRepo, gdb)
	productService := service.NewProductService(productRepo, categoryRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo, gdb)
	orderService := service.NewOrderService(orderRepo, productRepo, notificationRepo, gdb)
	messageService := service.NewMessageService(messageRepo, notificationRepo, gdb)
	notificationService := service.NewNotificationService(notificationRepo)

	// Initialize controllers
	r := router.NewRouter(
		controller.NewAuthController(authService),
		controller.NewCategoryController(categoryService),
		controller.NewProductController(productService),
		controller.NewReviewController(reviewService),
		controller.NewOrderController(orderService),
		controller.NewMessageController(messageService),
		controller.NewNotificationController(notificationService),
		controller.NewUploadController(objectStorage, cfg.Upload.MaxBytes, cfg.Upload.MaxWidth),
		controller.NewHealthController(gdb),
		middleware.NewAuthMiddleware(authService),
		cfg,
	)
	engine := r.Setup()

	reconciler := scheduler.NewReconcileScheduler(cfg.Scheduler.ReconcileSchedule, reviewService, notificationService)
	if err := reconciler.Start(); err != nil {
		logger.Fatal("Failed to start review reconcile scheduler", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	reconciler.Stop()
	if tokenStore != nil {
		if err := tokenStore.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}

	logger.Info("Server stopped successfully")
}
