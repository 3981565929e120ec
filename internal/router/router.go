package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/homeheartcreation/shop-backend/config"
	"github.com/homeheartcreation/shop-backend/internal/app/controller"
	"github.com/homeheartcreation/shop-backend/internal/errors"
	"github.com/homeheartcreation/shop-backend/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	categoryController     *controller.CategoryController
	productController      *controller.ProductController
	reviewController       *controller.ReviewController
	orderController        *controller.OrderController
	messageController      *controller.MessageController
	notificationController *controller.NotificationController
	uploadController       *controller.UploadController
	healthController       *controller.HealthController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	categoryController *controller.CategoryController,
	productController *controller.ProductController,
	reviewController *controller.ReviewController,
	orderController *controller.OrderController,
	messageController *controller.MessageController,
	notificationController *controller.NotificationController,
	uploadController *controller.UploadController,
	healthController *controller.HealthController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		categoryController:     categoryController,
		productController:      productController,
		reviewController:       reviewController,
		orderController:        orderController,
		messageController:      messageController,
		notificationController: notificationController,
		uploadController:       uploadController,
		healthController:       healthController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/metrics", middleware.PrometheusHandler())
	router.NoRoute(func(c *gin.Context) {
		errors.NotFound(c, errors.ResourceNotFound, "Not found - "+c.Request.URL.Path)
	})

	authenticated := r.authMiddleware.Authenticate()
	admin := r.authMiddleware.RequireAdmin()

	api := router.Group("/api")
	{
		api.GET("/health", r.healthController.Health)
		api.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "API is running..."})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/login", r.authController.Login)
			auth.POST("/register", r.authMiddleware.OptionalAuthenticate(), r.authController.Register)
			auth.POST("/logout", authenticated, r.authController.Logout)

			profile := auth.Group("/profile")
			profile.Use(authenticated)
			{
				profile.GET("", r.authController.GetProfile)
				profile.PUT("", r.authController.UpdateProfile)
				profile.PUT("/password", r.authController.ChangePassword)
				profile.POST("/password/verify", r.authController.VerifyPassword)
			}
		}

		categories := api.Group("/categories")
		{
			categories.GET("", r.categoryController.ListCategories)
			categories.GET("/:id", r.categoryController.GetCategory)
			categories.POST("", authenticated, admin, r.categoryController.CreateCategory)
			categories.PUT("/:id", authenticated, admin, r.categoryController.UpdateCategory)
			categories.DELETE("/:id", authenticated, admin, r.categoryController.DeleteCategory)
		}

		products := api.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/featured", r.productController.GetFeaturedProducts)
			products.GET("/reviews/all", authenticated, admin, r.reviewController.ListAllReviews)
			products.GET("/:id", r.productController.GetProduct)
			products.POST("", authenticated, admin, r.productController.CreateProduct)
			products.PUT("/:id", authenticated, admin, r.productController.UpdateProduct)
			products.DELETE("/:id", authenticated, admin, r.productController.DeleteProduct)

			products.POST("/:id/reviews", r.reviewController.AddReview)
			products.DELETE("/:id/reviews/:reviewId", authenticated, admin, r.reviewController.DeleteReview)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", r.orderController.PlaceOrder)

			adminOrders := orders.Group("")
			adminOrders.Use(authenticated, admin)
			{
				adminOrders.GET("", r.orderController.ListOrders)
				adminOrders.GET("/stats", r.orderController.GetStats)
				adminOrders.GET("/export", r.orderController.ExportOrders)
				adminOrders.GET("/:id", r.orderController.GetOrder)
				adminOrders.PUT("/:id/status", r.orderController.UpdateOrderStatus)
				adminOrders.PUT("/:id/pay", r.orderController.MarkOrderPaid)
				adminOrders.DELETE("/:id", r.orderController.DeleteOrder)
			}
		}

		messages := api.Group("/messages")
		{
			messages.POST("", r.messageController.SubmitMessage)
			messages.GET("", authenticated, admin, r.messageController.ListMessages)
			messages.GET("/:id", authenticated, admin, r.messageController.GetMessage)
			messages.PUT("/:id", authenticated, admin, r.messageController.UpdateMessage)
			messages.DELETE("/:id", authenticated, admin, r.messageController.DeleteMessage)
		}

		notifications := api.Group("/notifications")
		notifications.Use(authenticated, admin)
		{
			notifications.GET("", r.notificationController.ListNotifications)
			notifications.GET("/unread-count", r.notificationController.UnreadCount)
			notifications.PUT("/read-all", r.notificationController.MarkAllRead)
			notifications.PUT("/:id/read", r.notificationController.MarkRead)
			notifications.DELETE("/:id", r.notificationController.DeleteNotification)
		}

		uploads := api.Group("/uploads")
		uploads.Use(authenticated, admin)
		{
			uploads.POST("", r.uploadController.UploadImage)
			uploads.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}
