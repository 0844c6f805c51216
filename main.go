package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foodhub/foodhub-api/config"
	"github.com/foodhub/foodhub-api/controllers"
	"github.com/foodhub/foodhub-api/logger"
	"github.com/foodhub/foodhub-api/middleware"
	"github.com/foodhub/foodhub-api/services"
	"github.com/foodhub/foodhub-api/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:        cfg.LogLevel,
		Format:       cfg.LogFormat,
		EnableCaller: !cfg.IsProduction(),
		Component:    "foodhub-api",
		Environment:  cfg.GoEnv,
	})
	logger.Set(log)
	log.Info("Starting FoodHub API server...")

	if err := services.StatusTransitions(cfg.OrderStatusTransitions).Validate(); err != nil {
		log.Error("Invalid ORDER_STATUS_TRANSITIONS", "error", err)
		os.Exit(1)
	}

	// Connect to database
	if err := config.ConnectDatabase(cfg); err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	db := config.GetDB()
	if err := config.Migrate(db); err != nil {
		log.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}
	if err := config.Seed(db, cfg); err != nil {
		log.Error("Failed to seed database", "error", err)
		os.Exit(1)
	}
	log.Info("Database migration completed successfully")

	// Images go to S3 when a bucket is configured, otherwise to the local upload directory
	utils.UploadDir = cfg.UploadDir
	if cfg.UsesS3() {
		s3Service, err := services.InitS3Service(cfg)
		if err != nil {
			log.Error("Failed to initialize S3 service", "error", err)
			os.Exit(1)
		}
		services.InitImageService(s3Service)
		log.Info("Image storage: S3", "bucket", cfg.AWSS3Bucket)
	} else {
		services.InitLocalImageService(cfg.UploadDir)
		log.Info("Image storage: local", "dir", cfg.UploadDir)
	}

	dispatcher := services.InitNotificationDispatcher(db, cfg.NotificationTimeout, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(cfg, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server is running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	// Let in-flight staff notifications finish before the pool closes
	dispatcher.Wait()
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("Server exited")
}

// setupRouter wires middleware and every API route
func setupRouter(cfg *config.Config, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(log.GinMiddleware())
	router.Use(cors.New(corsConfig(cfg)))

	auth := middleware.EnsureValidToken(cfg)
	staff := middleware.RequireStaff()

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)
		v1.GET("/uploads/:filename", controllers.GetUploadedImage)

		v1.POST("/auth/register", controllers.Register)
		v1.POST("/auth/login", controllers.Login)

		// Catalog reads are public
		v1.GET("/categories", controllers.ListCategories)
		v1.GET("/categories/:id", controllers.GetCategory)
		v1.GET("/subcategories", controllers.ListSubcategories)
		v1.GET("/subcategories/:id", controllers.GetSubcategory)
		v1.GET("/foods", controllers.ListFoods)
		v1.GET("/foods/:id", controllers.GetFood)

		protected := v1.Group("", auth)
		{
			protected.GET("/users/me", controllers.GetMyProfile)
			protected.PUT("/users/me", controllers.UpdateMyProfile)
			protected.PUT("/users/me/password", controllers.ChangeMyPassword)

			protected.GET("/cart", controllers.GetCart)
			protected.POST("/cart/items", controllers.AddCartItem)
			protected.PUT("/cart/items", controllers.UpdateCartItem)
			protected.DELETE("/cart/items/:food_id", controllers.RemoveCartItem)
			protected.DELETE("/cart", controllers.ClearCart)

			protected.POST("/orders", controllers.CreateOrder)
			protected.GET("/orders", controllers.ListMyOrders)
			protected.GET("/orders/:id", controllers.GetOrder)

			protected.GET("/order-history", controllers.ListMyOrderHistory)
			protected.GET("/order-history/:id", controllers.GetOrderHistoryEntry)

			protected.GET("/addresses", controllers.ListAddresses)
			protected.POST("/addresses", controllers.CreateAddress)
			protected.PUT("/addresses/:id", controllers.UpdateAddress)
			protected.DELETE("/addresses/:id", controllers.DeleteAddress)

			protected.GET("/notifications", controllers.ListNotifications)
			protected.GET("/notifications/unread-count", controllers.GetUnreadCount)
			protected.PUT("/notifications/:id/read", controllers.MarkNotificationRead)
			protected.DELETE("/notifications/:id", controllers.DeleteNotification)
		}

		admin := v1.Group("", auth, staff)
		{
			admin.GET("/users", controllers.ListUsers)
			admin.PUT("/users/:id", controllers.UpdateUser)

			admin.POST("/categories", controllers.CreateCategory)
			admin.PUT("/categories/:id", controllers.UpdateCategory)
			admin.DELETE("/categories/:id", controllers.DeleteCategory)
			admin.POST("/subcategories", controllers.CreateSubcategory)
			admin.PUT("/subcategories/:id", controllers.UpdateSubcategory)
			admin.DELETE("/subcategories/:id", controllers.DeleteSubcategory)
			admin.POST("/foods", controllers.CreateFood)
			admin.PUT("/foods/:id", controllers.UpdateFood)
			admin.DELETE("/foods/:id", controllers.DeleteFood)

			admin.GET("/orders/all", controllers.ListAllOrders)
			admin.GET("/orders/stats", controllers.GetOrderStats)
			admin.PUT("/orders/:id/status", controllers.UpdateOrderStatus)

			admin.GET("/order-history/all", controllers.ListAllOrderHistory)
			admin.GET("/order-history/users/:user_id", controllers.ListUserOrderHistory)
			admin.DELETE("/order-history/:id", controllers.DeleteOrderHistoryEntry)

			admin.GET("/dashboard/stats", controllers.GetDashboardStats)
		}
	}

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-ID")
	corsCfg.ExposeHeaders = []string{"X-Request-ID"}
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return corsCfg
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "FoodHub API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Database is not initialized",
			},
		})
		return
	}

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := db.WithContext(c.Request.Context()).Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
