package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eshop-server/config"
	"eshop-server/consumers"
	"eshop-server/controllers"
	"eshop-server/database"
	"eshop-server/middlewares"
	"eshop-server/rabbitmq"
	"eshop-server/services"
)

func main() {
	cfg := config.LoadConfig()

	if err := database.InitDB(cfg); err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	defer database.CloseDB()

	userStore := database.NewUserStore()
	categoryStore := database.NewCategoryStore()
	productStore := database.NewProductStore()
	orderItemStore := database.NewOrderItemStore()
	orderStore := database.NewOrderStore()

	// broker is optional; without it the shop runs with events disabled
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		rmq, err := rabbitmq.NewRabbitMQ(cfg)
		if err != nil {
			log.Fatalf("RabbitMQ initialization failed: %v", err)
		}
		defer rmq.Close()

		if err := rmq.SetupQueues(); err != nil {
			log.Fatalf("Failed to setup RabbitMQ queues: %v", err)
		}
		go consumers.StartOrderConsumer(rmq.Channel, cfg, orderStore)
		events = rmq
	} else {
		log.Println("RABBITMQ_URL not set, order events disabled")
	}

	controllers.SetCategoryStore(categoryStore)
	controllers.SetProductStore(productStore)
	controllers.SetAccountService(services.NewAccountService(userStore, cfg.JWTSecret, cfg.BcryptCost))
	controllers.SetOrderService(services.NewOrderService(orderStore, orderItemStore, productStore, userStore, events))
	controllers.SetUploadConfig(cfg.UploadDir, cfg.UploadPath)

	r := gin.Default()

	r.Use(middlewares.PrometheusMiddleware())
	r.Use(middlewares.AuthRequired(cfg.JWTSecret, middlewares.PublicRoutes(cfg.APIPrefix, cfg.UploadPath)))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.Static(cfg.UploadPath, cfg.UploadDir)

	api := r.Group(cfg.APIPrefix)

	products := api.Group("/products")
	{
		products.GET("", controllers.ListProducts)
		products.GET("/:id", controllers.GetProduct)
		products.GET("/get/featured/:count", controllers.GetFeaturedProducts)
		products.GET("/get/count", controllers.GetProductCount)
		products.POST("", middlewares.AdminRequired(), controllers.CreateProduct)
		products.PUT("/:id", middlewares.AdminRequired(), controllers.UpdateProduct)
		products.PUT("/gallery-images/:id", middlewares.AdminRequired(), controllers.UpdateProductGallery)
		products.DELETE("/:id", middlewares.AdminRequired(), controllers.DeleteProduct)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", controllers.ListCategories)
		categories.GET("/:id", controllers.GetCategory)
		categories.POST("", middlewares.AdminRequired(), controllers.CreateCategory)
		categories.PUT("/:id", middlewares.AdminRequired(), controllers.UpdateCategory)
		categories.DELETE("/:id", middlewares.AdminRequired(), controllers.DeleteCategory)
	}

	users := api.Group("/users")
	{
		users.POST("/register", controllers.Register)
		users.POST("/login", controllers.Login)
		users.GET("", middlewares.AdminRequired(), controllers.ListUsers)
		users.GET("/:id", middlewares.AdminRequired(), controllers.GetUser)
		users.POST("", middlewares.AdminRequired(), controllers.CreateUser)
		users.DELETE("/:id", middlewares.AdminRequired(), controllers.DeleteUser)
		users.GET("/get/count", middlewares.AdminRequired(), controllers.GetUserCount)
	}

	orders := api.Group("/orders")
	{
		orders.GET("", controllers.ListOrders)
		orders.GET("/:id", controllers.GetOrder)
		orders.GET("/userorders/:userid", controllers.GetUserOrders)
		orders.POST("", controllers.CreateOrder)
		orders.PUT("/:id", controllers.UpdateOrderStatus)
		orders.DELETE("/:id", controllers.DeleteOrder)
		orders.GET("/get/totalsales", controllers.GetTotalSales)
		orders.GET("/get/count", controllers.GetOrderCount)
	}

	addr := ":" + cfg.Port
	log.Printf("eshop server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
