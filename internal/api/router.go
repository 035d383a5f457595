package api

import (
	"inventory_sales/internal/metrics"    // Prometheus endpoint
	"inventory_sales/internal/middleware" // Auth and request ID middleware
	"inventory_sales/internal/service"    // Services
	"inventory_sales/internal/visibility" // Base path

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// Deps are the collaborators the routes are built from
type Deps struct {
	DB      *gorm.DB         // Database, for health checks
	Redis   *redis.Client    // Redis client, may be nil
	Catalog *service.Catalog // Categories, payment methods and products
	Sales   *service.Sales   // Sale aggregate
	Reports *service.Reports // Sales reports
	Users   *service.Users   // Identities and credentials
	Lists   *ListCache       // Reference list cache
	Tokens  TokenSettings    // JWT settings
}

// RegisterRoutes mounts every route on r
func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middleware.RequestIDMiddleware(), metrics.Middleware())

	r.GET("/healthz", HealthHandler(d.DB, d.Redis)) // Liveness and dependency check
	r.GET("/metrics", metrics.Handler())            // Prometheus scrape endpoint

	v1 := r.Group(visibility.BasePath)

	// Auth routes
	auth := v1.Group("/auth")
	auth.POST("/token", TokenHandler(d.Users, d.Tokens))           // Login endpoint
	auth.POST("/token/refresh", RefreshHandler(d.Users, d.Tokens)) // Refresh endpoint
	auth.POST("/token/verify", VerifyHandler(d.Tokens))            // Verify endpoint

	// Resource routes; anonymous access allowed, services enforce permissions
	res := v1.Group("")
	res.Use(middleware.OptionalJWTAuthMiddleware(d.Tokens.Secret, d.Users))
	res.GET("/", RootHandler()) // Collection links

	res.GET("/categories", ListCategoriesHandler(d.Catalog, d.Lists))
	res.POST("/categories", SaveCategoryHandler(d.Catalog, d.Lists))
	res.GET("/categories/:id", GetCategoryHandler(d.Catalog))
	res.PUT("/categories/:id", SaveCategoryHandler(d.Catalog, d.Lists))
	res.DELETE("/categories/:id", DeleteCategoryHandler(d.Catalog, d.Lists))

	res.GET("/payment-methods", ListPaymentMethodsHandler(d.Catalog, d.Lists))
	res.POST("/payment-methods", SavePaymentMethodHandler(d.Catalog, d.Lists))
	res.GET("/payment-methods/:id", GetPaymentMethodHandler(d.Catalog))
	res.PUT("/payment-methods/:id", SavePaymentMethodHandler(d.Catalog, d.Lists))
	res.DELETE("/payment-methods/:id", DeletePaymentMethodHandler(d.Catalog, d.Lists))

	res.GET("/products", ListProductsHandler(d.Catalog, d.Lists))
	res.POST("/products", SaveProductHandler(d.Catalog, d.Lists))
	res.GET("/products/:id", GetProductHandler(d.Catalog))
	res.PUT("/products/:id", SaveProductHandler(d.Catalog, d.Lists))
	res.DELETE("/products/:id", DeleteProductHandler(d.Catalog, d.Lists))

	res.GET("/sales", ListSalesHandler(d.Sales))
	res.POST("/sales", CreateSaleHandler(d.Sales, d.Lists))
	res.GET("/sales/:id", GetSaleHandler(d.Sales))
	res.PUT("/sales/:id", UpdateSaleHandler(d.Sales))
	res.DELETE("/sales/:id", DeleteSaleHandler(d.Sales))

	res.GET("/stats/most-sold-product", MostSoldProductHandler(d.Reports))
	res.GET("/stats/most-used-payment-method", MostUsedPaymentMethodHandler(d.Reports))

	// User routes (authenticated sellers only)
	users := v1.Group("/users")
	users.Use(middleware.JWTAuthMiddleware(d.Tokens.Secret, d.Users), middleware.SellerOnlyMiddleware())
	users.GET("", ListUsersHandler(d.Users))
	users.POST("", CreateUserHandler(d.Users))
	users.GET("/:id", GetUserHandler(d.Users))
}
