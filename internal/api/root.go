package api

import (
	"net/http" // HTTP status codes

	"inventory_sales/internal/visibility" // Base path

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// RootHandler links to every collection
func RootHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		base := visibility.BasePath
		c.JSON(http.StatusOK, gin.H{
			"categories":      base + "/categories",      // Categories collection
			"payment_methods": base + "/payment-methods", // Payment methods collection
			"products":        base + "/products",        // Products collection
			"sales":           base + "/sales",           // Sales collection
			"users":           base + "/users",           // Users collection
		})
	}
}

// HealthHandler checks the database and, when configured, Redis
func HealthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "redis": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
