package main

import (
	"context" // context package is needed for Redis operations

	"inventory_sales/internal/api"        // Custom package for API handlers
	"inventory_sales/internal/config"     // Custom package for configuration
	"inventory_sales/internal/db"         // Custom package for database setup
	"inventory_sales/internal/repository" // Custom package for persistence
	"inventory_sales/internal/service"    // Custom package for business services

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{}) // Machine readable logs in production
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be set")
	}

	// Connect to the database and bring the schema up to date
	conn, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Migrate(conn); err != nil {
		logrus.Fatalf("failed to migrate DB: %v", err)
	}

	// Setup Redis client; caching stays off without an address
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	repo := repository.New(conn)
	api.RegisterRoutes(r, api.Deps{
		DB:      conn,                                                // Health checks
		Redis:   redisClient,                                         // Optional cache
		Catalog: service.NewCatalog(repo, redisClient),               // Catalog service
		Sales:   service.NewSales(repo, redisClient),                 // Sale service
		Reports: service.NewReports(repo, redisClient, cfg.CacheTTL), // Report service
		Users:   service.NewUsers(repo),                              // Identity service
		Lists:   api.NewListCache(redisClient, cfg.CacheTTL),         // List cache
		Tokens: api.TokenSettings{
			Secret:     cfg.JWTSecret,     // HMAC secret
			AccessTTL:  cfg.JWTAccessTTL,  // Access token lifetime
			RefreshTTL: cfg.JWTRefreshTTL, // Refresh token lifetime
		},
	})

	logrus.WithField("port", cfg.AppPort).Info("Server running") // Log server start
	// Start the server on port cfg.AppPort
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
