package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For token and cache lifetimes

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort       string        // Application port
	DBDriver      string        // Database driver: mysql, postgres or sqlite
	DBUser        string        // Database user
	DBPassword    string        // Database password
	DBHost        string        // Database host
	DBPort        string        // Database port
	DBName        string        // Database name (file path for sqlite)
	DBDSN         string        // Full DSN, overrides the individual DB fields when set
	JWTSecret     string        // JWT secret key
	JWTAccessTTL  time.Duration // Access token lifetime
	JWTRefreshTTL time.Duration // Refresh token lifetime
	RedisAddr     string        // Redis server address, empty disables caching
	RedisPass     string        // Redis password
	RedisDB       int           // Redis database number
	CacheTTL      time.Duration // Lifetime of cached lists and reports
	IsProd        bool          // Is production environment
	LogLevel      string        // Logrus level name
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:       getenv("APP_PORT", "8080"),                    // Application port
		DBDriver:      getenv("DB_DRIVER", "mysql"),                  // Database driver
		DBUser:        os.Getenv("DB_USER"),                          // Database user
		DBPassword:    os.Getenv("DB_PASSWORD"),                      // Database password
		DBHost:        getenv("DB_HOST", "127.0.0.1"),                // Database host
		DBPort:        os.Getenv("DB_PORT"),                          // Database port
		DBName:        os.Getenv("DB_NAME"),                          // Database name
		DBDSN:         os.Getenv("DB_DSN"),                           // Full DSN override
		JWTSecret:     os.Getenv("JWT_SECRET"),                       // JWT secret key
		JWTAccessTTL:  getduration("JWT_ACCESS_TTL", 15*time.Minute), // Access token lifetime
		JWTRefreshTTL: getduration("JWT_REFRESH_TTL", 24*time.Hour),  // Refresh token lifetime
		RedisAddr:     os.Getenv("REDIS_ADDR"),                       // Redis server address
		RedisPass:     os.Getenv("REDIS_PASS"),                       // Redis password
		RedisDB:       redisDB,                                       // Redis database number
		CacheTTL:      getduration("CACHE_TTL", 60*time.Second),      // Cache lifetime
		IsProd:        os.Getenv("IS_PROD") == "true",                // Is production environment
		LogLevel:      getenv("LOG_LEVEL", "info"),                   // Log level
	}
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN // Explicit DSN wins
	}
	switch c.DBDriver {
	case "postgres":
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		return "host=" + c.DBHost + " user=" + c.DBUser + " password=" + c.DBPassword + " dbname=" + c.DBName + " port=" + port + " sslmode=disable"
	case "sqlite":
		return c.DBName // File path
	default:
		port := c.DBPort
		if port == "" {
			port = "3306"
		}
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + port + ")/" + c.DBName + "?parseTime=true"
	}
}

// getenv returns the variable or def when unset
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getduration parses a Go duration string, falling back to def
func getduration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return def
}
