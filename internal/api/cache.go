package api

import (
	"net/http" // HTTP status codes
	"time"     // Cache TTL

	"inventory_sales/internal/domain"     // Domain models
	"inventory_sales/internal/middleware" // Request scoped logger
	"inventory_sales/internal/repository" // List options
	"inventory_sales/internal/utils"      // Cache helpers
	"inventory_sales/internal/visibility" // Audience

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// Cache namespaces of the reference lists
const (
	nsCategories     = "list:categories"
	nsPaymentMethods = "list:payment-methods"
	nsProducts       = "list:products"
)

// ListCache holds rendered reference list pages in Redis. Each namespace
// carries a version counter; writes bump it so stale pages are never read.
type ListCache struct {
	rdb *redis.Client // Redis client, nil disables caching
	ttl time.Duration // Page lifetime
}

// NewListCache creates a list cache
func NewListCache(rdb *redis.Client, ttl time.Duration) *ListCache {
	return &ListCache{rdb: rdb, ttl: ttl}
}

// serve writes the cached page for this request, or builds, caches and writes it
func (lc *ListCache) serve(c *gin.Context, ns string, viewer *domain.User, build func() (gin.H, error)) {
	ctx := c.Request.Context()
	audience := "public"
	if visibility.AudienceOf(viewer) == visibility.Staff {
		audience = "staff"
	}
	// Create a cache key from the namespace version, the audience and the query
	cacheKey := ns + ":v" + utils.CacheVersion(ctx, lc.rdb, ns) + ":" + audience + ":" + c.Request.URL.Query().Encode()
	// Try to get cached response
	var cached gin.H
	found, err := utils.GetCache(ctx, lc.rdb, cacheKey, &cached)
	if err == nil && found {
		cached["cached"] = true // Indicate response is from cache
		c.JSON(http.StatusOK, cached)
		return
	}
	resp, err := build()
	if err != nil {
		respondError(c, err)
		return
	}
	// Cache the response data
	if err := utils.SetCache(ctx, lc.rdb, cacheKey, resp, lc.ttl); err != nil {
		middleware.Logger(c).WithError(err).Warn("Failed to cache list page")
	}
	c.JSON(http.StatusOK, resp)
}

// invalidate bumps the version of every namespace a write touched
func (lc *ListCache) invalidate(c *gin.Context, namespaces ...string) {
	for _, ns := range namespaces {
		if err := utils.BumpCacheVersion(c.Request.Context(), lc.rdb, ns); err != nil {
			middleware.Logger(c).WithError(err).WithField("namespace", ns).Warn("Failed to invalidate list cache")
		}
	}
}

// pageBody renders one page of a collection
func pageBody(key string, items []gin.H, total int64, opts repository.ListOptions) gin.H {
	totalPages := (int(total) + opts.PageSize - 1) / opts.PageSize // Calculate total pages
	return gin.H{
		key:           items,         // Projected items
		"page":        opts.Page,     // Current page
		"page_size":   opts.PageSize, // Page size
		"total":       total,         // Total number of matching rows
		"total_pages": totalPages,    // Total pages
	}
}
