package service

import (
	"context" // Request scoped cancellation
	"time"    // Cache TTL

	"inventory_sales/internal/domain"     // Domain models
	"inventory_sales/internal/repository" // Persistence boundary
	"inventory_sales/internal/utils"      // Cache helpers

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// Cache keys holding the ID of each report's current winner
const (
	mostSoldProductKey       = "report:most_sold_product"
	mostUsedPaymentMethodKey = "report:most_used_payment_method"
)

// reportKeys are dropped by every sale write
var reportKeys = []string{mostSoldProductKey, mostUsedPaymentMethodKey}

// Reports answers the aggregate questions over recorded sales
type Reports struct {
	repo repository.Repository // Store
	rdb  *redis.Client         // Winner ID cache, may be nil
	ttl  time.Duration         // Cache lifetime
}

// NewReports creates the report service
func NewReports(repo repository.Repository, rdb *redis.Client, ttl time.Duration) *Reports {
	return &Reports{repo: repo, rdb: rdb, ttl: ttl}
}

// MostSoldProduct returns the product appearing on the most line items.
// It counts line items, not units sold. The bool is false when no sale exists.
func (r *Reports) MostSoldProduct(ctx context.Context) (*domain.Product, bool, error) {
	id, ok, err := r.winner(ctx, mostSoldProductKey, r.repo.MostSoldProductID)
	if err != nil || !ok {
		return nil, false, err
	}
	p, err := r.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// MostUsedPaymentMethod returns the payment method used by the most sales.
func (r *Reports) MostUsedPaymentMethod(ctx context.Context) (*domain.PaymentMethod, bool, error) {
	id, ok, err := r.winner(ctx, mostUsedPaymentMethodKey, r.repo.MostUsedPaymentMethodID)
	if err != nil || !ok {
		return nil, false, err
	}
	p, err := r.repo.GetPaymentMethod(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// winner reads the report's winning ID through the cache. Only found
// winners are cached; an empty data set is always recomputed.
func (r *Reports) winner(ctx context.Context, key string, compute func(context.Context) (uint, bool, error)) (uint, bool, error) {
	var id uint
	if found, err := utils.GetCache(ctx, r.rdb, key, &id); err == nil && found {
		return id, true, nil
	}
	id, ok, err := compute(ctx)
	if err != nil || !ok {
		return 0, false, err
	}
	if err := utils.SetCache(ctx, r.rdb, key, id, r.ttl); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Failed to cache report")
	}
	return id, true, nil
}
