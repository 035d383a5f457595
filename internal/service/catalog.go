package service

import (
	"context" // Request scoped cancellation
	"strings" // Name checks

	"inventory_sales/internal/domain"     // Domain models and errors
	"inventory_sales/internal/policy"     // Authorization rules
	"inventory_sales/internal/repository" // Persistence boundary
	"inventory_sales/internal/utils"      // Cache helpers

	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Fixed-point money
	"github.com/sirupsen/logrus"    // Logging library
)

// CategoryInput is the writable part of a category
type CategoryInput struct {
	Name string
}

// PaymentMethodInput is the writable part of a payment method
type PaymentMethodInput struct {
	Name         string
	InterestRate decimal.Decimal
}

// ProductInput is the writable part of a product. Availability is derived
// from Quantity and has no input field.
type ProductInput struct {
	Name          string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	Quantity      int
	CategoryID    uint
}

// Catalog manages categories, payment methods and products.
// Reads are open to anyone; every write requires a seller.
type Catalog struct {
	repo repository.Repository // Store
	rdb  *redis.Client         // Report cache to invalidate, may be nil
}

// NewCatalog creates the catalog service
func NewCatalog(repo repository.Repository, rdb *redis.Client) *Catalog {
	return &Catalog{repo: repo, rdb: rdb}
}

func (in CategoryInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Invalid("name", "this field is required")
	}
	return nil
}

func (in PaymentMethodInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Invalid("name", "this field is required")
	}
	if in.InterestRate.IsNegative() {
		return domain.Invalid("interest_rate", "must not be negative")
	}
	return nil
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Invalid("name", "this field is required")
	}
	if !in.PurchasePrice.IsPositive() {
		return domain.Invalid("purchase_price", "must be greater than zero")
	}
	if !in.SalePrice.IsPositive() {
		return domain.Invalid("sale_price", "must be greater than zero")
	}
	if in.Quantity < 0 {
		return domain.Invalid("quantity", "must not be negative")
	}
	if in.CategoryID == 0 {
		return domain.Invalid("category", "this field is required")
	}
	return nil
}

// ListCategories lists categories
func (c *Catalog) ListCategories(ctx context.Context, opts repository.ListOptions) ([]domain.Category, int64, error) {
	return c.repo.ListCategories(ctx, opts)
}

// GetCategory returns one category
func (c *Catalog) GetCategory(ctx context.Context, id uint) (*domain.Category, error) {
	return c.repo.GetCategory(ctx, id)
}

// SaveCategory creates the category when id is 0, otherwise replaces it
func (c *Catalog) SaveCategory(ctx context.Context, requester *domain.User, id uint, in CategoryInput) (*domain.Category, error) {
	if err := policy.Seller(requester); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	cat := &domain.Category{ID: id, Name: in.Name}
	if id != 0 {
		if _, err := c.repo.GetCategory(ctx, id); err != nil {
			return nil, err
		}
	}
	if err := c.repo.SaveCategory(ctx, cat); err != nil {
		return nil, err
	}
	logWrite("category", cat.ID, requester, id == 0)
	return cat, nil
}

// DeleteCategory deletes a category together with its products and their sale items
func (c *Catalog) DeleteCategory(ctx context.Context, requester *domain.User, id uint) error {
	if err := policy.Seller(requester); err != nil {
		return err
	}
	if err := c.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	logDelete("category", id, requester)
	c.invalidateReports(ctx)
	return nil
}

// ListPaymentMethods lists payment methods
func (c *Catalog) ListPaymentMethods(ctx context.Context, opts repository.ListOptions) ([]domain.PaymentMethod, int64, error) {
	return c.repo.ListPaymentMethods(ctx, opts)
}

// GetPaymentMethod returns one payment method
func (c *Catalog) GetPaymentMethod(ctx context.Context, id uint) (*domain.PaymentMethod, error) {
	return c.repo.GetPaymentMethod(ctx, id)
}

// SavePaymentMethod creates the payment method when id is 0, otherwise replaces it
func (c *Catalog) SavePaymentMethod(ctx context.Context, requester *domain.User, id uint, in PaymentMethodInput) (*domain.PaymentMethod, error) {
	if err := policy.Seller(requester); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	pm := &domain.PaymentMethod{ID: id, Name: strings.TrimSpace(in.Name), InterestRate: in.InterestRate}
	if id != 0 {
		if _, err := c.repo.GetPaymentMethod(ctx, id); err != nil {
			return nil, err
		}
	}
	if err := c.repo.SavePaymentMethod(ctx, pm); err != nil {
		return nil, err
	}
	logWrite("payment_method", pm.ID, requester, id == 0)
	return pm, nil
}

// DeletePaymentMethod deletes a payment method and the sales charged through it
func (c *Catalog) DeletePaymentMethod(ctx context.Context, requester *domain.User, id uint) error {
	if err := policy.Seller(requester); err != nil {
		return err
	}
	if err := c.repo.DeletePaymentMethod(ctx, id); err != nil {
		return err
	}
	logDelete("payment_method", id, requester)
	c.invalidateReports(ctx)
	return nil
}

// ListProducts lists products
func (c *Catalog) ListProducts(ctx context.Context, opts repository.ListOptions) ([]domain.Product, int64, error) {
	return c.repo.ListProducts(ctx, opts)
}

// GetProduct returns one product
func (c *Catalog) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	return c.repo.GetProduct(ctx, id)
}

// SaveProduct creates the product when id is 0, otherwise replaces it
func (c *Catalog) SaveProduct(ctx context.Context, requester *domain.User, id uint, in ProductInput) (*domain.Product, error) {
	if err := policy.Seller(requester); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := c.repo.GetCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	p := &domain.Product{
		ID:            id,               // Zero creates
		Name:          in.Name,          // Upper-cased on save
		PurchasePrice: in.PurchasePrice, // Cost price
		SalePrice:     in.SalePrice,     // Unit price
		Quantity:      in.Quantity,      // Stock, drives Available
		CategoryID:    in.CategoryID,    // Category
	}
	if id != 0 {
		if _, err := c.repo.GetProduct(ctx, id); err != nil {
			return nil, err
		}
	}
	if err := c.repo.SaveProduct(ctx, p); err != nil {
		return nil, err
	}
	logWrite("product", p.ID, requester, id == 0)
	return p, nil
}

// DeleteProduct deletes a product and the sale items that reference it
func (c *Catalog) DeleteProduct(ctx context.Context, requester *domain.User, id uint) error {
	if err := policy.Seller(requester); err != nil {
		return err
	}
	if err := c.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	logDelete("product", id, requester)
	c.invalidateReports(ctx)
	return nil
}

// invalidateReports drops the cached report winners; catalog deletes cascade into sales
func (c *Catalog) invalidateReports(ctx context.Context) {
	if err := utils.DeleteCache(ctx, c.rdb, reportKeys...); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate report cache")
	}
}

// logWrite records a catalog create or update
func logWrite(entity string, id uint, requester *domain.User, created bool) {
	action := "updated"
	if created {
		action = "created"
	}
	logrus.WithFields(logrus.Fields{
		"entity":       entity,       // Entity type
		"id":           id,           // Entity ID
		"requester_id": requester.ID, // Seller who wrote it
		"action":       action,       // created or updated
	}).Info("Catalog write") // Log catalog change
}

// logDelete records a catalog delete
func logDelete(entity string, id uint, requester *domain.User) {
	logrus.WithFields(logrus.Fields{
		"entity":       entity,       // Entity type
		"id":           id,           // Entity ID
		"requester_id": requester.ID, // Seller who deleted it
	}).Info("Catalog delete") // Log catalog removal
}
