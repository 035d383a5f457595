// Package repository is the persistence boundary. Every read and write of the
// relational store goes through Repository; services never touch *gorm.DB.
package repository

import (
	"context" // Request scoped cancellation
	"errors"  // Error inspection

	"inventory_sales/internal/domain" // Domain models and errors

	"gorm.io/gorm" // GORM ORM library
)

// Repository is the transactional store used by the services.
type Repository interface {
	// Transaction runs fn inside a database transaction. Any error returned by
	// fn, or a cancelled ctx, rolls back every write issued through tx.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	ListCategories(ctx context.Context, opts ListOptions) ([]domain.Category, int64, error)
	GetCategory(ctx context.Context, id uint) (*domain.Category, error)
	SaveCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id uint) error

	ListPaymentMethods(ctx context.Context, opts ListOptions) ([]domain.PaymentMethod, int64, error)
	GetPaymentMethod(ctx context.Context, id uint) (*domain.PaymentMethod, error)
	SavePaymentMethod(ctx context.Context, p *domain.PaymentMethod) error
	DeletePaymentMethod(ctx context.Context, id uint) error

	ListProducts(ctx context.Context, opts ListOptions) ([]domain.Product, int64, error)
	GetProduct(ctx context.Context, id uint) (*domain.Product, error)
	SaveProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	// LockProducts loads the given products with row locks held until the
	// surrounding transaction ends. Missing ids are absent from the map.
	LockProducts(ctx context.Context, ids []uint) (map[uint]*domain.Product, error)

	ListUsers(ctx context.Context, opts ListOptions) ([]domain.User, int64, error)
	GetUser(ctx context.Context, id uint) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error

	// ListSales returns the sales where participantID is the seller or the buyer.
	ListSales(ctx context.Context, participantID uint, opts ListOptions) ([]domain.Sale, int64, error)
	GetSale(ctx context.Context, id uint) (*domain.Sale, error)
	CreateSale(ctx context.Context, s *domain.Sale) error
	CreateSaleItem(ctx context.Context, item *domain.SaleItem) error
	SaveSale(ctx context.Context, s *domain.Sale) error
	DeleteSale(ctx context.Context, id uint) error

	MostSoldProductID(ctx context.Context) (uint, bool, error)
	MostUsedPaymentMethodID(ctx context.Context) (uint, bool, error)
}

// gormRepository implements Repository on GORM
type gormRepository struct {
	db *gorm.DB // Root connection or the current transaction
}

// New returns a Repository backed by db.
func New(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

// conn returns the connection bound to ctx
func (r *gormRepository) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// findError maps a lookup failure to a domain error
func findError(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound(entity, id)
	}
	return err
}

// saveError maps a uniqueness violation to a conflict on field
func saveError(err error, entity, field string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.Conflict(field, entity+" with this "+field+" already exists")
	}
	return err
}

// atomic runs fn in a transaction, handing it both the transactional
// repository and the raw transaction for multi-table statements
func (r *gormRepository) atomic(ctx context.Context, fn func(tx *gormRepository, g *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(func(g *gorm.DB) error {
		return fn(&gormRepository{db: g}, g)
	})
}
