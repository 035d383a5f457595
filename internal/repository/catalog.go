package repository

import (
	"context" // Request scoped cancellation

	"inventory_sales/internal/domain" // Domain models and errors

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Row locking
)

func (r *gormRepository) ListCategories(ctx context.Context, opts ListOptions) ([]domain.Category, int64, error) {
	return list[domain.Category](r.conn(ctx), opts)
}

func (r *gormRepository) GetCategory(ctx context.Context, id uint) (*domain.Category, error) {
	var c domain.Category
	if err := r.conn(ctx).First(&c, id).Error; err != nil {
		return nil, findError(err, "category", id)
	}
	return &c, nil
}

func (r *gormRepository) SaveCategory(ctx context.Context, c *domain.Category) error {
	return saveError(r.conn(ctx).Save(c).Error, "category", "name")
}

// DeleteCategory removes the category, every product filed under it and
// every sale line item referencing those products, in one transaction.
func (r *gormRepository) DeleteCategory(ctx context.Context, id uint) error {
	return r.atomic(ctx, func(tx *gormRepository, g *gorm.DB) error {
		if _, err := tx.GetCategory(ctx, id); err != nil {
			return err
		}
		products := g.Model(&domain.Product{}).Select("id").Where("category_id = ?", id)
		if err := g.Where("product_id IN (?)", products).Delete(&domain.SaleItem{}).Error; err != nil {
			return err
		}
		if err := g.Where("category_id = ?", id).Delete(&domain.Product{}).Error; err != nil {
			return err
		}
		return g.Delete(&domain.Category{}, id).Error
	})
}

func (r *gormRepository) ListPaymentMethods(ctx context.Context, opts ListOptions) ([]domain.PaymentMethod, int64, error) {
	return list[domain.PaymentMethod](r.conn(ctx), opts)
}

func (r *gormRepository) GetPaymentMethod(ctx context.Context, id uint) (*domain.PaymentMethod, error) {
	var p domain.PaymentMethod
	if err := r.conn(ctx).First(&p, id).Error; err != nil {
		return nil, findError(err, "payment method", id)
	}
	return &p, nil
}

func (r *gormRepository) SavePaymentMethod(ctx context.Context, p *domain.PaymentMethod) error {
	return saveError(r.conn(ctx).Save(p).Error, "payment method", "name")
}

// DeletePaymentMethod removes the payment method together with the sales
// charged through it and their line items.
func (r *gormRepository) DeletePaymentMethod(ctx context.Context, id uint) error {
	return r.atomic(ctx, func(tx *gormRepository, g *gorm.DB) error {
		if _, err := tx.GetPaymentMethod(ctx, id); err != nil {
			return err
		}
		sales := g.Model(&domain.Sale{}).Select("id").Where("payment_method_id = ?", id)
		if err := g.Where("sale_id IN (?)", sales).Delete(&domain.SaleItem{}).Error; err != nil {
			return err
		}
		if err := g.Where("payment_method_id = ?", id).Delete(&domain.Sale{}).Error; err != nil {
			return err
		}
		return g.Delete(&domain.PaymentMethod{}, id).Error
	})
}

func (r *gormRepository) ListProducts(ctx context.Context, opts ListOptions) ([]domain.Product, int64, error) {
	return list[domain.Product](r.conn(ctx), opts)
}

func (r *gormRepository) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	var p domain.Product
	if err := r.conn(ctx).First(&p, id).Error; err != nil {
		return nil, findError(err, "product", id)
	}
	return &p, nil
}

// SaveProduct persists every column; the BeforeSave hook recomputes availability.
func (r *gormRepository) SaveProduct(ctx context.Context, p *domain.Product) error {
	return r.conn(ctx).Save(p).Error
}

// DeleteProduct removes the product and the sale line items referencing it.
// Sale headers and their recorded totals are left as they are.
func (r *gormRepository) DeleteProduct(ctx context.Context, id uint) error {
	return r.atomic(ctx, func(tx *gormRepository, g *gorm.DB) error {
		if _, err := tx.GetProduct(ctx, id); err != nil {
			return err
		}
		if err := g.Where("product_id = ?", id).Delete(&domain.SaleItem{}).Error; err != nil {
			return err
		}
		return g.Delete(&domain.Product{}, id).Error
	})
}

// LockProducts issues SELECT ... FOR UPDATE in ascending id order so two
// sales touching the same products always lock them in the same sequence.
// SQLite has no row locks; its single writer serializes the transactions.
func (r *gormRepository) LockProducts(ctx context.Context, ids []uint) (map[uint]*domain.Product, error) {
	var products []domain.Product
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id IN ?", ids).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]*domain.Product, len(products))
	for i := range products {
		out[products[i].ID] = &products[i]
	}
	return out, nil
}
