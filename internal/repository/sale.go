package repository

import (
	"context" // Request scoped cancellation

	"inventory_sales/internal/domain" // Domain models and errors

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Association handling
)

// orderedItems preloads line items in insertion order
func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func (r *gormRepository) ListSales(ctx context.Context, participantID uint, opts ListOptions) ([]domain.Sale, int64, error) {
	q := r.conn(ctx).Where("(seller_id = ? OR buyer_id = ?)", participantID, participantID)
	sales, total, err := list[domain.Sale](q, opts)
	if err != nil || len(sales) == 0 {
		return sales, total, err
	}
	ids := make([]uint, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
	}
	var items []domain.SaleItem
	if err := r.conn(ctx).Where("sale_id IN ?", ids).Order("id").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	bySale := make(map[uint][]domain.SaleItem, len(sales))
	for _, it := range items {
		bySale[it.SaleID] = append(bySale[it.SaleID], it)
	}
	for i := range sales {
		sales[i].Items = bySale[sales[i].ID]
	}
	return sales, total, nil
}

func (r *gormRepository) GetSale(ctx context.Context, id uint) (*domain.Sale, error) {
	var s domain.Sale
	if err := r.conn(ctx).Preload("Items", orderedItems).First(&s, id).Error; err != nil {
		return nil, findError(err, "sale", id)
	}
	return &s, nil
}

// CreateSale inserts the header only; line items are written one by one.
func (r *gormRepository) CreateSale(ctx context.Context, s *domain.Sale) error {
	return r.conn(ctx).Omit(clause.Associations).Create(s).Error
}

func (r *gormRepository) CreateSaleItem(ctx context.Context, item *domain.SaleItem) error {
	return r.conn(ctx).Create(item).Error
}

// SaveSale updates the header columns; line items are never rewritten.
func (r *gormRepository) SaveSale(ctx context.Context, s *domain.Sale) error {
	return r.conn(ctx).Omit(clause.Associations).Save(s).Error
}

// DeleteSale removes the line items and then the header in one transaction.
func (r *gormRepository) DeleteSale(ctx context.Context, id uint) error {
	return r.atomic(ctx, func(tx *gormRepository, g *gorm.DB) error {
		if err := g.Where("sale_id = ?", id).Delete(&domain.SaleItem{}).Error; err != nil {
			return err
		}
		res := g.Delete(&domain.Sale{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.NotFound("sale", id)
		}
		return nil
	})
}
