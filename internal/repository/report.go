package repository

import (
	"context" // Request scoped cancellation

	"inventory_sales/internal/domain" // Domain models
)

// usage is one row of a group-by-count aggregate
type usage struct {
	RefID   uint  // Grouped foreign key
	Uses    int64 // Rows in the group
	FirstID uint  // Lowest row id in the group, breaks ties
}

// MostSoldProductID counts line items per product, not summed quantities.
// Ties go to the product whose first line item was recorded earliest.
func (r *gormRepository) MostSoldProductID(ctx context.Context) (uint, bool, error) {
	var row usage
	res := r.conn(ctx).Model(&domain.SaleItem{}).
		Select("product_id AS ref_id, COUNT(*) AS uses, MIN(id) AS first_id").
		Group("product_id").
		Order("uses DESC, first_id ASC").
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return 0, false, res.Error
	}
	return row.RefID, res.RowsAffected > 0, nil
}

// MostUsedPaymentMethodID counts sales per payment method with the same tie rule.
func (r *gormRepository) MostUsedPaymentMethodID(ctx context.Context) (uint, bool, error) {
	var row usage
	res := r.conn(ctx).Model(&domain.Sale{}).
		Select("payment_method_id AS ref_id, COUNT(*) AS uses, MIN(id) AS first_id").
		Group("payment_method_id").
		Order("uses DESC, first_id ASC").
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return 0, false, res.Error
	}
	return row.RefID, res.RowsAffected > 0, nil
}
