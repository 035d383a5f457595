package service

import (
	"context" // Request scoped cancellation
	"errors"  // Error classification
	"fmt"     // Error messages

	"inventory_sales/internal/domain"     // Domain models and errors
	"inventory_sales/internal/metrics"    // Sale counters
	"inventory_sales/internal/policy"     // Authorization rules
	"inventory_sales/internal/repository" // Persistence boundary
	"inventory_sales/internal/utils"      // Cache helpers

	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Fixed-point money
	"github.com/sirupsen/logrus"    // Logging library
)

// SaleItemInput is one requested line of a new sale
type SaleItemInput struct {
	ProductID uint // Product to sell
	Quantity  int  // Units, at least 1
}

// CreateSaleInput carries everything a caller may supply for a new sale.
// Total and date are server computed and have no input field.
type CreateSaleInput struct {
	PaymentMethodID uint            // Payment method to charge interest from
	SellerID        uint            // Selling identity
	BuyerID         uint            // Buying identity
	Items           []SaleItemInput // Ordered line items
}

// UpdateSaleInput changes the header of an existing sale. Nil fields stay as they are.
type UpdateSaleInput struct {
	PaymentMethodID *uint // New payment method, total is recomputed
	BuyerID         *uint // New buyer
}

// Sales runs the sale aggregate workflows
type Sales struct {
	repo repository.Repository // Transactional store
	rdb  *redis.Client         // Report cache to invalidate, may be nil
}

// NewSales creates the sale service
func NewSales(repo repository.Repository, rdb *redis.Client) *Sales {
	return &Sales{repo: repo, rdb: rdb}
}

// validate checks the request shape before any store access
func (in CreateSaleInput) validate() error {
	if in.PaymentMethodID == 0 {
		return domain.Invalid("payment_method", "this field is required")
	}
	if in.SellerID == 0 {
		return domain.Invalid("seller", "this field is required")
	}
	if in.BuyerID == 0 {
		return domain.Invalid("buyer", "this field is required")
	}
	if len(in.Items) == 0 {
		return domain.Invalid("items", "a sale needs at least one line item")
	}
	for i, it := range in.Items {
		if it.ProductID == 0 {
			return domain.Invalid(fmt.Sprintf("items[%d].product", i), "this field is required")
		}
		if it.Quantity < 1 {
			return domain.Invalid(fmt.Sprintf("items[%d].quantity", i), "must be at least 1")
		}
	}
	return nil
}

// demand sums requested quantities per product, keeping first-seen order
func (in CreateSaleInput) demand() ([]uint, map[uint]int) {
	order := make([]uint, 0, len(in.Items))
	qty := make(map[uint]int, len(in.Items))
	for _, it := range in.Items {
		if _, seen := qty[it.ProductID]; !seen {
			order = append(order, it.ProductID)
		}
		qty[it.ProductID] += it.Quantity
	}
	return order, qty
}

// Create validates, persists and prices a new sale in one transaction.
//
// Checks run in order and the first failure wins: requester identity,
// request shape, referenced identities and payment method, product
// availability, then stock. Product rows stay locked from the stock check
// until commit, so a concurrent sale cannot decrement the same stock in
// between. Any failure rolls back every write of the call.
func (s *Sales) Create(ctx context.Context, requester *domain.User, in CreateSaleInput) (*domain.Sale, error) {
	sale, err := s.create(ctx, requester, in)
	if err != nil {
		metrics.SaleFailures.WithLabelValues(failureReason(err)).Inc()
		logrus.WithFields(logrus.Fields{
			"requester_id": requesterID(requester), // Who asked
			"seller_id":    in.SellerID,            // Designated seller
			"buyer_id":     in.BuyerID,             // Designated buyer
			"error":        err.Error(),            // Error message
		}).Warn("Sale rejected") // Log rejected sale
		return nil, err
	}
	metrics.SalesCreated.Inc()
	logrus.WithFields(logrus.Fields{
		"sale_id":        sale.ID,                   // New sale ID
		"seller_id":      sale.SellerID,             // Seller
		"buyer_id":       sale.BuyerID,              // Buyer
		"payment_method": sale.PaymentMethodID,      // Payment method
		"items":          len(sale.Items),           // Line item count
		"total":          sale.Total.StringFixed(2), // Computed total
	}).Info("Sale created") // Log sale success
	s.invalidateReports(ctx)
	return sale, nil
}

func (s *Sales) create(ctx context.Context, requester *domain.User, in CreateSaleInput) (*domain.Sale, error) {
	if err := policy.CreateSale(requester, in.SellerID, in.BuyerID); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	var sale *domain.Sale
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		pm, err := tx.GetPaymentMethod(ctx, in.PaymentMethodID)
		if err != nil {
			return err
		}
		seller, err := tx.GetUser(ctx, in.SellerID)
		if err != nil {
			return err
		}
		if !seller.IsSeller {
			return domain.Invalid("seller", "identity is not a seller")
		}
		if _, err := tx.GetUser(ctx, in.BuyerID); err != nil {
			return err
		}

		ids, requested := in.demand()
		products, err := tx.LockProducts(ctx, ids)
		if err != nil {
			return err
		}
		for _, id := range ids {
			p, ok := products[id]
			if !ok {
				return domain.Invalid("items", fmt.Sprintf("product %d does not exist", id))
			}
			if !p.Available {
				return domain.Invalid("items", fmt.Sprintf("product %s unavailable", p.Name))
			}
		}
		for _, id := range ids {
			p := products[id]
			if requested[id] > p.Quantity {
				return &domain.InsufficientStockError{ProductID: p.ID, ProductName: p.Name, Requested: requested[id], Available: p.Quantity}
			}
		}

		header := &domain.Sale{
			PaymentMethodID: pm.ID,          // Payment method
			SellerID:        in.SellerID,    // Seller
			BuyerID:         in.BuyerID,     // Buyer
			SaleDate:        domain.Today(), // Fixed at creation
			Total:           decimal.Zero,   // Placeholder until items are priced
		}
		if err := tx.CreateSale(ctx, header); err != nil {
			return err
		}
		subtotal := decimal.Zero
		for _, line := range in.Items {
			p := products[line.ProductID]
			item := domain.SaleItem{
				SaleID:    header.ID,     // Parent sale
				ProductID: p.ID,          // Product sold
				Quantity:  line.Quantity, // Units sold
				UnitPrice: p.SalePrice,   // Price snapshot
			}
			if err := tx.CreateSaleItem(ctx, &item); err != nil {
				return err
			}
			subtotal = subtotal.Add(item.Subtotal())
			p.Quantity -= line.Quantity
			if err := tx.SaveProduct(ctx, p); err != nil {
				return err
			}
			header.Items = append(header.Items, item)
		}
		header.Total = pm.ApplyInterest(subtotal) // Interest applied once, on the aggregate
		if err := tx.SaveSale(ctx, header); err != nil {
			return err
		}
		sale = header
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// Get returns a sale to one of its participants
func (s *Sales) Get(ctx context.Context, requester *domain.User, id uint) (*domain.Sale, error) {
	if err := policy.Authenticated(requester); err != nil {
		return nil, err
	}
	sale, err := s.repo.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.ViewSale(requester, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// List returns the sales where requester is the seller or the buyer.
// An anonymous requester gets an empty list, never an error.
func (s *Sales) List(ctx context.Context, requester *domain.User, opts repository.ListOptions) ([]domain.Sale, int64, error) {
	if requester == nil {
		return []domain.Sale{}, 0, nil
	}
	return s.repo.ListSales(ctx, requester.ID, opts)
}

// Update changes the buyer or payment method of a sale and reprices it from
// the unit prices recorded on its line items. Items, seller and date never change.
func (s *Sales) Update(ctx context.Context, requester *domain.User, id uint, in UpdateSaleInput) (*domain.Sale, error) {
	if err := policy.Authenticated(requester); err != nil {
		return nil, err
	}
	var sale *domain.Sale
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		current, err := tx.GetSale(ctx, id)
		if err != nil {
			return err
		}
		if err := policy.ModifySale(requester, current); err != nil {
			return err
		}
		if in.BuyerID != nil {
			if _, err := tx.GetUser(ctx, *in.BuyerID); err != nil {
				return err
			}
			current.BuyerID = *in.BuyerID
		}
		if in.PaymentMethodID != nil {
			current.PaymentMethodID = *in.PaymentMethodID
		}
		pm, err := tx.GetPaymentMethod(ctx, current.PaymentMethodID)
		if err != nil {
			return err
		}
		subtotal := decimal.Zero
		for _, it := range current.Items {
			subtotal = subtotal.Add(it.Subtotal())
		}
		current.Total = pm.ApplyInterest(subtotal)
		if err := tx.SaveSale(ctx, current); err != nil {
			return err
		}
		sale = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"sale_id":      sale.ID,                   // Sale ID
		"requester_id": requester.ID,              // Who changed it
		"total":        sale.Total.StringFixed(2), // Recomputed total
	}).Info("Sale updated") // Log sale update
	s.invalidateReports(ctx)
	return sale, nil
}

// Delete removes a sale and its line items. Stock is not restored.
func (s *Sales) Delete(ctx context.Context, requester *domain.User, id uint) error {
	if err := policy.Authenticated(requester); err != nil {
		return err
	}
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		current, err := tx.GetSale(ctx, id)
		if err != nil {
			return err
		}
		if err := policy.ModifySale(requester, current); err != nil {
			return err
		}
		return tx.DeleteSale(ctx, id)
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"sale_id":      id,           // Sale ID
		"requester_id": requester.ID, // Who deleted it
	}).Info("Sale deleted") // Log sale deletion
	s.invalidateReports(ctx)
	return nil
}

// invalidateReports drops the cached report winners after any sale write
func (s *Sales) invalidateReports(ctx context.Context) {
	if err := utils.DeleteCache(ctx, s.rdb, reportKeys...); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate report cache")
	}
}

// failureReason maps an error to a SaleFailures label
func failureReason(err error) string {
	var stock *domain.InsufficientStockError
	switch {
	case errors.As(err, &stock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUnauthenticated):
		return "forbidden"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// requesterID returns the requester's ID, 0 for anonymous
func requesterID(u *domain.User) uint {
	if u == nil {
		return 0
	}
	return u.ID
}
