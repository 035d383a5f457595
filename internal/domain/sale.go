package domain

import (
	"time" // Sale date

	"github.com/shopspring/decimal" // Fixed-point money
)

// Sale Model: the header of a sale aggregate
type Sale struct {
	ID              uint            `gorm:"primaryKey"`                            // Primary key
	PaymentMethodID uint            `gorm:"not null;index"`                        // Foreign key to PaymentMethod
	SellerID        uint            `gorm:"not null;index"`                        // Foreign key to the selling User
	BuyerID         uint            `gorm:"not null;index"`                        // Foreign key to the buying User
	SaleDate        time.Time       `gorm:"type:date;not null;index"`              // Set once at creation
	Total           decimal.Decimal `gorm:"type:decimal(50,2);not null;default:0"` // Server computed total
	Items           []SaleItem      `gorm:"foreignKey:SaleID"`                     // Line items, ordered by ID
}

// SaleItem Model: one product and quantity inside a sale
type SaleItem struct {
	ID        uint            `gorm:"primaryKey"`                  // Primary key
	SaleID    uint            `gorm:"not null;index"`              // Foreign key to Sale
	ProductID uint            `gorm:"not null;index"`              // Foreign key to Product
	Quantity  int             `gorm:"not null"`                    // Units sold, at least 1
	UnitPrice decimal.Decimal `gorm:"type:decimal(20,2);not null"` // Product sale price when sold
}

// Subtotal returns UnitPrice * Quantity.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// HasParticipant reports whether userID is the sale's seller or buyer.
func (s Sale) HasParticipant(userID uint) bool {
	return s.SellerID == userID || s.BuyerID == userID
}

// Today returns the current date at midnight UTC, the value stored in SaleDate.
func Today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
