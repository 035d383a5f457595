package domain

import (
	"strings" // Name normalization

	"github.com/shopspring/decimal" // Fixed-point money
	"gorm.io/gorm"                  // GORM hooks
)

// Product Model
type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`                              // Primary key
	Name          string          `gorm:"size:255;not null" json:"name"`                     // Name, stored upper-case
	PurchasePrice decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"purchase_price"` // Cost price
	SalePrice     decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"sale_price"`     // Unit price charged on sales
	Quantity      int             `gorm:"not null" json:"quantity"`                          // Units in stock
	Available     bool            `gorm:"not null" json:"available"`                         // Derived: Quantity > 0
	CategoryID    uint            `gorm:"not null;index" json:"category"`                    // Foreign key to Category
}

// Normalize upper-cases the name and recomputes availability from stock.
// It is the only place Available is ever assigned.
func (p *Product) Normalize() {
	p.Name = strings.ToUpper(strings.TrimSpace(p.Name))
	p.Available = p.Quantity > 0
}

// BeforeSave runs on every create and save, so a caller-supplied Available never survives.
func (p *Product) BeforeSave(*gorm.DB) error {
	p.Normalize()
	return nil
}
