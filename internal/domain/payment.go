package domain

import "github.com/shopspring/decimal" // Fixed-point money

// PaymentMethod Model
type PaymentMethod struct {
	ID           uint            `gorm:"primaryKey" json:"id"`                             // Primary key
	Name         string          `gorm:"size:255;uniqueIndex;not null" json:"name"`        // Unique name
	InterestRate decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"interest_rate"` // Percentage added to a sale subtotal, never negative
}

// ApplyInterest returns subtotal increased by the interest percentage, rounded to cents.
func (p PaymentMethod) ApplyInterest(subtotal decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(p.InterestRate.Div(decimal.NewFromInt(100)))
	return subtotal.Mul(factor).Round(2)
}
