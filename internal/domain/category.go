package domain

import (
	"strings" // Name normalization

	"gorm.io/gorm" // GORM hooks
)

// Category Model
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`                     // Primary key
	Name string `gorm:"size:255;uniqueIndex;not null" json:"name"` // Unique name, stored upper-case
}

// Normalize upper-cases the name.
func (c *Category) Normalize() {
	c.Name = strings.ToUpper(strings.TrimSpace(c.Name))
}

// BeforeSave runs on every create and save.
func (c *Category) BeforeSave(*gorm.DB) error {
	c.Normalize()
	return nil
}
