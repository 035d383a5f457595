package domain

// User Model
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`                     // Primary key
	Username string `gorm:"size:150;unique;not null" json:"username"` // Unique username, stored lower-case
	Password string `gorm:"not null" json:"-"`                        // Hashed password
	IsClient bool   `gorm:"not null;default:false" json:"is_client"`  // Sees only its own sales, read-only elsewhere
	IsSeller bool   `gorm:"not null;default:false" json:"is_seller"`  // Manages the catalog and records sales
}
