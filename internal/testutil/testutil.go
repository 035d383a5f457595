// Package testutil builds throwaway SQLite databases and fixtures for tests.
package testutil

import (
	"io"            // Silence logs
	"path/filepath" // Temp file path
	"testing"       // Test helpers

	"inventory_sales/internal/db"     // Connection and migration
	"inventory_sales/internal/domain" // Domain models

	"github.com/shopspring/decimal" // Fixed-point money
	"github.com/sirupsen/logrus"    // Logging library
	"github.com/stretchr/testify/require"
	"gorm.io/gorm" // GORM ORM library
)

// NewDB opens a migrated SQLite database in a per-test temp file. The pool
// holds a single connection, so transactions run one at a time.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	logrus.SetOutput(io.Discard)
	conn, err := db.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

// User inserts an identity with a placeholder password hash
func User(t testing.TB, conn *gorm.DB, username string, isSeller, isClient bool) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, Password: "x", IsSeller: isSeller, IsClient: isClient}
	require.NoError(t, conn.Create(u).Error)
	return u
}

// Category inserts a category
func Category(t testing.TB, conn *gorm.DB, name string) *domain.Category {
	t.Helper()
	c := &domain.Category{Name: name}
	require.NoError(t, conn.Create(c).Error)
	return c
}

// PaymentMethod inserts a payment method with the given interest percentage
func PaymentMethod(t testing.TB, conn *gorm.DB, name, rate string) *domain.PaymentMethod {
	t.Helper()
	pm := &domain.PaymentMethod{Name: name, InterestRate: decimal.RequireFromString(rate)}
	require.NoError(t, conn.Create(pm).Error)
	return pm
}

// Product inserts a product priced at price with qty units in stock
func Product(t testing.TB, conn *gorm.DB, name, price string, qty int, categoryID uint) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Name:          name,
		PurchasePrice: decimal.RequireFromString(price).Div(decimal.NewFromInt(2)).Round(2),
		SalePrice:     decimal.RequireFromString(price),
		Quantity:      qty,
		CategoryID:    categoryID,
	}
	require.NoError(t, conn.Create(p).Error)
	return p
}

// Reload reads a product back from the database
func Reload(t testing.TB, conn *gorm.DB, id uint) *domain.Product {
	t.Helper()
	var p domain.Product
	require.NoError(t, conn.First(&p, id).Error)
	return &p
}
