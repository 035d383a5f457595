package db

import (
	"inventory_sales/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Models lists every table in dependency order
var Models = []any{
	&domain.User{},
	&domain.Category{},
	&domain.PaymentMethod{},
	&domain.Product{},
	&domain.Sale{},
	&domain.SaleItem{},
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(Models...); err != nil {
		logrus.WithError(err).Error("Migration failed") // Log migration failure
		return err
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
