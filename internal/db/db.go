package db

import (
	"fmt"  // Error wrapping
	"time" // Pool lifetimes

	"gorm.io/driver/mysql"    // MySQL driver for GORM
	"gorm.io/driver/postgres" // PostgreSQL driver for GORM
	"gorm.io/driver/sqlite"   // SQLite driver for GORM
	"gorm.io/gorm"            // GORM ORM library
)

// Open connects to the database for the given driver and configures the pool.
// TranslateError is enabled so duplicate keys surface as gorm.ErrDuplicatedKey.
func Open(driver, dsn string) (*gorm.DB, error) {
	dialector, err := dialectorFor(driver, dsn)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,        // Map driver errors to gorm errors
		Logger:         newLogger(), // Errors and slow queries through logrus
	})
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", driver, err)
	}
	sqlDB, err := db.DB() // Underlying pool
	if err != nil {
		return nil, fmt.Errorf("db: get sql.DB: %w", err)
	}
	if driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1) // SQLite allows a single writer
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("db: ping: %w", err)
	}
	return db, nil
}

// dialectorFor picks the GORM dialector matching driver
func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("db: unsupported driver %q (supported: mysql, postgres, sqlite)", driver)
	}
}
