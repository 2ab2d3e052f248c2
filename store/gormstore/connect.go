// Package gormstore persists entity records in MySQL through GORM.
package gormstore

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"maxloyalty.com/backoffice/config"
	"maxloyalty.com/backoffice/console"
)

// gormLogLevel maps the configured level name to GORM's logger.
func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn", "warning":
		return logger.Warn
	case "info", "debug":
		return logger.Info
	}
	return logger.Error
}

// Connect opens the pool for dsn.
func Connect(dsn string, cfg config.Database) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	maxConnections := cfg.MaxConnections
	if maxConnections < 1 {
		maxConnections = 10
	}
	sqlDB.SetMaxOpenConns(maxConnections)
	sqlDB.SetMaxIdleConns(maxConnections)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// Migrate creates or updates every table the backend serves.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&console.Client{},
		&console.Company{},
		&console.Card{},
		&console.Driver{},
		&console.Vehicle{},
		&console.CostCenter{},
		&console.Member{},
		&console.Shift{},
		&console.Point{},
		&console.Permission{},
		&console.Wallet{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := db.Table(TransactionsTable).AutoMigrate(&transactionRow{}); err != nil {
		return fmt.Errorf("migrate %s: %w", TransactionsTable, err)
	}
	return nil
}
