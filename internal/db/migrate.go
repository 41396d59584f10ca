package db

import (
	"fmt" // Error wrapping

	"makerspace/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// Models lists every table in creation order
func Models() []any {
	return []any{
		&domain.User{},
		&domain.UserProfile{},
		&domain.Role{},
		&domain.Consumable{},
		&domain.Purchase{},
		&domain.InventoryAdjustment{},
	}
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
