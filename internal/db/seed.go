package db

import (
	"context" // Request contexts
	"fmt"     // Error wrapping
	"strings" // Email normalisation

	"makerspace/internal/domain" // Domain models
	"makerspace/internal/store"  // Repository

	"github.com/shopspring/decimal" // Money
	"github.com/sirupsen/logrus"    // Structured logging
	"gorm.io/gorm"                  // GORM ORM library
	"gorm.io/gorm/clause"           // Upserts
)

// DefaultRoles are seeded into the roles reference table
var DefaultRoles = []domain.Role{
	{Role: domain.RoleAdmin, Description: "Manages members, inventory and payments", HierarchyLevel: 1},
	{Role: "staff", Description: "Runs the space day to day", HierarchyLevel: 2},
	{Role: domain.RoleMember, Description: "Regular member", HierarchyLevel: 3},
}

// SampleConsumables stock a fresh install
var SampleConsumables = []domain.Consumable{
	{Name: "PLA filament 1.75mm", Unit: "meter", Price: decimal.RequireFromString("0.05"), Category: domain.CategoryFilament, StockQuantity: 2000, ReorderThreshold: 250},
	{Name: "Standard resin", Unit: "ml", Price: decimal.RequireFromString("0.12"), Category: domain.CategoryResin, StockQuantity: 3000, ReorderThreshold: 500},
	{Name: "Birch plywood 3mm", Unit: "sheet", Price: decimal.RequireFromString("4.50"), Category: domain.CategoryWood, StockQuantity: 40, ReorderThreshold: 10},
	{Name: "M3 screws", Unit: "piece", Price: decimal.RequireFromString("0.10"), Category: domain.CategoryFasteners, StockQuantity: 500, ReorderThreshold: 100},
	{Name: "Wood glue", Unit: "bottle", Price: decimal.RequireFromString("6.00"), Category: domain.CategoryAdhesives, StockQuantity: 8, ReorderThreshold: 3},
}

// Seed inserts the default roles and, on an empty catalog, the sample consumables.
// Running it twice changes nothing.
func Seed(db *gorm.DB) error {
	roles := make([]domain.Role, len(DefaultRoles))
	copy(roles, DefaultRoles)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles).Error; err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	var count int64
	if err := db.Model(&domain.Consumable{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count consumables: %w", err)
	}
	if count == 0 {
		items := make([]domain.Consumable, len(SampleConsumables))
		copy(items, SampleConsumables)
		if err := db.Create(&items).Error; err != nil {
			return fmt.Errorf("seed consumables: %w", err)
		}
	}
	logrus.WithFields(logrus.Fields{
		"roles":                len(roles),
		"existing_consumables": count,
	}).Info("Seed completed.")
	return nil
}

// GrantAdmin adds the admin role to the account registered under email
func GrantAdmin(ctx context.Context, repo store.Repository, email string) (domain.UserProfile, error) {
	user, err := repo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("find %s: %w", email, err)
	}
	var profile domain.UserProfile
	err = repo.Transact(ctx, func(tx store.Repository) error {
		p, err := tx.LockProfile(ctx, user.ID)
		if err != nil {
			return err
		}
		p.Roles = p.WithRole(domain.RoleAdmin, true)
		if err := tx.SaveRoles(ctx, p.ID, p.Roles); err != nil {
			return err
		}
		profile = p
		return nil
	})
	if err != nil {
		return domain.UserProfile{}, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id": profile.ID,
		"roles":   profile.Roles,
	}).Info("Admin role granted")
	return profile, nil
}
