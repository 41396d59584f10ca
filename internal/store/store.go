// Package store is the gorm-backed persistence layer.
package store

import (
	"context" // Request-scoped contexts
	"errors"  // Error matching

	"makerspace/internal/balance" // Unpaid balance rows
	"makerspace/internal/domain"  // Domain models

	"github.com/google/uuid" // Identifiers
	"gorm.io/gorm"           // GORM ORM library
	"gorm.io/gorm/clause"    // Row locking
)

// Repository is every query the services issue. Transact hands fn a Repository
// bound to a single database transaction; returning an error rolls it back.
type Repository interface {
	Transact(ctx context.Context, fn func(tx Repository) error) error

	CreateAccount(ctx context.Context, user *domain.User, profile *domain.UserProfile) error
	FindUserByEmail(ctx context.Context, email string) (domain.User, error)

	GetProfile(ctx context.Context, id uuid.UUID) (domain.UserProfile, error)
	LockProfile(ctx context.Context, id uuid.UUID) (domain.UserProfile, error)
	ListProfiles(ctx context.Context) ([]domain.UserProfile, error)
	UpdateContactDetails(ctx context.Context, profile domain.UserProfile) error
	SaveRoles(ctx context.Context, id uuid.UUID, roles []string) error

	ListRoles(ctx context.Context) ([]domain.Role, error)
	RoleExists(ctx context.Context, role string) (bool, error)

	ListConsumables(ctx context.Context, category domain.Category) ([]domain.Consumable, error)
	GetConsumables(ctx context.Context, ids []uuid.UUID) ([]domain.Consumable, error)
	LockConsumables(ctx context.Context, ids []uuid.UUID) ([]domain.Consumable, error)
	SetStock(ctx context.Context, id uuid.UUID, quantity int) error
	LowStock(ctx context.Context) ([]domain.Consumable, error)

	CreatePurchases(ctx context.Context, purchases []domain.Purchase) error
	ListUnpaidRows(ctx context.Context) ([]balance.Row, error)
	ListUserPurchases(ctx context.Context, userID uuid.UUID, status domain.PurchaseStatus) ([]domain.Purchase, error)
	LockPurchase(ctx context.Context, id uuid.UUID) (domain.Purchase, error)
	SetPurchaseStatus(ctx context.Context, id uuid.UUID, status domain.PurchaseStatus) error

	CreateAdjustments(ctx context.Context, adjustments []domain.InventoryAdjustment) error
}

// GormStore implements Repository on a *gorm.DB
type GormStore struct {
	db *gorm.DB
}

// New wraps db
func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Transact runs fn inside db.Transaction
func (s *GormStore) Transact(ctx context.Context, fn func(tx Repository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx}) // Commit on nil, rollback otherwise
	})
}

// conn returns the handle bound to ctx
func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// forUpdate adds SELECT ... FOR UPDATE; only meaningful inside Transact
func (s *GormStore) forUpdate(ctx context.Context) *gorm.DB {
	return s.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

// notFound converts gorm's missing-row error to the domain error
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
