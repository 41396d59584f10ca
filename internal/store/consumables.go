package store

import (
	"context" // Request-scoped contexts

	"makerspace/internal/domain" // Domain models and errors

	"github.com/google/uuid" // Identifiers
)

// ListConsumables returns the catalog, optionally restricted to one category
func (s *GormStore) ListConsumables(ctx context.Context, category domain.Category) ([]domain.Consumable, error) {
	query := s.conn(ctx).Model(&domain.Consumable{}) // Start building the query
	if category != "" {
		query = query.Where("category = ?", category) // Filter by category
	}
	var items []domain.Consumable
	err := query.Order("category asc").Order("name asc").Find(&items).Error
	return items, err
}

// GetConsumables loads the consumables with the given ids; missing ids are skipped
func (s *GormStore) GetConsumables(ctx context.Context, ids []uuid.UUID) ([]domain.Consumable, error) {
	var items []domain.Consumable
	if len(ids) == 0 {
		return items, nil // Nothing to load
	}
	err := s.conn(ctx).Where("id IN ?", ids).Order("id asc").Find(&items).Error
	return items, err
}

// LockConsumables is GetConsumables holding row locks, taken in id order
func (s *GormStore) LockConsumables(ctx context.Context, ids []uuid.UUID) ([]domain.Consumable, error) {
	var items []domain.Consumable
	if len(ids) == 0 {
		return items, nil
	}
	err := s.forUpdate(ctx).Where("id IN ?", ids).Order("id asc").Find(&items).Error // Locks taken in id order
	return items, err
}

// SetStock writes an absolute stock quantity
func (s *GormStore) SetStock(ctx context.Context, id uuid.UUID, quantity int) error {
	return s.conn(ctx).Model(&domain.Consumable{}).Where("id = ?", id).Update("stock_quantity", quantity).Error
}

// LowStock returns consumables at or below their reorder threshold
func (s *GormStore) LowStock(ctx context.Context) ([]domain.Consumable, error) {
	var items []domain.Consumable
	err := s.conn(ctx).Where("stock_quantity <= reorder_threshold").
		Order("stock_quantity asc").Order("name asc").
		Find(&items).Error
	return items, err
}

// CreateAdjustments inserts inventory audit rows
func (s *GormStore) CreateAdjustments(ctx context.Context, adjustments []domain.InventoryAdjustment) error {
	if len(adjustments) == 0 {
		return nil
	}
	return s.conn(ctx).Create(&adjustments).Error // Batch insert
}
