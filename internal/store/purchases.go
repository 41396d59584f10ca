package store

import (
	"context" // Request-scoped contexts

	"makerspace/internal/balance" // Balance reports
	"makerspace/internal/domain"  // Domain models and errors

	"github.com/google/uuid" // Identifiers
)

// CreatePurchases inserts purchase rows; ids are filled in place
func (s *GormStore) CreatePurchases(ctx context.Context, purchases []domain.Purchase) error {
	if len(purchases) == 0 {
		return nil
	}
	return s.conn(ctx).Omit("Consumable", "Profile").Create(&purchases).Error // Never upsert associations
}

// ListUnpaidRows returns every unpaid purchase joined with its profile and consumable, newest first
func (s *GormStore) ListUnpaidRows(ctx context.Context) ([]balance.Row, error) {
	var purchases []domain.Purchase
	err := s.conn(ctx).
		Preload("Consumable").                    // Item name and unit
		Preload("Profile").                       // Member name
		Where("status = ?", domain.StatusUnpaid). // Unpaid only
		Order("purchase_date desc").              // Newest first
		Find(&purchases).Error
	if err != nil {
		return nil, err
	}
	rows := make([]balance.Row, 0, len(purchases))
	for _, p := range purchases {
		rows = append(rows, toRow(p))
	}
	return rows, nil
}

// toRow flattens a purchase and its associations
func toRow(p domain.Purchase) balance.Row {
	row := balance.Row{
		PurchaseID:   p.ID,
		UserID:       p.UserID,
		Quantity:     p.Quantity,
		TotalPrice:   p.TotalPrice,
		PurchaseDate: p.PurchaseDate,
	}
	if p.Profile != nil {
		row.FullName = p.Profile.FullName
	}
	if p.Consumable != nil {
		row.ConsumableName = p.Consumable.Name
		row.Unit = p.Consumable.Unit
	}
	return row
}

// ListUserPurchases returns one user's purchases, newest first; empty status means any
func (s *GormStore) ListUserPurchases(ctx context.Context, userID uuid.UUID, status domain.PurchaseStatus) ([]domain.Purchase, error) {
	query := s.conn(ctx).Preload("Consumable").Where("user_id = ?", userID) // Start building the query
	if status != "" {
		query = query.Where("status = ?", status) // Filter by status
	}
	var purchases []domain.Purchase
	err := query.Order("purchase_date desc").Find(&purchases).Error
	return purchases, err
}

// LockPurchase loads one purchase holding its row lock
func (s *GormStore) LockPurchase(ctx context.Context, id uuid.UUID) (domain.Purchase, error) {
	var purchase domain.Purchase
	err := s.forUpdate(ctx).Where("id = ?", id).First(&purchase).Error
	return purchase, notFound(err)
}

// SetPurchaseStatus updates the status of one purchase
func (s *GormStore) SetPurchaseStatus(ctx context.Context, id uuid.UUID, status domain.PurchaseStatus) error {
	res := s.conn(ctx).Model(&domain.Purchase{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound // No such purchase
	}
	return nil
}
