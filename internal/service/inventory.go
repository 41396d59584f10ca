package service

import (
	"context" // Request-scoped contexts
	"strings" // String manipulation

	"makerspace/internal/domain" // Domain models and errors
	"makerspace/internal/store"  // Persistence

	"github.com/google/uuid"     // Identifiers
	"github.com/sirupsen/logrus" // Structured logging
)

// Restock applies a signed stock delta to one consumable and records the adjustment.
// Stock may not drop below zero.
func (s *Service) Restock(ctx context.Context, actorID, consumableID uuid.UUID, delta int, reason string) (domain.Consumable, error) {
	if _, err := s.RequireAdmin(ctx, actorID); err != nil {
		return domain.Consumable{}, err
	}
	if delta == 0 {
		return domain.Consumable{}, domain.ErrInvalidQuantity
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = domain.ReasonRestock
	}

	var updated domain.Consumable
	err := s.repo.Transact(ctx, func(tx store.Repository) error {
		// Lock the consumable before reading its stock
		items, err := tx.LockConsumables(ctx, []uuid.UUID{consumableID})
		if err != nil {
			return err // Return error to rollback
		}
		if len(items) == 0 {
			return domain.ErrNotFound
		}
		item := items[0]
		if item.StockQuantity+delta < 0 {
			return domain.ErrInvalidQuantity
		}
		item.StockQuantity += delta
		if err := tx.SetStock(ctx, item.ID, item.StockQuantity); err != nil {
			return err // Return error to rollback
		}
		updated = item
		return tx.CreateAdjustments(ctx, []domain.InventoryAdjustment{{
			ConsumableID:   item.ID,
			QuantityChange: delta,
			Reason:         reason,
			AdjustedBy:     actorID,
		}})
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"admin_id":      actorID,
			"consumable_id": consumableID,
			"delta":         delta,
			"error":         err.Error(),
		}).Error("Stock adjustment failed")
		return domain.Consumable{}, err
	}
	logrus.WithFields(logrus.Fields{
		"admin_id":      actorID,
		"consumable_id": consumableID,
		"delta":         delta,
		"stock":         updated.StockQuantity,
		"reason":        reason,
	}).Info("Stock adjusted")
	return updated, nil
}

// LowStock lists consumables at or below their reorder threshold
func (s *Service) LowStock(ctx context.Context, actorID uuid.UUID) ([]domain.Consumable, error) {
	if _, err := s.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.repo.LowStock(ctx)
}
