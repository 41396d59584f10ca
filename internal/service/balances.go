package service

import (
	"context" // Request-scoped contexts

	"makerspace/internal/balance" // Balance reports
	"makerspace/internal/domain"  // Domain models and errors
	"makerspace/internal/events"  // Purchase events
	"makerspace/internal/store"   // Persistence

	"github.com/google/uuid"     // Identifiers
	"github.com/sirupsen/logrus" // Structured logging
)

// Balances returns every user's outstanding balance
func (s *Service) Balances(ctx context.Context, actorID uuid.UUID, order balance.SortOrder) (balance.Report, error) {
	if _, err := s.RequireAdmin(ctx, actorID); err != nil {
		return balance.Report{}, err
	}
	return s.unpaidReport(ctx, order)
}

func (s *Service) unpaidReport(ctx context.Context, order balance.SortOrder) (balance.Report, error) {
	rows, err := s.repo.ListUnpaidRows(ctx)
	if err != nil {
		return balance.Report{}, err
	}
	return balance.Aggregate(rows).Sorted(order), nil
}

// MarkPaid flips one unpaid purchase to paid and returns the updated balances.
//
// The admin role is re-checked first. The status check and the update happen
// under a row lock in one transaction, so two admins cannot both succeed. After
// the commit the order is removed from the pre-mutation report and the
// authoritative balances are refetched; when that refetch fails the locally
// adjusted report is returned instead.
func (s *Service) MarkPaid(ctx context.Context, actorID, orderID uuid.UUID, order balance.SortOrder) (balance.Report, error) {
	if _, err := s.RequireAdmin(ctx, actorID); err != nil {
		return balance.Report{}, err
	}
	before, err := s.unpaidReport(ctx, order) // Snapshot for the local adjustment
	if err != nil {
		return balance.Report{}, err
	}

	var paid domain.Purchase
	err = s.repo.Transact(ctx, func(tx store.Repository) error {
		// Reload the order under a row lock
		purchase, err := tx.LockPurchase(ctx, orderID)
		if err != nil {
			return err // Return error to rollback
		}
		// Reject orders another admin already settled
		if purchase.Status != domain.StatusUnpaid {
			return domain.ErrAlreadyPaid
		}
		if err := tx.SetPurchaseStatus(ctx, orderID, domain.StatusPaid); err != nil {
			return err // Return error to rollback
		}
		paid = purchase
		return nil
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"admin_id": actorID,
			"order_id": orderID,
			"error":    err.Error(),
		}).Error("Mark paid failed")
		return balance.Report{}, err
	}
	logrus.WithFields(logrus.Fields{
		"admin_id":    actorID,
		"order_id":    orderID,
		"user_id":     paid.UserID,
		"total_price": paid.TotalPrice.StringFixed(2),
		"type":        "mark_paid",
	}).Info("Order marked as paid")

	s.publish(ctx, events.Event{
		Type:         events.PurchasePaid,
		PurchaseID:   paid.ID,
		UserID:       paid.UserID,
		ConsumableID: paid.ConsumableID,
		Quantity:     paid.Quantity,
		TotalPrice:   paid.TotalPrice,
		ActorID:      actorID,
		At:           s.now(),
	})

	local, _ := before.Remove(orderID)       // Drop the order locally first
	fresh, err := s.unpaidReport(ctx, order) // Then refetch the authoritative view
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"order_id": orderID,
			"error":    err.Error(),
		}).Warn("Balance refetch failed, returning local view")
		return local, nil
	}
	return fresh, nil
}
