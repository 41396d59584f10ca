package service

import (
	"context" // Request-scoped contexts

	"makerspace/internal/domain" // Domain models and errors
	"makerspace/internal/events" // Purchase events
	"makerspace/internal/shop"   // Cart model
	"makerspace/internal/store"  // Persistence

	"github.com/google/uuid"        // Identifiers
	"github.com/shopspring/decimal" // Money
	"github.com/sirupsen/logrus"    // Structured logging
)

// PurchaseNote is recorded on every purchase created at checkout
const PurchaseNote = "Purchased from shop"

// QuoteLine is one priced cart line
type QuoteLine struct {
	Consumable domain.Consumable
	Quantity   int
	LineTotal  decimal.Decimal
	InStock    bool
}

// Quote prices a cart against current stock
type Quote struct {
	Lines   []QuoteLine
	Total   decimal.Decimal
	Missing []uuid.UUID // Cart ids with no matching consumable
}

// Available reports whether every line can be satisfied
func (q Quote) Available() bool {
	if len(q.Missing) > 0 {
		return false
	}
	for _, l := range q.Lines {
		if !l.InStock {
			return false
		}
	}
	return true
}

// Catalog lists consumables, optionally in one category
func (s *Service) Catalog(ctx context.Context, category domain.Category) ([]domain.Consumable, error) {
	if category != "" && !domain.ValidCategory(category) {
		return nil, domain.ErrUnknownCategory
	}
	return s.repo.ListConsumables(ctx, category)
}

// Consumable loads one consumable by id
func (s *Service) Consumable(ctx context.Context, id uuid.UUID) (domain.Consumable, error) {
	items, err := s.repo.GetConsumables(ctx, []uuid.UUID{id})
	if err != nil {
		return domain.Consumable{}, err
	}
	if len(items) == 0 {
		return domain.Consumable{}, domain.ErrNotFound
	}
	return items[0], nil
}

// Quote prices cart without locking anything
func (s *Service) Quote(ctx context.Context, cart shop.Cart) (Quote, error) {
	ids := cart.IDs()
	items, err := s.repo.GetConsumables(ctx, ids)
	if err != nil {
		return Quote{}, err
	}
	byID := make(map[uuid.UUID]domain.Consumable, len(items)) // Index by id
	for _, item := range items {
		byID[item.ID] = item
	}
	quote := Quote{Total: decimal.Zero}
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			quote.Missing = append(quote.Missing, id) // Deleted since it was added
			continue
		}
		qty := cart[id]
		line := QuoteLine{
			Consumable: item,
			Quantity:   qty,
			LineTotal:  item.LinePrice(qty),
			InStock:    item.StockQuantity >= qty,
		}
		quote.Lines = append(quote.Lines, line)
		quote.Total = quote.Total.Add(line.LineTotal)
	}
	return quote, nil
}

// Checkout commits the cart for userID.
//
// Every consumable in the cart is locked, then each line is checked against
// current stock. If any line fails nothing is written and a *domain.StockError
// is returned. Otherwise one unpaid purchase per line is inserted, stock is
// decremented and an inventory adjustment is recorded, all in one transaction.
func (s *Service) Checkout(ctx context.Context, userID uuid.UUID, cart shop.Cart) ([]domain.Purchase, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrNotAuthenticated
	}
	if cart.Empty() {
		return nil, domain.ErrEmptyCart
	}
	ids := cart.IDs()
	now := s.now()

	var purchases []domain.Purchase
	err := s.repo.Transact(ctx, func(tx store.Repository) error {
		// Lock every consumable in the cart before reading stock
		items, err := tx.LockConsumables(ctx, ids)
		if err != nil {
			return err // Return error to rollback
		}
		byID := make(map[uuid.UUID]domain.Consumable, len(items))
		for _, item := range items {
			byID[item.ID] = item
		}

		// Validate every line before the first write
		for _, id := range ids {
			item, ok := byID[id]
			if !ok {
				return &domain.StockError{ConsumableID: id, Requested: cart[id]}
			}
			if cart[id] <= 0 {
				return domain.ErrInvalidQuantity
			}
			if item.StockQuantity < cart[id] {
				return &domain.StockError{
					ConsumableID: id,
					Name:         item.Name,
					Requested:    cart[id],
					Available:    item.StockQuantity,
				}
			}
		}

		purchases = make([]domain.Purchase, 0, len(ids))
		adjustments := make([]domain.InventoryAdjustment, 0, len(ids))
		for _, id := range ids {
			item, qty := byID[id], cart[id]
			purchase := domain.Purchase{
				ID:           uuid.New(),
				UserID:       userID,
				ConsumableID: id,
				Quantity:     qty,
				TotalPrice:   item.LinePrice(qty),
				Status:       domain.StatusUnpaid,
				PurchaseDate: now,
				Notes:        PurchaseNote,
			}
			purchases = append(purchases, purchase)
			adjustments = append(adjustments, domain.InventoryAdjustment{
				ConsumableID:   id,
				QuantityChange: -qty,
				Reason:         domain.ReasonPurchase,
				PurchaseID:     &purchase.ID,
				AdjustedBy:     userID,
			})
		}
		// Create purchase records
		if err := tx.CreatePurchases(ctx, purchases); err != nil {
			return err // Return error to rollback
		}
		// Deduct stock
		for _, id := range ids {
			if err := tx.SetStock(ctx, id, byID[id].StockQuantity-cart[id]); err != nil {
				return err // Return error to rollback
			}
		}
		return tx.CreateAdjustments(ctx, adjustments) // Audit rows; commit on nil
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"lines":   len(ids),
			"error":   err.Error(),
		}).Error("Checkout failed")
		return nil, err
	}

	// Build one event per purchase for after the commit
	total := decimal.Zero
	evs := make([]events.Event, 0, len(purchases))
	for _, p := range purchases {
		total = total.Add(p.TotalPrice)
		evs = append(evs, events.Event{
			Type:         events.PurchaseCreated,
			PurchaseID:   p.ID,
			UserID:       userID,
			ConsumableID: p.ConsumableID,
			Quantity:     p.Quantity,
			TotalPrice:   p.TotalPrice,
			ActorID:      userID,
			At:           now,
		})
	}
	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"lines":   len(purchases),
		"total":   total.StringFixed(2),
		"type":    "checkout",
	}).Info("Checkout completed")
	s.publish(ctx, evs...) // Never fails the checkout
	return purchases, nil
}
