// Package events publishes purchase lifecycle events for downstream consumers
// such as accounting exports.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types
const (
	PurchaseCreated = "purchase.created"
	PurchasePaid    = "purchase.paid"
)

// Event is a single purchase state change.
type Event struct {
	Type         string          `json:"type"`
	PurchaseID   uuid.UUID       `json:"purchase_id"`
	UserID       uuid.UUID       `json:"user_id"`
	ConsumableID uuid.UUID       `json:"consumable_id,omitempty"`
	Quantity     int             `json:"quantity,omitempty"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	ActorID      uuid.UUID       `json:"actor_id"`
	At           time.Time       `json:"at"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

// Nop discards every event; used when no broker is configured.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, ...Event) error { return nil }

// Close implements Publisher.
func (Nop) Close() error { return nil }
