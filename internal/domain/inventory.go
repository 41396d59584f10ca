package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // UUID primary keys
	"gorm.io/gorm"           // GORM hooks
)

// Adjustment reasons
const (
	ReasonPurchase = "purchase"
	ReasonRestock  = "restock"
)

// InventoryAdjustment Model; audit row for every stock change
type InventoryAdjustment struct {
	ID             uuid.UUID  `gorm:"type:varchar(36);primaryKey" json:"id"`
	ConsumableID   uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"consumable_id"`
	QuantityChange int        `gorm:"not null" json:"quantity_change"` // Signed stock delta
	Reason         string     `gorm:"type:varchar(100);not null" json:"reason"`
	PurchaseID     *uuid.UUID `gorm:"type:varchar(36);index" json:"purchase_id,omitempty"` // Set for checkout rows
	AdjustedBy     uuid.UUID  `gorm:"type:varchar(36);not null" json:"adjusted_by"`
	CreatedAt      time.Time  `json:"created_at"`
}

// BeforeCreate assigns a UUID when none was set
func (a *InventoryAdjustment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
