package domain

import (
	"time" // Timestamps

	"github.com/google/uuid"        // UUID primary keys
	"github.com/shopspring/decimal" // Exact money values
	"gorm.io/gorm"                  // GORM hooks
)

// PurchaseStatus is the payment state of a purchase
type PurchaseStatus string

// Purchase statuses
const (
	StatusUnpaid PurchaseStatus = "unpaid"
	StatusPaid   PurchaseStatus = "paid"
)

// Purchase Model; one consumable line item bought by one user.
// TotalPrice is quantity times the unit price at creation and is not re-validated later.
type Purchase struct {
	ID           uuid.UUID       `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID       uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"user_id"`
	ConsumableID uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"consumable_id"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Status       PurchaseStatus  `gorm:"type:varchar(10);not null;default:unpaid;index" json:"status"`
	PurchaseDate time.Time       `gorm:"not null;index" json:"purchase_date"`
	Notes        string          `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Consumable *Consumable  `gorm:"foreignKey:ConsumableID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"consumable,omitempty"`
	Profile    *UserProfile `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"profile,omitempty"`
}

// BeforeCreate assigns a UUID and defaults
func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = StatusUnpaid
	}
	if p.PurchaseDate.IsZero() {
		p.PurchaseDate = time.Now().UTC()
	}
	return nil
}
