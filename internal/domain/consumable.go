package domain

import (
	"time" // Timestamps

	"github.com/google/uuid"        // UUID primary keys
	"github.com/shopspring/decimal" // Exact money values
	"gorm.io/gorm"                  // GORM hooks
)

// Category is the closed set of consumable categories
type Category string

// Consumable categories
const (
	CategoryFilament    Category = "filament"
	CategoryResin       Category = "resin"
	CategoryWood        Category = "wood"
	CategoryMetal       Category = "metal"
	CategoryElectronics Category = "electronics"
	CategoryFasteners   Category = "fasteners"
	CategoryAdhesives   Category = "adhesives"
	CategoryFinishing   Category = "finishing"
	CategoryOther       Category = "other"
)

// Categories lists every valid category
var Categories = []Category{
	CategoryFilament, CategoryResin, CategoryWood, CategoryMetal, CategoryElectronics,
	CategoryFasteners, CategoryAdhesives, CategoryFinishing, CategoryOther,
}

// ValidCategory reports whether c belongs to the closed enumeration
func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Consumable Model
type Consumable struct {
	ID               uuid.UUID       `gorm:"type:varchar(36);primaryKey" json:"id"`           // Primary key
	Name             string          `gorm:"type:varchar(255);not null" json:"name"`          // Display name
	Description      string          `gorm:"type:text" json:"description"`                    // Longer description
	Unit             string          `gorm:"type:varchar(50);not null" json:"unit"`           // Unit of sale, e.g. "meter"
	Price            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`        // Unit price
	Category         Category        `gorm:"type:varchar(30);not null;index" json:"category"` // Closed enumeration
	StockQuantity    int             `gorm:"not null;default:0" json:"stock_quantity"`        // Units on hand
	ReorderThreshold int             `gorm:"not null;default:0" json:"reorder_threshold"`     // Restock at or below this
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// BeforeCreate assigns a UUID when none was set
func (c *Consumable) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// NeedsReorder reports whether stock has fallen to the reorder threshold
func (c Consumable) NeedsReorder() bool {
	return c.StockQuantity <= c.ReorderThreshold
}

// LinePrice is the total price for qty units, rounded to cents
func (c Consumable) LinePrice(qty int) decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(qty))).Round(2)
}
