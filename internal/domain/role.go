package domain

import "time"

// Role Model; reference table for the role strings a profile may carry.
// HierarchyLevel is informational and not enforced.
type Role struct {
	Role           string    `gorm:"type:varchar(50);primaryKey" json:"role"`
	Description    string    `gorm:"type:varchar(255)" json:"description"`
	HierarchyLevel int       `gorm:"not null;default:0;index" json:"hierarchy_level"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
