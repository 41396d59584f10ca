package domain

import (
	"slices" // Role set membership
	"time"   // Timestamps

	"github.com/google/uuid" // UUID primary keys
	"gorm.io/gorm"           // GORM hooks
)

// Role names the application itself checks for
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Membership statuses
const (
	MembershipActive   = "active"
	MembershipPending  = "pending"
	MembershipInactive = "inactive"
)

// User Model (authentication identity)
type User struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`               // Primary key
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"` // Unique login email
	Password  string    `gorm:"not null" json:"-"`                                   // Hashed password
	CreatedAt time.Time `json:"created_at"`                                          // Creation time
}

// BeforeCreate assigns a UUID when none was set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserProfile Model; shares its ID with User
type UserProfile struct {
	ID                           uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	FullName                     string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Roles                        []string  `gorm:"serializer:json;type:text" json:"roles"` // Unordered role set
	MembershipStatus             string    `gorm:"type:varchar(20);not null;default:pending" json:"membership_status"`
	PhoneNumber                  string    `gorm:"type:varchar(50)" json:"phone_number"`
	EmergencyContactName         string    `gorm:"type:varchar(255)" json:"emergency_contact_name"`
	EmergencyContactPhone        string    `gorm:"type:varchar(50)" json:"emergency_contact_phone"`
	EmergencyContactRelationship string    `gorm:"type:varchar(100)" json:"emergency_contact_relationship"`
	PreferredContactMethod       string    `gorm:"type:varchar(20);default:email" json:"preferred_contact_method"`
	Notes                        string    `gorm:"type:text" json:"notes"`
	CreatedAt                    time.Time `json:"created_at"`
}

// HasRole reports whether the profile's role set contains role
func (p UserProfile) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

// IsAdmin reports whether the profile carries the admin role
func (p UserProfile) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}

// WithRole returns a copy of the role set with role added or removed.
// Adding a role that is already present leaves the set as it was.
func (p UserProfile) WithRole(role string, enabled bool) []string {
	out := make([]string, 0, len(p.Roles)+1)
	for _, r := range p.Roles {
		if r == role && !enabled {
			continue
		}
		out = append(out, r)
	}
	if enabled && !p.HasRole(role) {
		out = append(out, role)
	}
	return out
}
