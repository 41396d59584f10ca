package store

import (
	"context" // Request-scoped contexts
	"errors"  // Error matching
	"strings" // String manipulation

	"makerspace/internal/domain" // Domain models and errors

	"github.com/google/uuid" // Identifiers
	"gorm.io/gorm"           // GORM ORM library
)

// CreateAccount inserts the user and its profile in one transaction
func (s *GormStore) CreateAccount(ctx context.Context, user *domain.User, profile *domain.UserProfile) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		// Check for an existing account first
		if err := tx.Model(&domain.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err // Return error to rollback
		}
		if count > 0 {
			return domain.ErrEmailTaken
		}
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrEmailTaken // Lost a race with a concurrent registration
			}
			return err
		}
		profile.ID = user.ID // Profile shares the user's identity
		return tx.Create(profile).Error
	})
}

// FindUserByEmail loads a user by case-insensitive email
func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User
	err := s.conn(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	return user, notFound(err)
}

// GetProfile loads one profile
func (s *GormStore) GetProfile(ctx context.Context, id uuid.UUID) (domain.UserProfile, error) {
	var profile domain.UserProfile
	err := s.conn(ctx).Where("id = ?", id).First(&profile).Error
	return profile, notFound(err)
}

// LockProfile loads one profile and holds its row lock until the transaction ends
func (s *GormStore) LockProfile(ctx context.Context, id uuid.UUID) (domain.UserProfile, error) {
	var profile domain.UserProfile
	err := s.forUpdate(ctx).Where("id = ?", id).First(&profile).Error
	return profile, notFound(err)
}

// ListProfiles returns every profile ordered by name
func (s *GormStore) ListProfiles(ctx context.Context) ([]domain.UserProfile, error) {
	var profiles []domain.UserProfile
	err := s.conn(ctx).Order("full_name asc").Find(&profiles).Error
	return profiles, err
}

// UpdateContactDetails writes the member-editable fields of profile
func (s *GormStore) UpdateContactDetails(ctx context.Context, profile domain.UserProfile) error {
	res := s.conn(ctx).Model(&domain.UserProfile{}).Where("id = ?", profile.ID).Updates(map[string]any{
		"full_name":                      profile.FullName,
		"phone_number":                   profile.PhoneNumber,
		"emergency_contact_name":         profile.EmergencyContactName,
		"emergency_contact_phone":        profile.EmergencyContactPhone,
		"emergency_contact_relationship": profile.EmergencyContactRelationship,
		"preferred_contact_method":       profile.PreferredContactMethod,
		"notes":                          profile.Notes,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Unchanged rows report zero on MySQL, so confirm the row exists
		_, err := s.GetProfile(ctx, profile.ID)
		return err
	}
	return nil
}

// SaveRoles replaces the full role array of a profile
func (s *GormStore) SaveRoles(ctx context.Context, id uuid.UUID, roles []string) error {
	profile := domain.UserProfile{ID: id, Roles: roles}
	return s.conn(ctx).Model(&profile).Select("roles").Updates(&profile).Error // Only the roles column
}

// ListRoles returns the roles reference table by hierarchy level
func (s *GormStore) ListRoles(ctx context.Context) ([]domain.Role, error) {
	var roles []domain.Role
	err := s.conn(ctx).Order("hierarchy_level asc").Order("role asc").Find(&roles).Error
	return roles, err
}

// RoleExists reports whether role is in the reference table
func (s *GormStore) RoleExists(ctx context.Context, role string) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&domain.Role{}).Where("role = ?", role).Count(&count).Error
	return count > 0, err
}
