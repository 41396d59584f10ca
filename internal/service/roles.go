package service

import (
	"context" // Request-scoped contexts

	"makerspace/internal/domain" // Domain models and errors
	"makerspace/internal/store"  // Persistence

	"github.com/google/uuid"     // Identifiers
	"github.com/sirupsen/logrus" // Structured logging
)

// Users lists every profile for the role management view
func (s *Service) Users(ctx context.Context, actorID uuid.UUID) ([]domain.UserProfile, error) {
	if _, err := s.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.repo.ListProfiles(ctx)
}

// Roles lists the roles reference table ordered by hierarchy level
func (s *Service) Roles(ctx context.Context, actorID uuid.UUID) ([]domain.Role, error) {
	if _, err := s.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.repo.ListRoles(ctx)
}

// SetRole adds (enabled) or removes one role on the target's role set.
// The target row is locked while its full role array is rewritten, so
// concurrent edits by two admins serialize instead of overwriting each other.
func (s *Service) SetRole(ctx context.Context, actorID, targetID uuid.UUID, role string, enabled bool) (domain.UserProfile, error) {
	if _, err := s.RequireAdmin(ctx, actorID); err != nil {
		return domain.UserProfile{}, err
	}
	exists, err := s.repo.RoleExists(ctx, role) // Only roles from the reference table
	if err != nil {
		return domain.UserProfile{}, err
	}
	if !exists {
		return domain.UserProfile{}, domain.ErrUnknownRole
	}

	var updated domain.UserProfile
	err = s.repo.Transact(ctx, func(tx store.Repository) error {
		// Lock the target row so concurrent edits serialize
		profile, err := tx.LockProfile(ctx, targetID)
		if err != nil {
			return err // Return error to rollback
		}
		profile.Roles = profile.WithRole(role, enabled) // Full array, add or remove one
		if err := tx.SaveRoles(ctx, targetID, profile.Roles); err != nil {
			return err // Return error to rollback
		}
		updated = profile
		return nil
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"admin_id":  actorID,
			"target_id": targetID,
			"role":      role,
			"enabled":   enabled,
			"error":     err.Error(),
		}).Error("Role update failed")
		return domain.UserProfile{}, err
	}
	logrus.WithFields(logrus.Fields{
		"admin_id":  actorID,
		"target_id": targetID,
		"role":      role,
		"enabled":   enabled,
		"roles":     updated.Roles,
	}).Info("Roles updated")
	return updated, nil
}
