package service

import (
	"context" // Request-scoped contexts

	"makerspace/internal/domain" // Domain models and errors

	"github.com/google/uuid"        // Identifiers
	"github.com/shopspring/decimal" // Money
	"github.com/sirupsen/logrus"    // Structured logging
)

// ContactDetails are the profile fields a member may edit
type ContactDetails struct {
	FullName                     string
	PhoneNumber                  string
	EmergencyContactName         string
	EmergencyContactPhone        string
	EmergencyContactRelationship string
	PreferredContactMethod       string
	Notes                        string
}

// OrderHistory is a member's unpaid orders and what they owe
type OrderHistory struct {
	Orders    []domain.Purchase
	TotalOwed decimal.Decimal
}

// Profile returns the caller's own profile
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (domain.UserProfile, error) {
	if userID == uuid.Nil {
		return domain.UserProfile{}, domain.ErrNotAuthenticated
	}
	return s.repo.GetProfile(ctx, userID)
}

// UpdateProfile writes the caller's contact details; roles and membership status are untouched
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, details ContactDetails) (domain.UserProfile, error) {
	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return domain.UserProfile{}, err
	}
	profile.FullName = details.FullName
	profile.PhoneNumber = details.PhoneNumber
	profile.EmergencyContactName = details.EmergencyContactName
	profile.EmergencyContactPhone = details.EmergencyContactPhone
	profile.EmergencyContactRelationship = details.EmergencyContactRelationship
	if details.PreferredContactMethod != "" {
		profile.PreferredContactMethod = details.PreferredContactMethod
	}
	profile.Notes = details.Notes
	if err := s.repo.UpdateContactDetails(ctx, profile); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Profile update failed")
		return domain.UserProfile{}, err
	}
	return profile, nil
}

// Orders returns the caller's unpaid purchases, newest first, with their total
func (s *Service) Orders(ctx context.Context, userID uuid.UUID) (OrderHistory, error) {
	if userID == uuid.Nil {
		return OrderHistory{}, domain.ErrNotAuthenticated
	}
	purchases, err := s.repo.ListUserPurchases(ctx, userID, domain.StatusUnpaid)
	if err != nil {
		return OrderHistory{}, err
	}
	total := decimal.Zero
	for _, p := range purchases {
		total = total.Add(p.TotalPrice)
	}
	return OrderHistory{Orders: purchases, TotalOwed: total}, nil
}
