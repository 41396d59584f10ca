package service

import (
	"context" // Request-scoped contexts
	"errors"  // Error matching
	"strings" // String manipulation

	"makerspace/internal/domain" // Domain models and errors

	"github.com/sirupsen/logrus" // Structured logging
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// Registration is the input for creating an account
type Registration struct {
	Email    string
	Password string
	FullName string
}

// Register hashes the password and creates the user with a pending member profile
func (s *Service) Register(ctx context.Context, reg Registration) (domain.UserProfile, error) {
	if len(reg.Password) > domain.MaxPasswordBytes {
		return domain.UserProfile{}, domain.ErrPasswordTooLong // bcrypt limit is in bytes
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserProfile{}, err
	}
	user := &domain.User{
		Email:    strings.ToLower(strings.TrimSpace(reg.Email)), // Emails are unique case-insensitively
		Password: string(hash),
	}
	profile := &domain.UserProfile{
		FullName:               strings.TrimSpace(reg.FullName),
		Roles:                  []string{domain.RoleMember},
		MembershipStatus:       domain.MembershipPending,
		PreferredContactMethod: "email",
	}
	if err := s.repo.CreateAccount(ctx, user, profile); err != nil {
		return domain.UserProfile{}, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"type":    "register",
	}).Info("Account created")
	return *profile, nil
}

// Login checks credentials. Unknown emails and wrong passwords are indistinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return user, nil
}
