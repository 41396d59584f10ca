// Package service implements the member, shop and admin operations on top of a store.Repository.
package service

import (
	"context" // Request-scoped contexts
	"errors"  // Error matching
	"time"    // Clock

	"makerspace/internal/domain" // Domain models and errors
	"makerspace/internal/events" // Purchase events
	"makerspace/internal/store"  // Persistence

	"github.com/google/uuid"     // Identifiers
	"github.com/sirupsen/logrus" // Structured logging
)

// Service carries the dependencies shared by every operation. It holds no
// per-user state; callers pass the acting user's id on each call.
type Service struct {
	repo   store.Repository
	events events.Publisher
	now    func() time.Time
}

// New builds a Service; a nil publisher discards events
func New(repo store.Repository, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		repo:   repo,
		events: publisher,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// RequireAdmin reloads the actor's profile and checks for the admin role.
// It is called on every privileged operation; the result is never cached.
func (s *Service) RequireAdmin(ctx context.Context, actorID uuid.UUID) (domain.UserProfile, error) {
	if actorID == uuid.Nil {
		return domain.UserProfile{}, domain.ErrNotAuthenticated
	}
	profile, err := s.repo.GetProfile(ctx, actorID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.UserProfile{}, domain.ErrNotAuthorized // No profile, no roles
	}
	if err != nil {
		return domain.UserProfile{}, err
	}
	if !profile.IsAdmin() {
		return domain.UserProfile{}, domain.ErrNotAuthorized
	}
	return profile, nil
}

// IsAdmin reports whether userID currently holds the admin role
func (s *Service) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	_, err := s.RequireAdmin(ctx, userID)
	if errors.Is(err, domain.ErrNotAuthorized) {
		return false, nil
	}
	return err == nil, err
}

// publish sends events after a commit; failures are logged and never undo the write
func (s *Service) publish(ctx context.Context, evs ...events.Event) {
	if len(evs) == 0 {
		return
	}
	if err := s.events.Publish(ctx, evs...); err != nil {
		logrus.WithFields(logrus.Fields{
			"events": len(evs),
			"type":   evs[0].Type,
			"error":  err.Error(),
		}).Warn("Failed to publish purchase events")
	}
}
