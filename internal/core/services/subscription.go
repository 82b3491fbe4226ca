package services

import (
	"context"
	"fmt"

	"github.com/castellan-labs/m365vault-cli/internal/core/domain"
	"github.com/castellan-labs/m365vault-cli/internal/core/ports/driven"
	"github.com/castellan-labs/m365vault-cli/internal/core/ports/driving"
	"github.com/castellan-labs/m365vault-cli/internal/logger"
)

// Ensure SubscriptionService implements the interface.
var _ driving.SubscriptionService = (*SubscriptionService)(nil)

// SubscriptionService resolves tenant subscription names to backend ids.
type SubscriptionService struct {
	backend driven.Backend
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(backend driven.Backend) *SubscriptionService {
	return &SubscriptionService{backend: backend}
}

// List returns all organisations visible to the caller.
func (s *SubscriptionService) List(ctx context.Context) ([]domain.Subscription, error) {
	subs, err := s.backend.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

// Resolve returns the single active subscription matching name. Resolution
// is a hard precondition for every recovery operation, and it is performed
// fresh on each invocation rather than cached.
func (s *SubscriptionService) Resolve(ctx context.Context, name string) (domain.SubscriptionRef, error) {
	if name == "" {
		return domain.SubscriptionRef{}, fmt.Errorf("%w: subscription name is required", domain.ErrInvalidInput)
	}

	subs, err := s.backend.ListSubscriptions(ctx)
	if err != nil {
		return domain.SubscriptionRef{}, fmt.Errorf("resolve subscription %q: %w", name, err)
	}

	var matches []domain.Subscription
	for _, sub := range subs {
		if sub.Name == name && sub.Status == domain.SubscriptionStatusActive {
			matches = append(matches, sub)
		}
	}

	if len(matches) != 1 {
		return domain.SubscriptionRef{}, fmt.Errorf(
			"%w: name %q matched %d active organisations",
			domain.ErrSubscriptionNotExactlyOne, name, len(matches))
	}

	logger.Debug("subscription: resolved %q to %s", name, matches[0].ID)
	return domain.SubscriptionRef{Name: name, ID: matches[0].ID}, nil
}
