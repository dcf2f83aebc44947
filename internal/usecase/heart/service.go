// Package heart implements the favorites ledger: a per-user toggleable set of
// hearted stores.
package heart

import (
	"context"

	"github.com/kailas-cloud/storedex/internal/domain"
	domuser "github.com/kailas-cloud/storedex/internal/domain/user"
)

// Service handles heart toggling and membership reads.
type Service struct {
	repo Repository
}

// New creates a heart service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Toggle flips storeID in the user's hearts set and returns the updated
// membership. An unknown store id is tolerated: removing or adding it is
// harmless either way.
func (s *Service) Toggle(ctx context.Context, userID, storeID string) (domuser.User, error) {
	if userID == "" {
		return domuser.User{}, domain.ErrUnauthenticated
	}
	if storeID == "" {
		return domuser.User{}, domain.NewValidation("store", "is required")
	}

	if _, err := s.repo.ToggleHeart(ctx, userID, storeID); err != nil {
		return domuser.User{}, err
	}

	hearts, err := s.repo.Hearts(ctx, userID)
	if err != nil {
		return domuser.User{}, err
	}
	return domuser.Reconstruct(userID, hearts), nil
}

// Hearts returns the user's current hearts membership.
func (s *Service) Hearts(ctx context.Context, userID string) (domuser.User, error) {
	if userID == "" {
		return domuser.User{}, domain.ErrUnauthenticated
	}

	hearts, err := s.repo.Hearts(ctx, userID)
	if err != nil {
		return domuser.User{}, err
	}
	return domuser.Reconstruct(userID, hearts), nil
}
