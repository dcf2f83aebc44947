// Package review implements adding and listing store reviews.
package review

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/storedex/internal/domain"
	domreview "github.com/kailas-cloud/storedex/internal/domain/review"
)

// listLimit caps the reviews returned per store.
const listLimit = 100

// Service handles review creation and listing.
type Service struct {
	repo   Repository
	stores StoreReader
	now    func() time.Time
	newID  func() string
}

// New creates a review service.
func New(repo Repository, stores StoreReader) *Service {
	return &Service{
		repo:   repo,
		stores: stores,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Add validates and persists a review on an existing store.
func (s *Service) Add(ctx context.Context, userID, storeID, text string, rating int) (domreview.Review, error) {
	if userID == "" {
		return domreview.Review{}, domain.ErrUnauthenticated
	}

	if _, err := s.stores.FindByID(ctx, storeID); err != nil {
		return domreview.Review{}, err
	}

	rv, err := domreview.New(s.newID(), storeID, userID, text, rating, s.now().UTC())
	if err != nil {
		return domreview.Review{}, err
	}

	if err := s.repo.Add(ctx, &rv); err != nil {
		return domreview.Review{}, err
	}
	return rv, nil
}

// ListByStore returns the store's reviews, newest first.
func (s *Service) ListByStore(ctx context.Context, storeID string) ([]domreview.Review, error) {
	if _, err := s.stores.FindByID(ctx, storeID); err != nil {
		return nil, err
	}
	return s.repo.ListByStore(ctx, storeID, listLimit)
}
