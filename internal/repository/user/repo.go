// Package user persists per-user hearted-store sets.
package user

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/storedex/internal/domain"
)

// store is the consumer interface for heart sets (ISP).
type store interface {
	SetToggle(ctx context.Context, key, member string) (bool, error)
	SMembers(ctx context.Context, key string) ([]string, error)
	SIsMember(ctx context.Context, key, member string) (bool, error)
}

// Repo implements the favorites persistence contract of the usecase layer.
type Repo struct {
	store store
}

// New creates a user repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// ToggleHeart atomically flips storeID membership in the user's hearts set.
// Returns true when the store is now hearted.
func (r *Repo) ToggleHeart(ctx context.Context, userID, storeID string) (bool, error) {
	added, err := r.store.SetToggle(ctx, heartsKey(userID), storeID)
	if err != nil {
		return false, fmt.Errorf("toggle heart %s/%s: %w", userID, storeID, err)
	}
	return added, nil
}

// Hearts returns the store ids the user has favorited. A user with no hearts
// yields an empty slice, not an error.
func (r *Repo) Hearts(ctx context.Context, userID string) ([]string, error) {
	members, err := r.store.SMembers(ctx, heartsKey(userID))
	if err != nil {
		return nil, fmt.Errorf("hearts of %s: %w", userID, err)
	}
	return members, nil
}

// HasHearted reports whether the user has favorited the store.
func (r *Repo) HasHearted(ctx context.Context, userID, storeID string) (bool, error) {
	ok, err := r.store.SIsMember(ctx, heartsKey(userID), storeID)
	if err != nil {
		return false, fmt.Errorf("has hearted %s/%s: %w", userID, storeID, err)
	}
	return ok, nil
}

func heartsKey(userID string) string {
	return fmt.Sprintf("%suser:%s:hearts", domain.KeyPrefix, userID)
}
