package heart

import "context"

// Repository defines the storage contract for the per-user hearts set.
type Repository interface {
	ToggleHeart(ctx context.Context, userID, storeID string) (bool, error)
	Hearts(ctx context.Context, userID string) ([]string, error)
}
