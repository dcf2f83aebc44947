package review

import (
	"context"

	domreview "github.com/kailas-cloud/storedex/internal/domain/review"
	domstore "github.com/kailas-cloud/storedex/internal/domain/store"
)

// Repository defines the storage contract for review operations.
type Repository interface {
	Add(ctx context.Context, rv *domreview.Review) error
	ListByStore(ctx context.Context, storeID string, limit int) ([]domreview.Review, error)
}

// StoreReader verifies the reviewed store exists.
type StoreReader interface {
	FindByID(ctx context.Context, id string) (domstore.Store, error)
}
