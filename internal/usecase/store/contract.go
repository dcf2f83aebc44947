package store

import (
	"context"

	domstore "github.com/kailas-cloud/storedex/internal/domain/store"
)

// Repository defines the storage contract for store lifecycle operations.
type Repository interface {
	Create(ctx context.Context, st *domstore.Store) error
	Update(ctx context.Context, st *domstore.Store, previousSlug string) error
	FindByID(ctx context.Context, id string) (domstore.Store, error)
	FindBySlug(ctx context.Context, slug string) (domstore.Store, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
}
