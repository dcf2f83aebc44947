package discovery

import (
	"context"

	domdisc "github.com/kailas-cloud/storedex/internal/domain/discovery"
	domstore "github.com/kailas-cloud/storedex/internal/domain/store"
)

// StoreReader defines the storage contract for discovery queries.
type StoreReader interface {
	List(ctx context.Context, offset, limit int) ([]domstore.Store, error)
	Count(ctx context.Context) (int, error)
	ListByTag(ctx context.Context, tag string, offset, limit int) ([]domstore.Store, error)
	CountByTag(ctx context.Context, tag string) (int, error)
	SearchText(ctx context.Context, query string, limit int) ([]domdisc.Scored, error)
	FindNear(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]domdisc.Place, error)
	ListByIDs(ctx context.Context, ids []string) ([]domstore.Store, error)
	TagCounts(ctx context.Context) ([]domdisc.TagCount, error)
}

// RatingReader reads per-store review aggregates for the popularity ranking.
type RatingReader interface {
	TopRatings(ctx context.Context, limit int) ([]domdisc.Rating, error)
}

// HeartsReader reads a user's favorited store ids.
type HeartsReader interface {
	Hearts(ctx context.Context, userID string) ([]string, error)
}
