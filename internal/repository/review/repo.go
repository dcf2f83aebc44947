// Package review persists review records and computes per-store rating
// aggregates behind an FT index.
package review

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/storedex/internal/db"
	"github.com/kailas-cloud/storedex/internal/domain"
	"github.com/kailas-cloud/storedex/internal/domain/discovery"
	domreview "github.com/kailas-cloud/storedex/internal/domain/review"
)

// store is the consumer interface for review records (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	Aggregate(ctx context.Context, q *db.AggregateQuery) (*db.AggregateResult, error)
}

// Repo implements the review persistence contracts of the usecase layer.
type Repo struct {
	store store
}

// New creates a review repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// EnsureIndex creates the review FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def := db.NewIndex(indexName()).
		Prefix(keyPrefix()).
		Tag(fieldStore).
		Tag(fieldAuthor).
		Numeric(fieldRating).
		NumericSortable(fieldCreated).
		MustBuild()

	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create review index: %w", err)
	}
	return nil
}

// Add persists a new review.
func (r *Repo) Add(ctx context.Context, rv *domreview.Review) error {
	if err := r.store.HSet(ctx, reviewKey(rv.ID()), buildHashFields(rv)); err != nil {
		return fmt.Errorf("hset review %s: %w", rv.ID(), err)
	}
	return nil
}

// ListByStore returns the store's reviews, newest first.
func (r *Repo) ListByStore(ctx context.Context, storeID string, limit int) ([]domreview.Review, error) {
	sr, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName: indexName(),
		Query:     db.TagFilter(fieldStore, storeID),
		Offset:    0,
		Limit:     limit,
		SortBy:    fieldCreated,
		SortDesc:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("list reviews of %s: %w", storeID, err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	reviews := make([]domreview.Review, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		reviews = append(reviews, parseHashFields(extractID(entry.Key), entry.Fields))
	}
	return reviews, nil
}

// TopRatings returns per-store rating aggregates ordered by average rating
// descending. Stores without reviews do not appear.
func (r *Repo) TopRatings(ctx context.Context, limit int) ([]discovery.Rating, error) {
	ar, err := r.store.Aggregate(ctx, &db.AggregateQuery{
		IndexName: indexName(),
		Query:     "*",
		GroupBy:   fieldStore,
		Reducers: []db.Reducer{
			{Func: "AVG", Arg: fieldRating, As: "avg_rating"},
			{Func: "COUNT", As: "review_count"},
		},
		SortBy:   "avg_rating",
		SortDesc: true,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}

	ratings := make([]discovery.Rating, 0, len(ar.Rows))
	for _, row := range ar.Rows {
		id := row[fieldStore]
		if id == "" {
			continue
		}
		avg, err := strconv.ParseFloat(row["avg_rating"], 64)
		if err != nil {
			continue
		}
		count, err := strconv.Atoi(row["review_count"])
		if err != nil {
			continue
		}
		ratings = append(ratings, discovery.Rating{StoreID: id, Average: avg, Count: count})
	}
	return ratings, nil
}

func reviewKey(id string) string {
	return keyPrefix() + id
}

func indexName() string {
	return domain.KeyPrefix + "review-idx"
}

func keyPrefix() string {
	return domain.KeyPrefix + "review:"
}

func extractID(key string) string {
	prefix := keyPrefix()
	if len(key) > len(prefix) && key[:len(prefix)] == prefix {
		return key[len(prefix):]
	}
	return key
}
