// Package store persists store records as hashes behind an FT index
// combining text, tag, sortable-numeric, and geo-vector fields.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/kailas-cloud/storedex/internal/db"
	"github.com/kailas-cloud/storedex/internal/domain"
	"github.com/kailas-cloud/storedex/internal/domain/discovery"
	"github.com/kailas-cloud/storedex/internal/domain/geo"
	domstore "github.com/kailas-cloud/storedex/internal/domain/store"
)

// store is the consumer interface for store records (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HDel(ctx context.Context, key string, fields ...string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Get(ctx context.Context, key string) ([]byte, error)
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
	Aggregate(ctx context.Context, q *db.AggregateQuery) (*db.AggregateResult, error)
}

// Repo implements the store persistence contracts of the usecase layer.
type Repo struct {
	store store
}

// New creates a store repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// EnsureIndex creates the store FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def := db.NewIndex(indexName()).
		Prefix(keyPrefix()).
		Text(fieldName).
		Text(fieldDescription).
		TagWithOpts(fieldTags, tagSeparator, false, true).
		Tag(fieldSlug).
		Tag(fieldAuthor).
		NumericSortable(fieldCreated).
		VectorFlat(fieldGeo, geo.VectorDim, db.DistanceL2).
		MustBuild()

	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create store index: %w", err)
	}
	return nil
}

// Create persists a new store. The slug is claimed first with an atomic
// set-if-absent so a concurrent create with the same slug loses cleanly.
func (r *Repo) Create(ctx context.Context, st *domstore.Store) error {
	won, err := r.store.SetNX(ctx, slugKey(st.Slug()), []byte(st.ID()))
	if err != nil {
		return fmt.Errorf("claim slug %s: %w", st.Slug(), err)
	}
	if !won {
		return domain.ErrSlugTaken
	}

	if err := r.store.HSet(ctx, storeKey(st.ID()), buildHashFields(st)); err != nil {
		// Release the claim so a failed create does not reserve the slug forever.
		_ = r.store.Del(ctx, slugKey(st.Slug()))
		return fmt.Errorf("hset store %s: %w", st.ID(), err)
	}
	return nil
}

// Update persists changed fields. When the slug moved, the new slug is
// claimed before the write and the old claim released after it.
func (r *Repo) Update(ctx context.Context, st *domstore.Store, previousSlug string) error {
	if st.Slug() != previousSlug {
		won, err := r.store.SetNX(ctx, slugKey(st.Slug()), []byte(st.ID()))
		if err != nil {
			return fmt.Errorf("claim slug %s: %w", st.Slug(), err)
		}
		if !won {
			return domain.ErrSlugTaken
		}
	}

	if err := r.store.HSet(ctx, storeKey(st.ID()), buildHashFields(st)); err != nil {
		return fmt.Errorf("hset store %s: %w", st.ID(), err)
	}

	// HSET merges fields, so a cleared tag set must be deleted explicitly or
	// the stale value keeps the store visible to tag discovery.
	if len(st.Tags()) == 0 {
		if err := r.store.HDel(ctx, storeKey(st.ID()), fieldTags); err != nil {
			return fmt.Errorf("hdel store %s tags: %w", st.ID(), err)
		}
	}

	if st.Slug() != previousSlug && previousSlug != "" {
		if err := r.store.Del(ctx, slugKey(previousSlug)); err != nil {
			return fmt.Errorf("release slug %s: %w", previousSlug, err)
		}
	}
	return nil
}

// FindByID returns a store by id.
func (r *Repo) FindByID(ctx context.Context, id string) (domstore.Store, error) {
	m, err := r.store.HGetAll(ctx, storeKey(id))
	if err != nil {
		return domstore.Store{}, fmt.Errorf("hgetall store %s: %w", id, err)
	}
	if len(m) == 0 {
		return domstore.Store{}, domain.ErrStoreNotFound
	}
	return parseHashFields(id, m), nil
}

// FindBySlug resolves a slug claim to its store.
func (r *Repo) FindBySlug(ctx context.Context, slug string) (domstore.Store, error) {
	id, err := r.store.Get(ctx, slugKey(slug))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domstore.Store{}, domain.ErrStoreNotFound
		}
		return domstore.Store{}, fmt.Errorf("get slug %s: %w", slug, err)
	}
	return r.FindByID(ctx, string(id))
}

// SlugExists reports whether the slug is claimed by a store other than excludeID.
func (r *Repo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	id, err := r.store.Get(ctx, slugKey(slug))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get slug %s: %w", slug, err)
	}
	return string(id) != excludeID, nil
}

// List returns the window [offset, offset+limit) ordered by created descending.
func (r *Repo) List(ctx context.Context, offset, limit int) ([]domstore.Store, error) {
	return r.listQuery(ctx, "*", offset, limit)
}

// Count returns the total number of stores.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, indexName(), "*")
	if err != nil {
		return 0, fmt.Errorf("count stores: %w", err)
	}
	return n, nil
}

// ListByTag returns the window of stores carrying tag, created descending.
// An empty tag matches stores that have at least one tag.
func (r *Repo) ListByTag(ctx context.Context, tag string, offset, limit int) ([]domstore.Store, error) {
	return r.listQuery(ctx, tagQuery(tag), offset, limit)
}

// CountByTag returns the number of stores matching ListByTag's filter.
func (r *Repo) CountByTag(ctx context.Context, tag string) (int, error) {
	n, err := r.store.SearchCount(ctx, indexName(), tagQuery(tag))
	if err != nil {
		return 0, fmt.Errorf("count stores by tag: %w", err)
	}
	return n, nil
}

// SearchText runs a BM25 relevance search over name and description.
func (r *Repo) SearchText(ctx context.Context, query string, limit int) ([]discovery.Scored, error) {
	sr, err := r.store.SearchText(ctx, &db.TextQuery{
		IndexName: indexName(),
		Fields:    []string{fieldName, fieldDescription},
		Query:     query,
		TopK:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("search stores: %w", err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	scored := make([]discovery.Scored, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := extractID(entry.Key)
		scored = append(scored, discovery.Scored{
			Store: parseHashFields(id, entry.Fields),
			Score: entry.Score,
		})
	}
	return scored, nil
}

// FindNear returns up to limit stores within radiusMeters of (lat, lng),
// nearest first. Results carry only the reduced place projection.
func (r *Repo) FindNear(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]discovery.Place, error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:   indexName(),
		VectorField: fieldGeo,
		Vector:      geo.ToVector(lat, lng),
		K:           limit,
		ReturnFields: []string{
			fieldSlug, fieldName, fieldDescription,
			fieldLng, fieldLat, fieldAddress, fieldPhoto,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("search near: %w", err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	places := make([]discovery.Place, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		meters := geo.L2ToMeters(entry.Score)
		if meters > radiusMeters {
			continue
		}
		places = append(places, parsePlace(entry.Fields, meters))
	}
	return places, nil
}

// ListByIDs hydrates stores in the order of ids, skipping missing records.
func (r *Repo) ListByIDs(ctx context.Context, ids []string) ([]domstore.Store, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = storeKey(id)
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hydrate stores: %w", err)
	}

	stores := make([]domstore.Store, 0, len(ids))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		stores = append(stores, parseHashFields(ids[i], m))
	}
	return stores, nil
}

// TagCounts returns the distinct tag vocabulary with per-tag store counts,
// ordered alphabetically.
func (r *Repo) TagCounts(ctx context.Context) ([]discovery.TagCount, error) {
	ar, err := r.store.Aggregate(ctx, &db.AggregateQuery{
		IndexName: indexName(),
		Query:     db.HasField(fieldTags),
		GroupBy:   fieldTags,
		Reducers:  []db.Reducer{{Func: "COUNT", As: "count"}},
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate tags: %w", err)
	}

	counts := make([]discovery.TagCount, 0, len(ar.Rows))
	for _, row := range ar.Rows {
		tag := row[fieldTags]
		if tag == "" {
			continue
		}
		n, err := strconv.Atoi(row["count"])
		if err != nil {
			continue
		}
		counts = append(counts, discovery.TagCount{Tag: tag, Count: n})
	}

	sort.Slice(counts, func(i, j int) bool { return counts[i].Tag < counts[j].Tag })
	return counts, nil
}

func (r *Repo) listQuery(ctx context.Context, query string, offset, limit int) ([]domstore.Store, error) {
	sr, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName: indexName(),
		Query:     query,
		Offset:    offset,
		Limit:     limit,
		SortBy:    fieldCreated,
		SortDesc:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	stores := make([]domstore.Store, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		stores = append(stores, parseHashFields(extractID(entry.Key), entry.Fields))
	}
	return stores, nil
}

func tagQuery(tag string) string {
	if tag == "" {
		return db.HasField(fieldTags)
	}
	return db.TagFilter(fieldTags, tag)
}

func parsePlace(m map[string]string, meters float64) discovery.Place {
	p := discovery.Place{
		Slug:           m[fieldSlug],
		Name:           m[fieldName],
		Description:    m[fieldDescription],
		Photo:          m[fieldPhoto],
		DistanceMeters: meters,
	}
	lng, errLng := strconv.ParseFloat(m[fieldLng], 64)
	lat, errLat := strconv.ParseFloat(m[fieldLat], 64)
	if errLng == nil && errLat == nil {
		if loc, err := domstore.NewLocation(lng, lat, m[fieldAddress]); err == nil {
			p.Location = loc
		}
	}
	return p
}

func storeKey(id string) string {
	return keyPrefix() + id
}

func slugKey(slug string) string {
	return fmt.Sprintf("%sslug:%s", domain.KeyPrefix, slug)
}

func indexName() string {
	return domain.KeyPrefix + "store-idx"
}

func keyPrefix() string {
	return domain.KeyPrefix + "store:"
}

func extractID(key string) string {
	prefix := keyPrefix()
	if len(key) > len(prefix) && key[:len(prefix)] == prefix {
		return key[len(prefix):]
	}
	return key
}
