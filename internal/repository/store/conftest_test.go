package store

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/storedex/internal/db"
	domstore "github.com/kailas-cloud/storedex/internal/domain/store"
)

type mockStore struct {
	hSetFn         func(ctx context.Context, key string, fields map[string]string) error
	hDelFn         func(ctx context.Context, key string, fields ...string) error
	hGetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hGetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	delFn          func(ctx context.Context, key string) error
	getFn          func(ctx context.Context, key string) ([]byte, error)
	setNXFn        func(ctx context.Context, key string, value []byte) (bool, error)
	createIndexFn  func(ctx context.Context, def *db.IndexDefinition) error
	searchKNNFn    func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	searchTextFn   func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	searchListFn   func(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	searchCountFn  func(ctx context.Context, index, query string) (int, error)
	aggregateFn    func(ctx context.Context, q *db.AggregateQuery) (*db.AggregateResult, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	return m.hSetFn(ctx, key, fields)
}

func (m *mockStore) HDel(ctx context.Context, key string, fields ...string) error {
	if m.hDelFn == nil {
		return nil
	}
	return m.hDelFn(ctx, key, fields...)
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return m.hGetAllFn(ctx, key)
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	return m.hGetAllMultiFn(ctx, keys)
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	return m.delFn(ctx, key)
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	return m.getFn(ctx, key)
}

func (m *mockStore) SetNX(ctx context.Context, key string, value []byte) (bool, error) {
	return m.setNXFn(ctx, key, value)
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	return m.createIndexFn(ctx, def)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	return m.searchKNNFn(ctx, q)
}

func (m *mockStore) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	return m.searchTextFn(ctx, q)
}

func (m *mockStore) SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error) {
	return m.searchListFn(ctx, q)
}

func (m *mockStore) SearchCount(ctx context.Context, index, query string) (int, error) {
	return m.searchCountFn(ctx, index, query)
}

func (m *mockStore) Aggregate(ctx context.Context, q *db.AggregateQuery) (*db.AggregateResult, error) {
	return m.aggregateFn(ctx, q)
}

func testStore(t *testing.T, id, name, slug string) *domstore.Store {
	t.Helper()
	st, err := domstore.New(id, name, "", nil, nil, "", "author-1", time.Unix(0, 1700000000000000000))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	st = st.WithSlug(slug)
	return &st
}

func testHashFields(name, slug string) map[string]string {
	return map[string]string{
		fieldName:    name,
		fieldSlug:    slug,
		fieldAuthor:  "author-1",
		fieldCreated: "1700000000000000000",
	}
}
