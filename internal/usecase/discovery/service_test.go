package discovery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/storedex/internal/domain"
	domdisc "github.com/kailas-cloud/storedex/internal/domain/discovery"
	domstore "github.com/kailas-cloud/storedex/internal/domain/store"
)

type mockStores struct {
	listFn       func(ctx context.Context, offset, limit int) ([]domstore.Store, error)
	countFn      func(ctx context.Context) (int, error)
	listByTagFn  func(ctx context.Context, tag string, offset, limit int) ([]domstore.Store, error)
	countByTagFn func(ctx context.Context, tag string) (int, error)
	searchTextFn func(ctx context.Context, query string, limit int) ([]domdisc.Scored, error)
	findNearFn   func(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]domdisc.Place, error)
	listByIDsFn  func(ctx context.Context, ids []string) ([]domstore.Store, error)
	tagCountsFn  func(ctx context.Context) ([]domdisc.TagCount, error)
}

func (m *mockStores) List(ctx context.Context, offset, limit int) ([]domstore.Store, error) {
	return m.listFn(ctx, offset, limit)
}

func (m *mockStores) Count(ctx context.Context) (int, error) {
	return m.countFn(ctx)
}

func (m *mockStores) ListByTag(ctx context.Context, tag string, offset, limit int) ([]domstore.Store, error) {
	return m.listByTagFn(ctx, tag, offset, limit)
}

func (m *mockStores) CountByTag(ctx context.Context, tag string) (int, error) {
	return m.countByTagFn(ctx, tag)
}

func (m *mockStores) SearchText(ctx context.Context, query string, limit int) ([]domdisc.Scored, error) {
	return m.searchTextFn(ctx, query, limit)
}

func (m *mockStores) FindNear(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]domdisc.Place, error) {
	return m.findNearFn(ctx, lat, lng, radiusMeters, limit)
}

func (m *mockStores) ListByIDs(ctx context.Context, ids []string) ([]domstore.Store, error) {
	return m.listByIDsFn(ctx, ids)
}

func (m *mockStores) TagCounts(ctx context.Context) ([]domdisc.TagCount, error) {
	return m.tagCountsFn(ctx)
}

type mockRatings struct {
	topRatingsFn func(ctx context.Context, limit int) ([]domdisc.Rating, error)
}

func (m *mockRatings) TopRatings(ctx context.Context, limit int) ([]domdisc.Rating, error) {
	return m.topRatingsFn(ctx, limit)
}

type mockHearts struct {
	heartsFn func(ctx context.Context, userID string) ([]string, error)
}

func (m *mockHearts) Hearts(ctx context.Context, userID string) ([]string, error) {
	return m.heartsFn(ctx, userID)
}

func storeAt(t *testing.T, id string, createdNano int64) domstore.Store {
	t.Helper()
	st, err := domstore.New(id, "Store "+id, "", nil, nil, "", "u1", time.Unix(0, createdNano))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return st.WithSlug("store-" + id)
}

func TestDiscoverAllPaginates(t *testing.T) {
	stores := &mockStores{
		countFn: func(context.Context) (int, error) { return 10, nil },
		listFn: func(_ context.Context, offset, limit int) ([]domstore.Store, error) {
			if offset != 4 || limit != 4 {
				t.Errorf("window = %d/%d", offset, limit)
			}
			return []domstore.Store{storeAt(t, "a", 5), storeAt(t, "b", 4)}, nil
		},
	}
	svc := New(stores, nil, nil)

	req := domdisc.All(2)
	res, err := svc.Discover(context.Background(), &req)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if res.Page != 2 || res.TotalCount != 10 || res.TotalPages != 3 {
		t.Errorf("page=%d total=%d pages=%d", res.Page, res.TotalCount, res.TotalPages)
	}
	if res.RedirectPage != 0 {
		t.Errorf("unexpected redirect to %d", res.RedirectPage)
	}
	if len(res.Stores) != 2 {
		t.Errorf("stores = %d", len(res.Stores))
	}
}

func TestDiscoverAllPastEndRedirects(t *testing.T) {
	stores := &mockStores{
		countFn: func(context.Context) (int, error) { return 10, nil },
		listFn: func(context.Context, int, int) ([]domstore.Store, error) {
			t.Fatal("no listing expected past the end")
			return nil, nil
		},
	}
	svc := New(stores, nil, nil)

	req := domdisc.All(99)
	res, err := svc.Discover(context.Background(), &req)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if res.RedirectPage != 3 {
		t.Errorf("redirect = %d, want 3", res.RedirectPage)
	}
	if len(res.Stores) != 0 {
		t.Errorf("stores = %d", len(res.Stores))
	}
}

func TestDiscoverAllEmptyCatalog(t *testing.T) {
	stores := &mockStores{
		countFn: func(context.Context) (int, error) { return 0, nil },
		listFn: func(context.Context, int, int) ([]domstore.Store, error) {
			return nil, nil
		},
	}
	svc := New(stores, nil, nil)

	req := domdisc.All(1)
	res, err := svc.Discover(context.Background(), &req)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if res.TotalPages != 0 || res.RedirectPage != 0 {
		t.Errorf("pages=%d redirect=%d", res.TotalPages, res.RedirectPage)
	}
}

func TestDiscoverTag(t *testing.T) {
	var gotTag string
	stores := &mockStores{
		countByTagFn: func(_ context.Context, tag string) (int, error) {
			gotTag = tag
			return 1, nil
		},
		listByTagFn: func(_ context.Context, tag string, offset, limit int) ([]domstore.Store, error) {
			return []domstore.Store{storeAt(t, "a", 1)}, nil
		},
	}
	svc := New(stores, nil, nil)

	req := domdisc.ByTag("Wifi", 1)
	res, err := svc.Discover(context.Background(), &req)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if gotTag != "Wifi" {
		t.Errorf("tag = %q", gotTag)
	}
	if len(res.Stores) != 1 || res.TotalPages != 1 {
		t.Errorf("stores=%d pages=%d", len(res.Stores), res.TotalPages)
	}
}

func TestDiscoverTextEmptyQuery(t *testing.T) {
	stores := &mockStores{
		searchTextFn: func(context.Context, string, int) ([]domdisc.Scored, error) {
			t.Fatal("no search expected for an empty query")
			return nil, nil
		},
	}
	svc := New(stores, nil, nil)

	req := domdisc.ByText("   ")
	res, err := svc.Discover(context.Background(), &req)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(res.Scored) != 0 || res.TotalCount != 0 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestDiscoverTextTieBreaksOnRecency(t *testing.T) {
	stores := &mockStores{
		searchTextFn: func(_ context.Context, query string, limit int) ([]domdisc.Scored, error) {
			if query != "coffee" || limit != 5 {
				t.Errorf("query=%q limit=%d", query, limit)
			}
			return []domdisc.Scored{
				{Store: storeAt(t, "older", 1), Score: 2},
				{Store: storeAt(t, "newer", 9), Score: 2},
				{Store: storeAt(t, "best", 3), Score: 7},
			}, nil
		},
	}
	svc := New(stores, nil, nil)

	req := domdisc.ByText("coffee")
	res, err := svc.Discover(context.Background(), &req)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(res.Scored) != 3 {
		t.Fatalf("scored = %d", len(res.Scored))
	}
	if res.Scored[0].Store.ID() != "best" {
		t.Errorf("first = %q", res.Scored[0].Store.ID())
	}
	if res.Scored[1].Store.ID() != "newer" || res.Scored[2].Store.ID() != "older" {
		t.Errorf("tie order = %q, %q", res.Scored[1].Store.ID(), res.Scored[2].Store.ID())
	}
}

func TestDiscoverProximity(t *testing.T) {
	stores := &mockStores{
		findNearFn: func(_ context.Context, lat, lng, radius float64, limit int) ([]domdisc.Place, error) {
			if lat != 43.65 || lng != -79.38 {
				t.Errorf("point = %v/%v", lat, lng)
			}
			if radius != 10_000 || limit != 10 {
				t.Errorf("radius=%v limit=%d", radius, limit)
			}
			return []domdisc.Place{{Slug: "near-one"}}, nil
		},
	}
	svc := New(stores, nil, nil)

	req, err := domdisc.ByProximity("43.65", "-79.38")
	if err != nil {
		t.Fatalf("ByProximity: %v", err)
	}
	res, err := svc.Discover(context.Background(), &req)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(res.Places) != 1 || res.Places[0].Slug != "near-one" {
		t.Errorf("places = %+v", res.Places)
	}
}

func TestTopStoresTieBreak(t *testing.T) {
	stores := &mockStores{
		listByIDsFn: func(_ context.Context, ids []string) ([]domstore.Store, error) {
			out := make([]domstore.Store, 0, len(ids))
			created := map[string]int64{"a": 1, "b": 2, "c": 3}
			for _, id := range ids {
				out = append(out, storeAt(t, id, created[id]))
			}
			return out, nil
		},
	}
	ratings := &mockRatings{
		topRatingsFn: func(_ context.Context, limit int) ([]domdisc.Rating, error) {
			if limit != 50 {
				t.Errorf("limit = %d", limit)
			}
			return []domdisc.Rating{
				{StoreID: "a", Average: 4.5, Count: 2},
				{StoreID: "b", Average: 4.5, Count: 7},
				{StoreID: "c", Average: 5, Count: 1},
			}, nil
		},
	}
	svc := New(stores, ratings, nil)

	ranked, err := svc.TopStores(context.Background())
	if err != nil {
		t.Fatalf("TopStores: %v", err)
	}
	if len(ranked) != 3 {
		t.Fatalf("ranked = %d", len(ranked))
	}
	want := []string{"c", "b", "a"}
	for i, id := range want {
		if ranked[i].Store.ID() != id {
			t.Errorf("ranked[%d] = %q, want %q", i, ranked[i].Store.ID(), id)
		}
	}
}

func TestTopStoresCapsAtLimit(t *testing.T) {
	ratings := &mockRatings{
		topRatingsFn: func(context.Context, int) ([]domdisc.Rating, error) {
			out := make([]domdisc.Rating, 15)
			for i := range out {
				out[i] = domdisc.Rating{StoreID: string(rune('a' + i)), Average: 4, Count: 1}
			}
			return out, nil
		},
	}
	stores := &mockStores{
		listByIDsFn: func(_ context.Context, ids []string) ([]domstore.Store, error) {
			out := make([]domstore.Store, 0, len(ids))
			for i, id := range ids {
				out = append(out, storeAt(t, id, int64(i)))
			}
			return out, nil
		},
	}
	svc := New(stores, ratings, nil)

	ranked, err := svc.TopStores(context.Background())
	if err != nil {
		t.Fatalf("TopStores: %v", err)
	}
	if len(ranked) != 10 {
		t.Errorf("ranked = %d, want 10", len(ranked))
	}
}

func TestHeartedSortsAndPaginates(t *testing.T) {
	hearts := &mockHearts{
		heartsFn: func(_ context.Context, userID string) ([]string, error) {
			if userID != "u1" {
				t.Errorf("user = %q", userID)
			}
			return []string{"a", "b", "c", "d", "e"}, nil
		},
	}
	stores := &mockStores{
		listByIDsFn: func(_ context.Context, ids []string) ([]domstore.Store, error) {
			out := make([]domstore.Store, 0, len(ids))
			for i, id := range ids {
				out = append(out, storeAt(t, id, int64(i+1)))
			}
			return out, nil
		},
	}
	svc := New(stores, nil, hearts)

	res, err := svc.Hearted(context.Background(), "u1", 2)
	if err != nil {
		t.Fatalf("Hearted: %v", err)
	}
	if res.TotalCount != 5 || res.TotalPages != 2 {
		t.Errorf("total=%d pages=%d", res.TotalCount, res.TotalPages)
	}
	if len(res.Stores) != 1 {
		t.Fatalf("stores = %d", len(res.Stores))
	}
	// Newest first: page 2 holds the single oldest store.
	if res.Stores[0].ID() != "a" {
		t.Errorf("store = %q", res.Stores[0].ID())
	}
}

func TestHeartedRequiresUser(t *testing.T) {
	svc := New(&mockStores{}, nil, &mockHearts{})
	_, err := svc.Hearted(context.Background(), "", 1)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
