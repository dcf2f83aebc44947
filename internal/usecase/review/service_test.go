package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/storedex/internal/domain"
	domreview "github.com/kailas-cloud/storedex/internal/domain/review"
	domstore "github.com/kailas-cloud/storedex/internal/domain/store"
)

type mockRepo struct {
	addFn         func(ctx context.Context, rv *domreview.Review) error
	listByStoreFn func(ctx context.Context, storeID string, limit int) ([]domreview.Review, error)
}

func (m *mockRepo) Add(ctx context.Context, rv *domreview.Review) error {
	return m.addFn(ctx, rv)
}

func (m *mockRepo) ListByStore(ctx context.Context, storeID string, limit int) ([]domreview.Review, error) {
	return m.listByStoreFn(ctx, storeID, limit)
}

type mockStores struct {
	findByIDFn func(ctx context.Context, id string) (domstore.Store, error)
}

func (m *mockStores) FindByID(ctx context.Context, id string) (domstore.Store, error) {
	return m.findByIDFn(ctx, id)
}

func knownStore(t *testing.T, id string) domstore.Store {
	t.Helper()
	st, err := domstore.New(id, "Store", "", nil, nil, "", "owner", time.Unix(0, 1))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return st
}

func newTestService(repo *mockRepo, stores *mockStores) *Service {
	svc := New(repo, stores)
	svc.now = func() time.Time { return time.Unix(0, 1700000000000000000) }
	svc.newID = func() string { return "r1" }
	return svc
}

func TestAdd(t *testing.T) {
	var added *domreview.Review
	repo := &mockRepo{
		addFn: func(_ context.Context, rv *domreview.Review) error {
			added = rv
			return nil
		},
	}
	stores := &mockStores{
		findByIDFn: func(_ context.Context, id string) (domstore.Store, error) {
			return knownStore(t, id), nil
		},
	}

	rv, err := newTestService(repo, stores).Add(context.Background(), "u1", "s1", "great beans", 4)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if rv.ID() != "r1" || rv.Rating() != 4 {
		t.Errorf("review = %q rating %d", rv.ID(), rv.Rating())
	}
	if added == nil || added.StoreID() != "s1" {
		t.Errorf("persisted = %+v", added)
	}
}

func TestAddUnknownStore(t *testing.T) {
	stores := &mockStores{
		findByIDFn: func(context.Context, string) (domstore.Store, error) {
			return domstore.Store{}, domain.ErrStoreNotFound
		},
	}

	_, err := newTestService(&mockRepo{}, stores).Add(context.Background(), "u1", "missing", "x", 4)
	if !errors.Is(err, domain.ErrStoreNotFound) {
		t.Fatalf("expected ErrStoreNotFound, got %v", err)
	}
}

func TestAddInvalidRating(t *testing.T) {
	stores := &mockStores{
		findByIDFn: func(_ context.Context, id string) (domstore.Store, error) {
			return knownStore(t, id), nil
		},
	}

	_, err := newTestService(&mockRepo{}, stores).Add(context.Background(), "u1", "s1", "x", 6)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddRequiresUser(t *testing.T) {
	_, err := newTestService(&mockRepo{}, &mockStores{}).Add(context.Background(), "", "s1", "x", 4)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestListByStore(t *testing.T) {
	repo := &mockRepo{
		listByStoreFn: func(_ context.Context, storeID string, limit int) ([]domreview.Review, error) {
			if storeID != "s1" || limit != listLimit {
				t.Errorf("args = %q/%d", storeID, limit)
			}
			return []domreview.Review{
				domreview.Reconstruct("r1", "s1", "u1", "x", 4, time.Unix(0, 1)),
			}, nil
		},
	}
	stores := &mockStores{
		findByIDFn: func(_ context.Context, id string) (domstore.Store, error) {
			return knownStore(t, id), nil
		},
	}

	reviews, err := newTestService(repo, stores).ListByStore(context.Background(), "s1")
	if err != nil {
		t.Fatalf("ListByStore: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("reviews = %d", len(reviews))
	}
}
