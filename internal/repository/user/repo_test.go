package user

import (
	"context"
	"errors"
	"testing"
)

type mockStore struct {
	setToggleFn func(ctx context.Context, key, member string) (bool, error)
	sMembersFn  func(ctx context.Context, key string) ([]string, error)
	sIsMemberFn func(ctx context.Context, key, member string) (bool, error)
}

func (m *mockStore) SetToggle(ctx context.Context, key, member string) (bool, error) {
	return m.setToggleFn(ctx, key, member)
}

func (m *mockStore) SMembers(ctx context.Context, key string) ([]string, error) {
	return m.sMembersFn(ctx, key)
}

func (m *mockStore) SIsMember(ctx context.Context, key, member string) (bool, error) {
	return m.sIsMemberFn(ctx, key, member)
}

func TestToggleHeart(t *testing.T) {
	var gotKey, gotMember string
	repo := New(&mockStore{
		setToggleFn: func(_ context.Context, key, member string) (bool, error) {
			gotKey, gotMember = key, member
			return true, nil
		},
	})

	added, err := repo.ToggleHeart(context.Background(), "u1", "s1")
	if err != nil {
		t.Fatalf("ToggleHeart: %v", err)
	}
	if !added {
		t.Error("expected added=true")
	}
	if gotKey != "storedex:user:u1:hearts" {
		t.Errorf("key = %q", gotKey)
	}
	if gotMember != "s1" {
		t.Errorf("member = %q", gotMember)
	}
}

func TestToggleHeartError(t *testing.T) {
	wantErr := errors.New("boom")
	repo := New(&mockStore{
		setToggleFn: func(context.Context, string, string) (bool, error) {
			return false, wantErr
		},
	})

	_, err := repo.ToggleHeart(context.Background(), "u1", "s1")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestHearts(t *testing.T) {
	repo := New(&mockStore{
		sMembersFn: func(_ context.Context, key string) ([]string, error) {
			if key != "storedex:user:u1:hearts" {
				t.Errorf("key = %q", key)
			}
			return []string{"s1", "s2"}, nil
		},
	})

	ids, err := repo.Hearts(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Hearts: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(ids))
	}
}

func TestHasHearted(t *testing.T) {
	repo := New(&mockStore{
		sIsMemberFn: func(_ context.Context, key, member string) (bool, error) {
			return member == "s1", nil
		},
	})

	ok, err := repo.HasHearted(context.Background(), "u1", "s1")
	if err != nil {
		t.Fatalf("HasHearted: %v", err)
	}
	if !ok {
		t.Error("expected hearted")
	}
}
