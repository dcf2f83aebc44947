// Package store implements the store lifecycle: create, update, lookup.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/storedex/internal/domain"
	domstore "github.com/kailas-cloud/storedex/internal/domain/store"
)

// slugSuffixLimit bounds the suffix search when a name collides repeatedly.
const slugSuffixLimit = 1000

// Input carries the fields of a create request.
type Input struct {
	Name        string
	Description string
	Tags        []string
	Location    *domstore.Location
	Photo       string
}

// Service handles store creation, updates, and lookups.
type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

// New creates a store service.
func New(repo Repository) *Service {
	return &Service{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Create validates the input, derives a unique slug from the name, and
// persists the store owned by userID.
func (s *Service) Create(ctx context.Context, userID string, in Input) (domstore.Store, error) {
	if userID == "" {
		return domstore.Store{}, domain.ErrUnauthenticated
	}

	st, err := domstore.New(
		s.newID(), in.Name, in.Description, in.Tags,
		in.Location, in.Photo, userID, s.now().UTC(),
	)
	if err != nil {
		return domstore.Store{}, err
	}

	return s.claimAndCreate(ctx, st)
}

// Update applies the changes to an existing store. Only the owner may update;
// a rename re-derives the slug, keeping it unique.
func (s *Service) Update(ctx context.Context, userID, storeID string, upd domstore.Update) (domstore.Store, error) {
	if userID == "" {
		return domstore.Store{}, domain.ErrUnauthenticated
	}

	current, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		return domstore.Store{}, err
	}
	if !current.OwnedBy(userID) {
		return domstore.Store{}, domain.ErrNotOwner
	}

	renamed := upd.Renames(&current)
	next, err := current.Apply(upd)
	if err != nil {
		return domstore.Store{}, err
	}

	if !renamed {
		if err := s.repo.Update(ctx, &next, current.Slug()); err != nil {
			return domstore.Store{}, err
		}
		return next, nil
	}
	return s.claimAndUpdate(ctx, next, current.Slug())
}

// GetBySlug returns the store behind a slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (domstore.Store, error) {
	return s.repo.FindBySlug(ctx, slug)
}

// claimAndCreate walks slug candidates (base, base-2, base-3, ...) until a
// create wins. A claim lost between the existence check and the write is not
// an error: the walk continues on the next suffix.
func (s *Service) claimAndCreate(ctx context.Context, st domstore.Store) (domstore.Store, error) {
	base := slugBase(st.Name())
	candidate := base
	for n := 2; n <= slugSuffixLimit; n++ {
		taken, err := s.repo.SlugExists(ctx, candidate, st.ID())
		if err != nil {
			return domstore.Store{}, err
		}
		if !taken {
			withSlug := st.WithSlug(candidate)
			err = s.repo.Create(ctx, &withSlug)
			if err == nil {
				return withSlug, nil
			}
			if !errors.Is(err, domain.ErrSlugTaken) {
				return domstore.Store{}, err
			}
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return domstore.Store{}, fmt.Errorf("no free slug for %q", base)
}

func (s *Service) claimAndUpdate(ctx context.Context, st domstore.Store, previousSlug string) (domstore.Store, error) {
	base := slugBase(st.Name())
	candidate := base
	for n := 2; n <= slugSuffixLimit; n++ {
		taken, err := s.repo.SlugExists(ctx, candidate, st.ID())
		if err != nil {
			return domstore.Store{}, err
		}
		if !taken {
			withSlug := st.WithSlug(candidate)
			err = s.repo.Update(ctx, &withSlug, previousSlug)
			if err == nil {
				return withSlug, nil
			}
			if !errors.Is(err, domain.ErrSlugTaken) {
				return domstore.Store{}, err
			}
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return domstore.Store{}, fmt.Errorf("no free slug for %q", base)
}

func slugBase(name string) string {
	base := domstore.Slugify(name)
	if base == "" {
		base = "store"
	}
	return base
}
