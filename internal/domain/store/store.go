// Package store holds the store aggregate: the entity the discovery engine
// searches and ranks.
package store

import (
	"strings"
	"time"

	"github.com/kailas-cloud/storedex/internal/domain"
	"github.com/kailas-cloud/storedex/internal/domain/geo"
)

// MaxNameLen bounds the store name length.
const MaxNameLen = 256

// Location is a geospatial point plus a human-readable address.
type Location struct {
	lng     float64
	lat     float64
	address string
}

// NewLocation validates and creates a Location.
func NewLocation(lng, lat float64, address string) (Location, error) {
	if !geo.ValidCoordinates(lat, lng) {
		return Location{}, domain.NewValidation("location", "coordinates out of range")
	}
	return Location{lng: lng, lat: lat, address: address}, nil
}

// Lng returns the longitude in degrees.
func (l Location) Lng() float64 { return l.lng }

// Lat returns the latitude in degrees.
func (l Location) Lat() float64 { return l.lat }

// Address returns the human-readable address.
func (l Location) Address() string { return l.address }

// Store is the store aggregate (immutable value object).
type Store struct {
	id          string
	name        string
	slug        string
	description string
	tags        []string
	location    Location
	hasLocation bool
	photo       string
	author      string
	created     time.Time
}

// New validates and creates a Store. The slug is assigned separately by the
// caller once uniqueness has been established. loc may be nil: a store
// without a location is valid but never returned by proximity search.
func New(id, name, description string, tags []string, loc *Location, photo, author string, created time.Time) (Store, error) {
	name = strings.TrimSpace(name)
	if id == "" {
		return Store{}, domain.NewValidation("id", "is required")
	}
	if name == "" {
		return Store{}, domain.NewValidation("name", "is required")
	}
	if len(name) > MaxNameLen {
		return Store{}, domain.NewValidation("name", "too long")
	}
	if author == "" {
		return Store{}, domain.NewValidation("author", "is required")
	}

	normalized, err := normalizeTags(tags)
	if err != nil {
		return Store{}, err
	}

	s := Store{
		id:          id,
		name:        name,
		description: description,
		tags:        normalized,
		photo:       photo,
		author:      author,
		created:     created,
	}
	if loc != nil {
		s.location = *loc
		s.hasLocation = true
	}
	return s, nil
}

// Reconstruct creates a Store without validation (storage hydration).
func Reconstruct(
	id, name, slug, description string, tags []string,
	loc *Location, photo, author string, created time.Time,
) Store {
	s := Store{
		id: id, name: name, slug: slug, description: description,
		tags: tags, photo: photo, author: author, created: created,
	}
	if loc != nil {
		s.location = *loc
		s.hasLocation = true
	}
	return s
}

// ID returns the store identifier.
func (s *Store) ID() string { return s.id }

// Name returns the store name.
func (s *Store) Name() string { return s.name }

// Slug returns the URL-safe identifier derived from the name.
func (s *Store) Slug() string { return s.slug }

// Description returns the free-text description.
func (s *Store) Description() string { return s.description }

// Tags returns the tag labels.
func (s *Store) Tags() []string { return s.tags }

// Location returns the geospatial point and address.
func (s *Store) Location() Location { return s.location }

// HasLocation reports whether a location was ever set.
func (s *Store) HasLocation() bool { return s.hasLocation }

// Photo returns the stored image asset reference, empty for "no photo".
func (s *Store) Photo() string { return s.photo }

// Author returns the identity that created the store.
func (s *Store) Author() string { return s.author }

// Created returns the creation timestamp.
func (s *Store) Created() time.Time { return s.created }

// OwnedBy reports whether the given identity created the store.
func (s *Store) OwnedBy(userID string) bool { return userID != "" && s.author == userID }

// WithSlug returns a copy with the slug set.
func (s Store) WithSlug(slug string) Store {
	s.slug = slug
	return s
}

// Update carries the mutable fields of an update request. Nil pointers leave
// the field untouched; id, slug, author, and created are never reassigned here.
type Update struct {
	Name        *string
	Description *string
	Tags        *[]string
	Location    *Location
	Photo       *string
}

// Renames reports whether the update changes the store name, which forces
// slug re-derivation.
func (u Update) Renames(current *Store) bool {
	return u.Name != nil && strings.TrimSpace(*u.Name) != current.Name()
}

// Apply returns a copy with the update applied, re-validating touched fields.
func (s Store) Apply(u Update) (Store, error) {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return Store{}, domain.NewValidation("name", "is required")
		}
		if len(name) > MaxNameLen {
			return Store{}, domain.NewValidation("name", "too long")
		}
		s.name = name
	}
	if u.Description != nil {
		s.description = *u.Description
	}
	if u.Tags != nil {
		normalized, err := normalizeTags(*u.Tags)
		if err != nil {
			return Store{}, err
		}
		s.tags = normalized
	}
	if u.Location != nil {
		s.location = *u.Location
		s.hasLocation = true
	}
	if u.Photo != nil {
		s.photo = *u.Photo
	}
	return s, nil
}

// normalizeTags trims, drops empties, and deduplicates preserving order.
// Commas are rejected: tags persist as a comma-separated value, so a comma
// inside a tag would silently split it into two on the way back.
func normalizeTags(tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		if strings.Contains(t, ",") {
			return nil, domain.NewValidation("tags", "must not contain commas")
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
