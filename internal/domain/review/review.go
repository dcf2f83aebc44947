// Package review holds the review entity feeding the popularity ranking.
package review

import (
	"time"

	"github.com/kailas-cloud/storedex/internal/domain"
)

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a rated comment left on a store (immutable value object).
type Review struct {
	id      string
	store   string
	author  string
	text    string
	rating  int
	created time.Time
}

// New validates and creates a Review.
func New(id, storeID, authorID, text string, rating int, created time.Time) (Review, error) {
	if id == "" {
		return Review{}, domain.NewValidation("id", "is required")
	}
	if storeID == "" {
		return Review{}, domain.NewValidation("store", "is required")
	}
	if authorID == "" {
		return Review{}, domain.NewValidation("author", "is required")
	}
	if rating < MinRating || rating > MaxRating {
		return Review{}, domain.NewValidation("rating", "must be between 1 and 5")
	}
	return Review{id: id, store: storeID, author: authorID, text: text, rating: rating, created: created}, nil
}

// Reconstruct creates a Review without validation (storage hydration).
func Reconstruct(id, storeID, authorID, text string, rating int, created time.Time) Review {
	return Review{id: id, store: storeID, author: authorID, text: text, rating: rating, created: created}
}

// ID returns the review identifier.
func (r *Review) ID() string { return r.id }

// StoreID returns the reviewed store's identifier.
func (r *Review) StoreID() string { return r.store }

// Author returns the identity that wrote the review.
func (r *Review) Author() string { return r.author }

// Text returns the review body.
func (r *Review) Text() string { return r.text }

// Rating returns the numeric rating.
func (r *Review) Rating() int { return r.rating }

// Created returns the creation timestamp.
func (r *Review) Created() time.Time { return r.created }
