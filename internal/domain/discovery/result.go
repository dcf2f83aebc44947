package discovery

import "github.com/kailas-cloud/storedex/internal/domain/store"

// Scored pairs a store with its text relevance score.
type Scored struct {
	Store store.Store
	Score float64
}

// Place is the reduced projection proximity search returns: no author, no
// tags, just what a map pin needs.
type Place struct {
	Slug           string
	Name           string
	Description    string
	Location       store.Location
	Photo          string
	DistanceMeters float64
}

// TagCount pairs a tag with the number of stores using it.
type TagCount struct {
	Tag   string
	Count int
}

// Rating is the aggregated review standing of a single store.
type Rating struct {
	StoreID string
	Average float64
	Count   int
}

// Ranked pairs a store with its review-derived popularity signal.
type Ranked struct {
	Store         store.Store
	AverageRating float64
	ReviewCount   int
}
