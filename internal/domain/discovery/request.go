// Package discovery defines the discovery request union and the page window
// math used by the ranking engine.
package discovery

import (
	"strconv"

	"github.com/kailas-cloud/storedex/internal/domain"
	"github.com/kailas-cloud/storedex/internal/domain/geo"
)

// Mode selects the discovery query variant.
type Mode int

const (
	// ModeAll lists every store.
	ModeAll Mode = iota
	// ModeTag lists stores carrying a tag (or any tag when the tag is empty).
	ModeTag
	// ModeText ranks stores by free-text relevance.
	ModeText
	// ModeProximity lists stores near a point, nearest first.
	ModeProximity
	// ModePopularity ranks stores by average review rating.
	ModePopularity
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeTag:
		return "tag"
	case ModeText:
		return "text"
	case ModeProximity:
		return "proximity"
	case ModePopularity:
		return "popularity"
	}
	return "unknown"
}

// Request is a validated discovery request (tagged union, one variant per mode).
type Request struct {
	mode Mode
	tag  string
	text string
	lat  float64
	lng  float64
	page int
}

// All lists every store, paginated.
func All(page int) Request {
	return Request{mode: ModeAll, page: clampPage(page)}
}

// ByTag lists stores carrying tag, paginated. An empty tag matches any store
// that has at least one tag.
func ByTag(tag string, page int) Request {
	return Request{mode: ModeTag, tag: tag, page: clampPage(page)}
}

// ByText ranks stores by free-text relevance. Not paginated.
func ByText(query string) Request {
	return Request{mode: ModeText, text: query, page: 1}
}

// ByProximity lists stores near (lat, lng), nearest first. The raw values
// come straight off the wire and must parse as finite in-range coordinates.
func ByProximity(latRaw, lngRaw string) (Request, error) {
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return Request{}, domain.NewValidation("lat", "must be a number")
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return Request{}, domain.NewValidation("lng", "must be a number")
	}
	if !geo.ValidCoordinates(lat, lng) {
		return Request{}, domain.NewValidation("lat,lng", "coordinates out of range")
	}
	return Request{mode: ModeProximity, lat: lat, lng: lng, page: 1}, nil
}

// ByPopularity ranks stores by average review rating. Not paginated.
func ByPopularity() Request {
	return Request{mode: ModePopularity, page: 1}
}

// Mode returns the request variant.
func (r *Request) Mode() Mode { return r.mode }

// Tag returns the tag for ModeTag requests.
func (r *Request) Tag() string { return r.tag }

// Text returns the query for ModeText requests.
func (r *Request) Text() string { return r.text }

// Lat returns the latitude for ModeProximity requests.
func (r *Request) Lat() float64 { return r.lat }

// Lng returns the longitude for ModeProximity requests.
func (r *Request) Lng() float64 { return r.lng }

// Page returns the 1-based page index.
func (r *Request) Page() int { return r.page }

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
