package store

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"time"

	domstore "github.com/kailas-cloud/storedex/internal/domain/store"
	"github.com/kailas-cloud/storedex/internal/domain/geo"
)

// Hash field names. __geo carries the ECEF unit vector for KNN proximity
// search and is never returned to clients.
const (
	fieldName        = "name"
	fieldSlug        = "slug"
	fieldDescription = "description"
	fieldTags        = "tags"
	fieldLng         = "lng"
	fieldLat         = "lat"
	fieldAddress     = "address"
	fieldPhoto       = "photo"
	fieldAuthor      = "author"
	fieldCreated     = "created"
	fieldGeo         = "__geo"
)

const tagSeparator = ","

// buildHashFields converts a domain Store into a flat map[string]string for HSET.
func buildHashFields(st *domstore.Store) map[string]string {
	m := map[string]string{
		fieldName:        st.Name(),
		fieldSlug:        st.Slug(),
		fieldDescription: st.Description(),
		fieldPhoto:       st.Photo(),
		fieldAuthor:      st.Author(),
		fieldCreated:     strconv.FormatInt(st.Created().UnixNano(), 10),
	}
	if tags := st.Tags(); len(tags) > 0 {
		m[fieldTags] = strings.Join(tags, tagSeparator)
	}
	if st.HasLocation() {
		loc := st.Location()
		m[fieldLng] = strconv.FormatFloat(loc.Lng(), 'f', -1, 64)
		m[fieldLat] = strconv.FormatFloat(loc.Lat(), 'f', -1, 64)
		m[fieldAddress] = loc.Address()
		m[fieldGeo] = vectorToBytes(geo.ToVector(loc.Lat(), loc.Lng()))
	}
	return m
}

// parseHashFields converts a flat hash map back into a domain Store.
func parseHashFields(id string, m map[string]string) domstore.Store {
	var tags []string
	if raw := m[fieldTags]; raw != "" {
		tags = strings.Split(raw, tagSeparator)
	}

	var loc *domstore.Location
	if _, ok := m[fieldLng]; ok {
		lng, errLng := strconv.ParseFloat(m[fieldLng], 64)
		lat, errLat := strconv.ParseFloat(m[fieldLat], 64)
		if errLng == nil && errLat == nil {
			if l, err := domstore.NewLocation(lng, lat, m[fieldAddress]); err == nil {
				loc = &l
			}
		}
	}

	created := time.Time{}
	if ns, err := strconv.ParseInt(m[fieldCreated], 10, 64); err == nil {
		created = time.Unix(0, ns).UTC()
	}

	return domstore.Reconstruct(
		id, m[fieldName], m[fieldSlug], m[fieldDescription],
		tags, loc, m[fieldPhoto], m[fieldAuthor], created,
	)
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
