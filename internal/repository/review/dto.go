package review

import (
	"strconv"
	"time"

	domreview "github.com/kailas-cloud/storedex/internal/domain/review"
)

const (
	fieldStore   = "store"
	fieldAuthor  = "author"
	fieldText    = "text"
	fieldRating  = "rating"
	fieldCreated = "created"
)

func buildHashFields(rv *domreview.Review) map[string]string {
	return map[string]string{
		fieldStore:   rv.StoreID(),
		fieldAuthor:  rv.Author(),
		fieldText:    rv.Text(),
		fieldRating:  strconv.Itoa(rv.Rating()),
		fieldCreated: strconv.FormatInt(rv.Created().UnixNano(), 10),
	}
}

func parseHashFields(id string, m map[string]string) domreview.Review {
	rating, _ := strconv.Atoi(m[fieldRating])
	var created time.Time
	if ns, err := strconv.ParseInt(m[fieldCreated], 10, 64); err == nil {
		created = time.Unix(0, ns)
	}
	return domreview.Reconstruct(id, m[fieldStore], m[fieldAuthor], m[fieldText], rating, created)
}
