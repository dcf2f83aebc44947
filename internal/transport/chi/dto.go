package chi

import (
	"time"

	domdisc "github.com/kailas-cloud/storedex/internal/domain/discovery"
	domreview "github.com/kailas-cloud/storedex/internal/domain/review"
	domstore "github.com/kailas-cloud/storedex/internal/domain/store"
	domuser "github.com/kailas-cloud/storedex/internal/domain/user"
	discoveryuc "github.com/kailas-cloud/storedex/internal/usecase/discovery"
	storeuc "github.com/kailas-cloud/storedex/internal/usecase/store"
)

// Error codes returned to clients.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeUnauthorized     = "unauthorized"
	codeNotOwner         = "not_owner"
	codeStoreNotFound    = "store_not_found"
	codeUserNotFound     = "user_not_found"
	codeInternalError    = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type locationPayload struct {
	Lng     float64 `json:"lng" validate:"min=-180,max=180"`
	Lat     float64 `json:"lat" validate:"min=-90,max=90"`
	Address string  `json:"address" validate:"max=512"`
}

type createStoreRequest struct {
	Name        string           `json:"name" validate:"required,max=256"`
	Description string           `json:"description" validate:"max=4096"`
	Tags        []string         `json:"tags" validate:"max=32,dive,min=1,max=64,excludesall=0x2C"`
	Location    *locationPayload `json:"location"`
	Photo       string           `json:"photo" validate:"max=512"`
}

type updateStoreRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=256"`
	Description *string          `json:"description" validate:"omitempty,max=4096"`
	Tags        *[]string        `json:"tags" validate:"omitempty,max=32,dive,min=1,max=64,excludesall=0x2C"`
	Location    *locationPayload `json:"location"`
	Photo       *string          `json:"photo" validate:"omitempty,max=512"`
}

type addReviewRequest struct {
	Text   string `json:"text" validate:"max=4096"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
}

type locationResponse struct {
	Lng     float64 `json:"lng"`
	Lat     float64 `json:"lat"`
	Address string  `json:"address,omitempty"`
}

type storeResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Location    *locationResponse `json:"location,omitempty"`
	Photo       string            `json:"photo,omitempty"`
	Author      string            `json:"author"`
	CreatedAt   time.Time         `json:"created_at"`
}

type scoredStoreResponse struct {
	storeResponse
	Score float64 `json:"score"`
}

type placeResponse struct {
	Slug           string            `json:"slug"`
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	Location       *locationResponse `json:"location,omitempty"`
	Photo          string            `json:"photo,omitempty"`
	DistanceMeters float64           `json:"distance_meters"`
}

type rankedStoreResponse struct {
	storeResponse
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

type discoverResponse struct {
	Items        any `json:"items"`
	Page         int `json:"page"`
	TotalPages   int `json:"total_pages"`
	TotalCount   int `json:"total_count"`
	RedirectPage int `json:"redirect_page,omitempty"`
}

type tagCountResponse struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type heartsResponse struct {
	UserID string   `json:"user_id"`
	Hearts []string `json:"hearts"`
}

type reviewResponse struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	Author    string    `json:"author"`
	Text      string    `json:"text,omitempty"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

func locationFromPayload(p *locationPayload) (*domstore.Location, error) {
	if p == nil {
		return nil, nil
	}
	loc, err := domstore.NewLocation(p.Lng, p.Lat, p.Address)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func createInputFromRequest(req *createStoreRequest) (storeuc.Input, error) {
	loc, err := locationFromPayload(req.Location)
	if err != nil {
		return storeuc.Input{}, err
	}
	return storeuc.Input{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Location:    loc,
		Photo:       req.Photo,
	}, nil
}

func updateFromRequest(req *updateStoreRequest) (domstore.Update, error) {
	loc, err := locationFromPayload(req.Location)
	if err != nil {
		return domstore.Update{}, err
	}
	return domstore.Update{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Location:    loc,
		Photo:       req.Photo,
	}, nil
}

func storeToResponse(st *domstore.Store) storeResponse {
	resp := storeResponse{
		ID:          st.ID(),
		Name:        st.Name(),
		Slug:        st.Slug(),
		Description: st.Description(),
		Tags:        st.Tags(),
		Photo:       st.Photo(),
		Author:      st.Author(),
		CreatedAt:   st.Created().UTC(),
	}
	if st.HasLocation() {
		loc := st.Location()
		resp.Location = &locationResponse{
			Lng:     loc.Lng(),
			Lat:     loc.Lat(),
			Address: loc.Address(),
		}
	}
	return resp
}

func discoverToResponse(res *discoveryuc.Result) discoverResponse {
	out := discoverResponse{
		Page:         res.Page,
		TotalPages:   res.TotalPages,
		TotalCount:   res.TotalCount,
		RedirectPage: res.RedirectPage,
	}

	switch res.Mode {
	case domdisc.ModeText:
		items := make([]scoredStoreResponse, len(res.Scored))
		for i := range res.Scored {
			items[i] = scoredStoreResponse{
				storeResponse: storeToResponse(&res.Scored[i].Store),
				Score:         res.Scored[i].Score,
			}
		}
		out.Items = items
	case domdisc.ModeProximity:
		items := make([]placeResponse, len(res.Places))
		for i := range res.Places {
			items[i] = placeToResponse(&res.Places[i])
		}
		out.Items = items
	case domdisc.ModePopularity:
		items := make([]rankedStoreResponse, len(res.Ranked))
		for i := range res.Ranked {
			items[i] = rankedToResponse(&res.Ranked[i])
		}
		out.Items = items
	default:
		items := make([]storeResponse, len(res.Stores))
		for i := range res.Stores {
			items[i] = storeToResponse(&res.Stores[i])
		}
		out.Items = items
	}
	return out
}

func placeToResponse(p *domdisc.Place) placeResponse {
	resp := placeResponse{
		Slug:           p.Slug,
		Name:           p.Name,
		Description:    p.Description,
		Photo:          p.Photo,
		DistanceMeters: p.DistanceMeters,
	}
	if p.Location != (domstore.Location{}) {
		resp.Location = &locationResponse{
			Lng:     p.Location.Lng(),
			Lat:     p.Location.Lat(),
			Address: p.Location.Address(),
		}
	}
	return resp
}

func rankedToResponse(r *domdisc.Ranked) rankedStoreResponse {
	return rankedStoreResponse{
		storeResponse: storeToResponse(&r.Store),
		AverageRating: r.AverageRating,
		ReviewCount:   r.ReviewCount,
	}
}

func heartsToResponse(u *domuser.User) heartsResponse {
	hearts := u.Hearts()
	if hearts == nil {
		hearts = []string{}
	}
	return heartsResponse{UserID: u.ID(), Hearts: hearts}
}

func reviewToResponse(rv *domreview.Review) reviewResponse {
	return reviewResponse{
		ID:        rv.ID(),
		StoreID:   rv.StoreID(),
		Author:    rv.Author(),
		Text:      rv.Text(),
		Rating:    rv.Rating(),
		CreatedAt: rv.Created().UTC(),
	}
}
