// Package discovery implements the discovery engine: paginated listing, tag
// filtering, text relevance, proximity, and review-driven popularity.
package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/storedex/internal/domain"
	domdisc "github.com/kailas-cloud/storedex/internal/domain/discovery"
	domstore "github.com/kailas-cloud/storedex/internal/domain/store"
)

// ratingOverFetch widens the aggregate window so the full tie-break can be
// applied before cutting to the ranking limit.
const ratingOverFetch = 5

// Result is the outcome of one discovery query. Exactly one of the result
// slices is populated, matching the request mode.
type Result struct {
	Mode   domdisc.Mode
	Stores []domstore.Store
	Scored []domdisc.Scored
	Places []domdisc.Place
	Ranked []domdisc.Ranked

	Page       int
	TotalPages int
	TotalCount int
	// RedirectPage is the last valid page when the requested page lies past
	// the end of the set; zero otherwise.
	RedirectPage int
}

// Service answers discovery queries over the store catalog.
type Service struct {
	stores  StoreReader
	ratings RatingReader
	hearts  HeartsReader
}

// New creates a discovery service.
func New(stores StoreReader, ratings RatingReader, hearts HeartsReader) *Service {
	return &Service{stores: stores, ratings: ratings, hearts: hearts}
}

// Discover runs the query variant selected by the request mode.
func (s *Service) Discover(ctx context.Context, req *domdisc.Request) (Result, error) {
	switch req.Mode() {
	case domdisc.ModeAll:
		return s.discoverAll(ctx, req)
	case domdisc.ModeTag:
		return s.discoverTag(ctx, req)
	case domdisc.ModeText:
		return s.discoverText(ctx, req)
	case domdisc.ModeProximity:
		return s.discoverProximity(ctx, req)
	case domdisc.ModePopularity:
		return s.discoverPopularity(ctx)
	default:
		return Result{}, fmt.Errorf("unsupported discovery mode: %s", req.Mode())
	}
}

// ListTags returns the tag vocabulary with per-tag counts.
func (s *Service) ListTags(ctx context.Context) ([]domdisc.TagCount, error) {
	return s.stores.TagCounts(ctx)
}

// TopStores ranks reviewed stores by average rating, breaking ties by review
// count and then recency. Stores without reviews never appear.
func (s *Service) TopStores(ctx context.Context) ([]domdisc.Ranked, error) {
	ratings, err := s.ratings.TopRatings(ctx, domdisc.TopLimit*ratingOverFetch)
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return nil, nil
	}

	ids := make([]string, len(ratings))
	byID := make(map[string]domdisc.Rating, len(ratings))
	for i, rt := range ratings {
		ids[i] = rt.StoreID
		byID[rt.StoreID] = rt
	}

	stores, err := s.stores.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	ranked := make([]domdisc.Ranked, 0, len(stores))
	for _, st := range stores {
		rt := byID[st.ID()]
		ranked = append(ranked, domdisc.Ranked{
			Store:         st,
			AverageRating: rt.Average,
			ReviewCount:   rt.Count,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].AverageRating != ranked[j].AverageRating {
			return ranked[i].AverageRating > ranked[j].AverageRating
		}
		if ranked[i].ReviewCount != ranked[j].ReviewCount {
			return ranked[i].ReviewCount > ranked[j].ReviewCount
		}
		return ranked[i].Store.Created().After(ranked[j].Store.Created())
	})

	if len(ranked) > domdisc.TopLimit {
		ranked = ranked[:domdisc.TopLimit]
	}
	return ranked, nil
}

// Hearted returns the page of stores the user has favorited, newest first.
func (s *Service) Hearted(ctx context.Context, userID string, page int) (Result, error) {
	if userID == "" {
		return Result{}, domain.ErrUnauthenticated
	}

	ids, err := s.hearts.Hearts(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	stores, err := s.stores.ListByIDs(ctx, ids)
	if err != nil {
		return Result{}, err
	}
	sort.Slice(stores, func(i, j int) bool {
		return stores[i].Created().After(stores[j].Created())
	})

	window := domdisc.NewWindow(page)
	total := len(stores)
	res := Result{
		Mode:       domdisc.ModeAll,
		Page:       window.Page,
		TotalCount: total,
		TotalPages: domdisc.TotalPages(total),
	}
	if window.PastEnd(total) {
		res.RedirectPage = res.TotalPages
		return res, nil
	}

	end := window.Skip + domdisc.PageSize
	if end > total {
		end = total
	}
	if window.Skip < total {
		res.Stores = stores[window.Skip:end]
	}
	return res, nil
}

func (s *Service) discoverAll(ctx context.Context, req *domdisc.Request) (Result, error) {
	window := domdisc.NewWindow(req.Page())
	count, err := s.stores.Count(ctx)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Mode:       domdisc.ModeAll,
		Page:       window.Page,
		TotalCount: count,
		TotalPages: domdisc.TotalPages(count),
	}
	if window.PastEnd(count) {
		res.RedirectPage = res.TotalPages
		return res, nil
	}

	res.Stores, err = s.stores.List(ctx, window.Skip, domdisc.PageSize)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (s *Service) discoverTag(ctx context.Context, req *domdisc.Request) (Result, error) {
	window := domdisc.NewWindow(req.Page())
	count, err := s.stores.CountByTag(ctx, req.Tag())
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Mode:       domdisc.ModeTag,
		Page:       window.Page,
		TotalCount: count,
		TotalPages: domdisc.TotalPages(count),
	}
	if window.PastEnd(count) {
		res.RedirectPage = res.TotalPages
		return res, nil
	}

	res.Stores, err = s.stores.ListByTag(ctx, req.Tag(), window.Skip, domdisc.PageSize)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (s *Service) discoverText(ctx context.Context, req *domdisc.Request) (Result, error) {
	res := Result{Mode: domdisc.ModeText, Page: 1}
	query := strings.TrimSpace(req.Text())
	if query == "" {
		return res, nil
	}

	scored, err := s.stores.SearchText(ctx, query, domdisc.TextLimit)
	if err != nil {
		return Result{}, err
	}

	// Backend order is authoritative on score; replay the tie-break on
	// recency so equal-relevance hits come back newest first.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Store.Created().After(scored[j].Store.Created())
	})

	res.Scored = scored
	res.TotalCount = len(scored)
	return res, nil
}

func (s *Service) discoverProximity(ctx context.Context, req *domdisc.Request) (Result, error) {
	places, err := s.stores.FindNear(
		ctx, req.Lat(), req.Lng(),
		domdisc.NearRadiusMeters, domdisc.NearLimit,
	)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Mode:       domdisc.ModeProximity,
		Page:       1,
		Places:     places,
		TotalCount: len(places),
	}, nil
}

func (s *Service) discoverPopularity(ctx context.Context) (Result, error) {
	ranked, err := s.TopStores(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Mode:       domdisc.ModePopularity,
		Page:       1,
		Ranked:     ranked,
		TotalCount: len(ranked),
	}, nil
}
