// Package chi exposes the discovery engine over HTTP. Route handlers decode
// and validate payloads at the boundary, then delegate to the usecase layer.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/storedex/internal/domain"
	domdisc "github.com/kailas-cloud/storedex/internal/domain/discovery"
	domreview "github.com/kailas-cloud/storedex/internal/domain/review"
	domstore "github.com/kailas-cloud/storedex/internal/domain/store"
	domuser "github.com/kailas-cloud/storedex/internal/domain/user"
	discoveryuc "github.com/kailas-cloud/storedex/internal/usecase/discovery"
	healthuc "github.com/kailas-cloud/storedex/internal/usecase/health"
	storeuc "github.com/kailas-cloud/storedex/internal/usecase/store"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// StoreService is the store lifecycle contract consumed by the server.
type StoreService interface {
	Create(ctx context.Context, userID string, in storeuc.Input) (domstore.Store, error)
	Update(ctx context.Context, userID, storeID string, upd domstore.Update) (domstore.Store, error)
	GetBySlug(ctx context.Context, slug string) (domstore.Store, error)
}

// DiscoveryService is the discovery contract consumed by the server.
type DiscoveryService interface {
	Discover(ctx context.Context, req *domdisc.Request) (discoveryuc.Result, error)
	ListTags(ctx context.Context) ([]domdisc.TagCount, error)
	TopStores(ctx context.Context) ([]domdisc.Ranked, error)
	Hearted(ctx context.Context, userID string, page int) (discoveryuc.Result, error)
}

// HeartService is the favorites ledger contract consumed by the server.
type HeartService interface {
	Toggle(ctx context.Context, userID, storeID string) (domuser.User, error)
	Hearts(ctx context.Context, userID string) (domuser.User, error)
}

// ReviewService is the review contract consumed by the server.
type ReviewService interface {
	Add(ctx context.Context, userID, storeID, text string, rating int) (domreview.Review, error)
	ListByStore(ctx context.Context, storeID string) ([]domreview.Review, error)
}

// HealthService reports component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server is the HTTP API server.
type Server struct {
	stores        StoreService
	discovery     DiscoveryService
	hearts        HeartService
	reviews       ReviewService
	health        HealthService
	logger        *zap.Logger
	validate      *validator.Validate
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	stores StoreService,
	discovery DiscoveryService,
	hearts HeartService,
	reviews ReviewService,
	health HealthService,
	logger *zap.Logger,
) *Server {
	s := &Server{
		stores:    stores,
		discovery: discovery,
		hearts:    hearts,
		reviews:   reviews,
		health:    health,
		logger:    logger,
		validate:  validator.New(),
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrUnauthenticated, http.StatusUnauthorized, codeUnauthorized),
		sentinelHandler(domain.ErrNotOwner, http.StatusForbidden, codeNotOwner),
		sentinelHandler(domain.ErrStoreNotFound, http.StatusNotFound, codeStoreNotFound),
		sentinelHandler(domain.ErrUserNotFound, http.StatusNotFound, codeUserNotFound),
	}
	return s
}

// Routes mounts every API route on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.GetHealth)
	r.Get("/metrics", s.Metrics)

	r.Route("/stores", func(r chi.Router) {
		r.Post("/", s.CreateStore)
		r.Get("/", s.ListStores)
		r.Get("/search", s.SearchStores)
		r.Get("/near", s.NearStores)
		r.Get("/top", s.TopStores)
		r.Get("/tag", s.ListStoresByTag)
		r.Get("/tag/{tag}", s.ListStoresByTag)
		r.Get("/{slug}", s.GetStoreBySlug)
		r.Put("/{id}", s.UpdateStore)
		r.Post("/{id}/heart", s.ToggleHeart)
		r.Post("/{id}/reviews", s.AddReview)
		r.Get("/{id}/reviews", s.ListReviews)
	})

	r.Get("/tags", s.ListTags)
	r.Get("/hearts", s.ListHearts)
}

// CreateStore handles POST /stores.
func (s *Server) CreateStore(w http.ResponseWriter, r *http.Request) {
	var req createStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	in, err := createInputFromRequest(&req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	st, err := s.stores.Create(r.Context(), userIDFromRequest(r), in)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, storeToResponse(&st))
}

// UpdateStore handles PUT /stores/{id}.
func (s *Server) UpdateStore(w http.ResponseWriter, r *http.Request) {
	var req updateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	upd, err := updateFromRequest(&req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	st, err := s.stores.Update(r.Context(), userIDFromRequest(r), chi.URLParam(r, "id"), upd)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, storeToResponse(&st))
}

// ListStores handles GET /stores.
func (s *Server) ListStores(w http.ResponseWriter, r *http.Request) {
	req := domdisc.All(pageParam(r))
	s.discover(w, r, &req)
}

// ListStoresByTag handles GET /stores/tag and GET /stores/tag/{tag}. Without
// a tag the listing covers every store that has at least one tag.
func (s *Server) ListStoresByTag(w http.ResponseWriter, r *http.Request) {
	req := domdisc.ByTag(chi.URLParam(r, "tag"), pageParam(r))
	s.discover(w, r, &req)
}

// SearchStores handles GET /stores/search.
func (s *Server) SearchStores(w http.ResponseWriter, r *http.Request) {
	req := domdisc.ByText(r.URL.Query().Get("q"))
	s.discover(w, r, &req)
}

// NearStores handles GET /stores/near.
func (s *Server) NearStores(w http.ResponseWriter, r *http.Request) {
	req, err := domdisc.ByProximity(r.URL.Query().Get("lat"), r.URL.Query().Get("lng"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	s.discover(w, r, &req)
}

// TopStores handles GET /stores/top.
func (s *Server) TopStores(w http.ResponseWriter, r *http.Request) {
	req := domdisc.ByPopularity()
	s.discover(w, r, &req)
}

// GetStoreBySlug handles GET /stores/{slug}.
func (s *Server) GetStoreBySlug(w http.ResponseWriter, r *http.Request) {
	st, err := s.stores.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, storeToResponse(&st))
}

// ListTags handles GET /tags.
func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	counts, err := s.discovery.ListTags(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]tagCountResponse, len(counts))
	for i, c := range counts {
		items[i] = tagCountResponse{Tag: c.Tag, Count: c.Count}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": items})
}

// ToggleHeart handles POST /stores/{id}/heart.
func (s *Server) ToggleHeart(w http.ResponseWriter, r *http.Request) {
	u, err := s.hearts.Toggle(r.Context(), userIDFromRequest(r), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, heartsToResponse(&u))
}

// ListHearts handles GET /hearts.
func (s *Server) ListHearts(w http.ResponseWriter, r *http.Request) {
	res, err := s.discovery.Hearted(r.Context(), userIDFromRequest(r), pageParam(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, discoverToResponse(&res))
}

// AddReview handles POST /stores/{id}/reviews.
func (s *Server) AddReview(w http.ResponseWriter, r *http.Request) {
	var req addReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	rv, err := s.reviews.Add(r.Context(), userIDFromRequest(r), chi.URLParam(r, "id"), req.Text, req.Rating)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reviewToResponse(&rv))
}

// ListReviews handles GET /stores/{id}/reviews.
func (s *Server) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.reviews.ListByStore(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]reviewResponse, len(reviews))
	for i := range reviews {
		items[i] = reviewToResponse(&reviews[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"reviews": items})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) discover(w http.ResponseWriter, r *http.Request, req *domdisc.Request) {
	res, err := s.discovery.Discover(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, discoverToResponse(&res))
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// pageParam parses the page query parameter; anything unusable means page 1.
func pageParam(r *http.Request) int {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	sentinels := []error{
		domain.ErrUnauthenticated,
		domain.ErrNotOwner,
		domain.ErrStoreNotFound,
		domain.ErrUserNotFound,
		domain.ErrSlugTaken,
		domain.ErrValidation,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler handles ErrValidation with the offending field surfaced.
func validationHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrValidation) {
		return false
	}
	writeError(w, http.StatusBadRequest, codeValidationFailed, msg)
	return true
}
