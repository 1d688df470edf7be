package rest

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
)

// Service is the core behaviour exposed over HTTP.
type Service interface {
	GetMoodSuggestions(ctx context.Context, moodDescription, accessToken string) (domain.RecommendationResult, error)
	CreatePlaylist(ctx context.Context, accessToken string, trackURIs []string, name, description string) (domain.PlaylistRef, error)
	ListPlaylistExports(ctx context.Context, accessToken string, limit int) ([]domain.PlaylistExport, error)
}

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc      Service
	validate *validator.Validate
	router   chi.Router
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc Service, cfg MiddlewareConfig) *Handler {
	h := &Handler{
		svc:      svc,
		validate: newValidator(),
		router:   chi.NewRouter(),
	}

	h.routes(cfg)

	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes(cfg MiddlewareConfig) {
	r := h.router
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(cfg))
	r.Use(RequestMetrics())

	r.Get("/health", h.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(RateLimit(cfg))
		r.Post("/mood-suggestions", h.MoodSuggestions)
		r.Post("/create-playlist", h.CreatePlaylist)
		r.Get("/playlists/exports", h.ListPlaylistExports)
	})
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
