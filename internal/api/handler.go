package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"florafinder/internal/enrichment"
	"florafinder/internal/identification"
	"florafinder/internal/logging"
)

// Identifier is the identification orchestrator.
type Identifier interface {
	Identify(ctx context.Context, req identification.Request) (identification.Result, error)
	ServiceStatus(ctx context.Context) identification.ServiceStatus
}

// Enricher is the enrichment orchestrator.
type Enricher interface {
	Enrich(ctx context.Context, scientificName string, ids enrichment.IDs) enrichment.Result
	GetConservationInfo(ctx context.Context, scientificName, iucnID string) enrichment.ConservationInfo
	GetHabitatInfo(ctx context.Context, scientificName, gbifID string) enrichment.HabitatInfo
}

// Handler wires HTTP endpoints to the orchestrators.
type Handler struct {
	identifier Identifier
	enricher   Enricher
	logger     *slog.Logger
	token      string
	timeout    time.Duration
}

// Option configures a Handler.
type Option func(*Handler)

// WithToken requires "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(h *Handler) { h.token = token }
}

// WithTimeout bounds each request's context.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) { h.timeout = d }
}

// New constructs a handler.
func New(identifier Identifier, enricher Enricher, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		identifier: identifier,
		enricher:   enricher,
		logger:     logging.NewComponentLogger(logger, "api"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the API endpoints on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(requestID)
		r.Use(serverSpan)
		r.Use(middleware.Recoverer)
		r.Use(accessLog(h.logger))
		r.Use(bearerAuth(h.token))
		if h.timeout > 0 {
			r.Use(middleware.Timeout(h.timeout))
		}

		r.Post("/identify", h.HandleIdentify)
		r.Get("/enrich", h.HandleEnrich)
		r.Get("/conservation", h.HandleConservation)
		r.Get("/habitat", h.HandleHabitat)
		r.Get("/status", h.HandleStatus)
	})
}

// Routes returns a router with only the API mounted.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	h.Register(r)
	return r
}

// HandleStatus handles GET /api/status.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, FromServiceStatus(h.identifier.ServiceStatus(r.Context())))
}
