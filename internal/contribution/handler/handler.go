// Package handler exposes contribution publishing and reads over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kequity/internal/contribution"
	"kequity/internal/platform/metrics"
	"kequity/internal/platform/middleware"
	"kequity/internal/transport/http/shared"
	id "kequity/pkg/domain"
	dErrors "kequity/pkg/domain-errors"
	"kequity/pkg/requestcontext"
)

// Service defines the contribution operations the handler needs.
type Service interface {
	Publish(ctx context.Context, authorID id.UserID, req contribution.PublishRequest) (*contribution.Contribution, error)
	Get(ctx context.Context, contributionID id.ContributionID) (*contribution.Contribution, error)
}

// Handler handles contribution endpoints.
type Handler struct {
	logger       *slog.Logger
	service      Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

func New(service Service, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		service:      service,
		metrics:      m,
		jwtValidator: jwtValidator,
	}
}

type publishRequest struct {
	Kind          string `json:"kind"`
	Domain        string `json:"domain"`
	EffortMinutes int    `json:"effort_minutes"`
}

type contributionResponse struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	Domain        string    `json:"domain"`
	AuthorID      string    `json:"author_id"`
	EffortMinutes int       `json:"effort_minutes"`
	TotalKE       int64     `json:"total_ke"`
	ReviewCount   int       `json:"review_count"`
	CreatedAt     time.Time `json:"created_at"`
}

func toContributionResponse(c *contribution.Contribution) contributionResponse {
	return contributionResponse{
		ID:            c.ID.String(),
		Kind:          string(c.Kind),
		Domain:        c.Domain,
		AuthorID:      c.AuthorID.String(),
		EffortMinutes: c.EffortMinutes,
		TotalKE:       c.TotalKE,
		ReviewCount:   c.ReviewCount,
		CreatedAt:     c.CreatedAt,
	}
}

// Register mounts the contribution routes. Publishing requires auth; reads
// are public.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(gr chi.Router) {
		gr.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		gr.Post("/contributions", h.handlePublish)
	})
	r.Get("/contributions/{contributionID}", h.handleGet)
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authorID := requestcontext.UserID(ctx)

	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	c, err := h.service.Publish(ctx, authorID, contribution.PublishRequest{
		Kind:          req.Kind,
		Domain:        req.Domain,
		EffortMinutes: req.EffortMinutes,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "publish rejected",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	h.metrics.IncContributionsPublished()
	shared.WriteJSON(w, http.StatusCreated, toContributionResponse(c))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	contributionID, err := id.ParseContributionID(chi.URLParam(r, "contributionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	c, err := h.service.Get(ctx, contributionID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toContributionResponse(c))
}
