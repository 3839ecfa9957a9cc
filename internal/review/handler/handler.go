// Package handler exposes review submission and listing over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kequity/internal/platform/middleware"
	"kequity/internal/review"
	"kequity/internal/transport/http/shared"
	id "kequity/pkg/domain"
	dErrors "kequity/pkg/domain-errors"
	"kequity/pkg/requestcontext"
)

// Service defines the review operations the handler needs.
type Service interface {
	Submit(ctx context.Context, req review.SubmitRequest) (*review.SubmitResult, error)
	ListByContribution(ctx context.Context, contributionID id.ContributionID) ([]*review.Review, error)
}

// Handler handles review endpoints.
type Handler struct {
	logger       *slog.Logger
	service      Service
	jwtValidator middleware.JWTValidator
}

func New(service Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		service:      service,
		jwtValidator: jwtValidator,
	}
}

type submitRequest struct {
	Rating     string `json:"rating"`
	Confidence int    `json:"confidence"`
	Comment    string `json:"comment"`
}

type submitResponse struct {
	ReviewID               string    `json:"review_id"`
	ReviewerEarnedKE       int64     `json:"reviewer_earned_ke"`
	ContributionNewTotalKE int64     `json:"contribution_new_total_ke"`
	CreatedAt              time.Time `json:"created_at"`
	Warnings               []string  `json:"warnings"`
}

type reviewResponse struct {
	ID                  string    `json:"id"`
	ContributionID      string    `json:"contribution_id"`
	ReviewerID          string    `json:"reviewer_id"`
	Rating              string    `json:"rating"`
	Confidence          int       `json:"confidence"`
	Comment             string    `json:"comment,omitempty"`
	KEAwardedToReviewer int64     `json:"ke_awarded_to_reviewer"`
	CreatedAt           time.Time `json:"created_at"`
}

// Register mounts the review routes. Submitting requires auth; listing is
// public.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(gr chi.Router) {
		gr.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		gr.Post("/contributions/{contributionID}/reviews", h.handleSubmit)
	})
	r.Get("/contributions/{contributionID}/reviews", h.handleList)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reviewerID := requestcontext.UserID(ctx)

	contributionID, err := id.ParseContributionID(chi.URLParam(r, "contributionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.service.Submit(ctx, review.SubmitRequest{
		ContributionID: contributionID,
		ReviewerID:     reviewerID,
		Rating:         req.Rating,
		Confidence:     req.Confidence,
		Comment:        req.Comment,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "review submission rejected",
			"request_id", requestcontext.RequestID(ctx),
			"contribution_id", contributionID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, submitResponse{
		ReviewID:               result.ReviewID.String(),
		ReviewerEarnedKE:       result.ReviewerEarnedKE,
		ContributionNewTotalKE: result.ContributionNewTotalKE,
		CreatedAt:              result.CreatedAt,
		Warnings:               result.Warnings,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	contributionID, err := id.ParseContributionID(chi.URLParam(r, "contributionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	reviews, err := h.service.ListByContribution(ctx, contributionID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	out := make([]reviewResponse, 0, len(reviews))
	for _, rv := range reviews {
		out = append(out, reviewResponse{
			ID:                  rv.ID.String(),
			ContributionID:      rv.ContributionID.String(),
			ReviewerID:          rv.ReviewerID.String(),
			Rating:              string(rv.Rating),
			Confidence:          rv.Confidence,
			Comment:             rv.Comment,
			KEAwardedToReviewer: rv.KEAwardedToReviewer,
			CreatedAt:           rv.CreatedAt,
		})
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"reviews": out})
}
