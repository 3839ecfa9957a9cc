// Package handler exposes domain leaderboards over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"kequity/internal/leaderboard"
	"kequity/internal/transport/http/shared"
	dErrors "kequity/pkg/domain-errors"
)

const defaultLimit = 10
const maxLimit = 100

// Ranker serves leaderboard reads.
type Ranker interface {
	Top(ctx context.Context, domain string, limit int) ([]leaderboard.Entry, error)
}

// DomainNormalizer canonicalizes domain strings against the taxonomy.
type DomainNormalizer interface {
	Normalize(raw string) (string, error)
}

// Handler handles leaderboard endpoints. ranker may be nil when Redis is not
// configured; the endpoint then reports unavailable.
type Handler struct {
	logger   *slog.Logger
	ranker   Ranker
	taxonomy DomainNormalizer
}

func New(ranker Ranker, taxonomy DomainNormalizer, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, ranker: ranker, taxonomy: taxonomy}
}

type entryResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
	Rank    int    `json:"rank"`
}

type leaderboardResponse struct {
	Domain  string          `json:"domain"`
	Entries []entryResponse `json:"entries"`
}

// Register mounts the leaderboard routes. Rankings are public reads.
func (h *Handler) Register(r chi.Router) {
	r.Get("/domains/{domain}/leaderboard", h.handleLeaderboard)
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	domain, err := h.taxonomy.Normalize(chi.URLParam(r, "domain"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be a positive integer"))
			return
		}
		if limit > maxLimit {
			limit = maxLimit
		}
	}

	if h.ranker == nil {
		// No Redis configured. Rankings are an optional derived view, so this
		// deployment simply doesn't serve them.
		shared.WriteJSON(w, http.StatusNotImplemented, shared.ErrorResponse{
			Error:   "not_implemented",
			Message: "leaderboard is not configured",
		})
		return
	}

	entries, err := h.ranker.Top(ctx, domain, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "leaderboard read failed",
			"domain", domain,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{
			UserID:  e.UserID.String(),
			Balance: e.Balance,
			Rank:    e.Rank,
		})
	}
	shared.WriteJSON(w, http.StatusOK, leaderboardResponse{Domain: domain, Entries: out})
}
