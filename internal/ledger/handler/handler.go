// Package handler exposes per-user KE balances over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kequity/internal/ledger"
	"kequity/internal/transport/http/shared"
	id "kequity/pkg/domain"
	dErrors "kequity/pkg/domain-errors"
)

// Reader serves ledger reads.
type Reader interface {
	GetDomainKE(ctx context.Context, userID id.UserID, domain string) (*ledger.DomainKE, error)
	ListDomainKEByUser(ctx context.Context, userID id.UserID) ([]*ledger.DomainKE, error)
}

// Handler handles KE balance endpoints.
type Handler struct {
	logger *slog.Logger
	store  Reader
}

func New(store Reader, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, store: store}
}

type domainKEResponse struct {
	Domain             string `json:"domain"`
	Balance            int64  `json:"balance"`
	ContributionsCount int    `json:"contributions_count"`
	ReviewsGivenCount  int    `json:"reviews_given_count"`
}

type userKEResponse struct {
	UserID  string             `json:"user_id"`
	Domains []domainKEResponse `json:"domains"`
}

// Register mounts the balance routes. Balances are public reads.
func (h *Handler) Register(r chi.Router) {
	r.Get("/users/{userID}/ke", h.handleGetUserKE)
}

func (h *Handler) handleGetUserKE(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	// An optional ?domain= narrows the response to one domain. A user with no
	// activity there gets a zero-valued row, not a 404.
	if domain := r.URL.Query().Get("domain"); domain != "" {
		row, err := h.store.GetDomainKE(ctx, userID, domain)
		if err != nil {
			shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load balance"))
			return
		}
		shared.WriteJSON(w, http.StatusOK, userKEResponse{
			UserID: userID.String(),
			Domains: []domainKEResponse{{
				Domain:             row.Domain,
				Balance:            row.Balance,
				ContributionsCount: row.ContributionsCount,
				ReviewsGivenCount:  row.ReviewsGivenCount,
			}},
		})
		return
	}

	rows, err := h.store.ListDomainKEByUser(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list balances",
			"user_id", userID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load balances"))
		return
	}

	resp := userKEResponse{UserID: userID.String(), Domains: make([]domainKEResponse, 0, len(rows))}
	for _, row := range rows {
		resp.Domains = append(resp.Domains, domainKEResponse{
			Domain:             row.Domain,
			Balance:            row.Balance,
			ContributionsCount: row.ContributionsCount,
			ReviewsGivenCount:  row.ReviewsGivenCount,
		})
	}
	shared.WriteJSON(w, http.StatusOK, resp)
}
