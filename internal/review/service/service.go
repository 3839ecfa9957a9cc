// Package service implements the review submission coordinator: the
// transactional protocol that applies an expert review to a contribution
// exactly once and recomputes Knowledge Equity from a consistent snapshot.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"kequity/internal/audit"
	"kequity/internal/review"
	"kequity/internal/review/metrics"
	"kequity/internal/scoring"
	"kequity/internal/storage"
	id "kequity/pkg/domain"
	dErrors "kequity/pkg/domain-errors"
	"kequity/pkg/platform/sentinel"
	"kequity/pkg/requestcontext"
)

const maxCommentLength = 10_000

// Leaderboard receives balance updates after a submission commits. Updates
// are best-effort: a failing leaderboard never fails a committed submission.
type Leaderboard interface {
	RecordBalance(ctx context.Context, domain string, userID id.UserID, balance int64) error
}

// Service coordinates review submissions. The protocol runs
// Validating -> Aggregating -> Persisting -> Committed, or short-circuits to
// Rejected with a domain error carrying the reason. Every read and all three
// writes happen inside one StoreTx unit so no partial state is ever visible.
type Service struct {
	store       storage.Store
	tx          StoreTx
	logger      *slog.Logger
	metrics     *metrics.Metrics
	auditor     *audit.Publisher
	leaderboard Leaderboard
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAuditor sets the audit publisher for committed submissions.
func WithAuditor(p *audit.Publisher) Option {
	return func(s *Service) { s.auditor = p }
}

// WithLeaderboard sets the post-commit leaderboard sink.
func WithLeaderboard(l Leaderboard) Option {
	return func(s *Service) { s.leaderboard = l }
}

// New creates a submission coordinator. store serves plain reads; tx owns
// the submission transaction.
func New(store storage.Store, tx StoreTx, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{store: store, tx: tx, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit applies one review to a contribution. It either returns a committed
// result or a domain error naming the rejection reason; it never leaves
// partial state behind.
func (s *Service) Submit(ctx context.Context, req review.SubmitRequest) (*review.SubmitResult, error) {
	start := time.Now()
	result, err := s.submit(ctx, req)
	s.metrics.ObserveSubmitLatency(time.Since(start))
	if err != nil {
		s.metrics.IncOutcome(string(dErrors.GetCode(err)))
		return nil, err
	}
	s.metrics.IncOutcome(string(review.StateCommitted))
	return result, nil
}

func (s *Service) submit(ctx context.Context, req review.SubmitRequest) (*review.SubmitResult, error) {
	// Validating: malformed input is rejected before any transaction starts.
	rating, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	var (
		result      review.SubmitResult
		domain      string
		newBalances map[id.UserID]int64
	)

	txErr := s.tx.RunInTx(ctx, req.ContributionID, func(store storage.Store) error {
		// Load the contribution under the transaction snapshot.
		c, err := store.GetContribution(ctx, req.ContributionID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "contribution not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load contribution")
		}

		if req.ReviewerID == c.AuthorID {
			return dErrors.New(dErrors.CodeForbidden, "authors may not review their own contribution")
		}

		exists, err := store.HasReviewByReviewer(ctx, req.ContributionID, req.ReviewerID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing review")
		}
		if exists {
			return dErrors.New(dErrors.CodeConflict, "reviewer has already reviewed this contribution")
		}

		// Aggregating: existing reviews plus the incoming one, each carrying
		// its reviewer's domain KE from the same snapshot.
		existing, err := store.ListReviewsByContribution(ctx, req.ContributionID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load reviews")
		}

		scores := make([]scoring.ReviewScore, 0, len(existing)+1)
		for _, r := range existing {
			balance, err := store.GetDomainKE(ctx, r.ReviewerID, c.Domain)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load reviewer balance")
			}
			scores = append(scores, scoring.ReviewScore{
				Rating:           r.Rating,
				Confidence:       r.Confidence,
				ReviewerDomainKE: balance.Balance,
			})
		}
		reviewerBalance, err := store.GetDomainKE(ctx, req.ReviewerID, c.Domain)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load reviewer balance")
		}
		authorBalance, err := store.GetDomainKE(ctx, c.AuthorID, c.Domain)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load author balance")
		}
		scores = append(scores, scoring.ReviewScore{
			Rating:           rating,
			Confidence:       req.Confidence,
			ReviewerDomainKE: reviewerBalance.Balance,
		})

		newTotal := scoring.TotalKE(c.Kind, c.EffortMinutes, scores)
		reward := scoring.ReviewerReward(newTotal, req.Confidence)
		warnings := scoring.DetectAnomalies(scores)

		// Persisting: insert the review, update the contribution totals,
		// credit the reviewer, and move the author's balance by the total's
		// delta. All four commit together or not at all.
		newReview := &review.Review{
			ID:                  id.NewReviewID(),
			ContributionID:      c.ID,
			ReviewerID:          req.ReviewerID,
			Rating:              rating,
			Confidence:          req.Confidence,
			Comment:             req.Comment,
			KEAwardedToReviewer: reward,
			CreatedAt:           requestcontext.Now(ctx),
		}
		if err := store.InsertReview(ctx, newReview); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				// The uniqueness constraint caught a race the earlier check
				// could not see.
				return dErrors.New(dErrors.CodeConflict, "reviewer has already reviewed this contribution")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to insert review")
		}
		if err := store.UpdateContributionTotals(ctx, c.ID, newTotal, len(scores)); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update contribution totals")
		}
		if err := store.ApplyReviewerReward(ctx, req.ReviewerID, c.Domain, reward); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to credit reviewer")
		}
		if err := store.ApplyAuthorDelta(ctx, c.AuthorID, c.Domain, newTotal-c.TotalKE); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to apply author delta")
		}

		domain = c.Domain
		newBalances = map[id.UserID]int64{
			req.ReviewerID: reviewerBalance.Balance + reward,
			c.AuthorID:     authorBalance.Balance + (newTotal - c.TotalKE),
		}
		result = review.SubmitResult{
			ReviewID:               newReview.ID,
			ReviewerEarnedKE:       reward,
			ContributionNewTotalKE: newTotal,
			CreatedAt:              newReview.CreatedAt,
			Warnings:               warnings,
		}
		return nil
	})
	if txErr != nil {
		return nil, s.rejected(ctx, req, txErr)
	}

	s.committed(ctx, req, domain, newBalances, &result)
	return &result, nil
}

// validate covers the Validating state: terminal client errors raised before
// any transaction starts.
func (s *Service) validate(req review.SubmitRequest) (scoring.Rating, error) {
	if req.ContributionID.IsNil() {
		return "", dErrors.New(dErrors.CodeValidation, "contribution id is required")
	}
	if req.ReviewerID.IsNil() {
		return "", dErrors.New(dErrors.CodeUnauthorized, "reviewer id is required")
	}
	rating, err := scoring.ParseRating(req.Rating)
	if err != nil {
		return "", err
	}
	if req.Confidence < 0 || req.Confidence > 100 {
		return "", dErrors.New(dErrors.CodeValidation, "confidence must be between 0 and 100")
	}
	if len(req.Comment) > maxCommentLength {
		return "", dErrors.New(dErrors.CodeValidation, "comment is too long")
	}
	return rating, nil
}

// rejected translates a failed transaction into the caller-facing error.
// Domain rejections pass through verbatim; anything else is logged with full
// context and surfaced as an opaque internal failure.
func (s *Service) rejected(ctx context.Context, req review.SubmitRequest, err error) error {
	switch dErrors.GetCode(err) {
	case dErrors.CodeNotFound, dErrors.CodeForbidden, dErrors.CodeConflict,
		dErrors.CodeValidation, dErrors.CodeUnauthorized, dErrors.CodeTimeout:
		return err
	}
	s.logger.ErrorContext(ctx, "review submission failed",
		"request_id", requestcontext.RequestID(ctx),
		"contribution_id", req.ContributionID.String(),
		"reviewer_id", req.ReviewerID.String(),
		"error", err.Error(),
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, "review submission failed")
}

// committed handles post-commit concerns: anomaly logging, audit, and the
// leaderboard. None of these can fail the submission.
func (s *Service) committed(ctx context.Context, req review.SubmitRequest, domain string, balances map[id.UserID]int64, result *review.SubmitResult) {
	if len(result.Warnings) > 0 {
		s.metrics.AddAnomalyWarnings(len(result.Warnings))
		s.logger.WarnContext(ctx, "review anomalies detected",
			"contribution_id", req.ContributionID.String(),
			"warnings", result.Warnings,
		)
	}

	if s.auditor != nil {
		event := audit.Event{
			Type:           audit.EventReviewCommitted,
			ContributionID: req.ContributionID,
			UserID:         req.ReviewerID,
			Domain:         domain,
			KEDelta:        result.ReviewerEarnedKE,
			NewTotalKE:     result.ContributionNewTotalKE,
			Warnings:       result.Warnings,
			Timestamp:      result.CreatedAt,
		}
		if err := s.auditor.Emit(ctx, event); err != nil {
			s.logger.ErrorContext(ctx, "failed to emit audit event", "error", err.Error())
		}
	}

	if s.leaderboard != nil {
		for userID, balance := range balances {
			if err := s.leaderboard.RecordBalance(ctx, domain, userID, balance); err != nil {
				s.logger.WarnContext(ctx, "leaderboard update failed",
					"domain", domain,
					"user_id", userID.String(),
					"error", err.Error(),
				)
			}
		}
	}
}

// ListByContribution returns a contribution's reviews, newest last.
func (s *Service) ListByContribution(ctx context.Context, contributionID id.ContributionID) ([]*review.Review, error) {
	if _, err := s.store.GetContribution(ctx, contributionID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "contribution not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load contribution")
	}
	reviews, err := s.store.ListReviewsByContribution(ctx, contributionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list reviews")
	}
	return reviews, nil
}
