// Package storage defines the persistence contracts and ships an in-memory
// and a PostgreSQL implementation. Stores are interface-driven to keep domain
// logic testable and to allow swapping persistence without rewiring business
// code. Stores are pure I/O: invariants and arithmetic live in services.
package storage

import (
	"context"

	"kequity/internal/contribution"
	"kequity/internal/ledger"
	"kequity/internal/review"
	id "kequity/pkg/domain"
)

// ContributionStore persists contributions and their derived totals.
// UpdateContributionTotals is reserved for the review submission transaction.
type ContributionStore interface {
	SaveContribution(ctx context.Context, c *contribution.Contribution) error
	GetContribution(ctx context.Context, contributionID id.ContributionID) (*contribution.Contribution, error)
	UpdateContributionTotals(ctx context.Context, contributionID id.ContributionID, totalKE int64, reviewCount int) error
}

// ReviewStore persists immutable reviews. InsertReview returns
// sentinel.ErrConflict when the (contribution, reviewer) uniqueness
// constraint rejects the write.
type ReviewStore interface {
	InsertReview(ctx context.Context, r *review.Review) error
	ListReviewsByContribution(ctx context.Context, contributionID id.ContributionID) ([]*review.Review, error)
	HasReviewByReviewer(ctx context.Context, contributionID id.ContributionID, reviewerID id.UserID) (bool, error)
}

// LedgerStore persists per-(user, domain) KE balances. Balance mutations are
// expressed as deltas so concurrent transactions on different contributions
// compose without lost updates.
type LedgerStore interface {
	GetDomainKE(ctx context.Context, userID id.UserID, domain string) (*ledger.DomainKE, error)
	ListDomainKEByUser(ctx context.Context, userID id.UserID) ([]*ledger.DomainKE, error)
	ApplyReviewerReward(ctx context.Context, userID id.UserID, domain string, delta int64) error
	ApplyAuthorDelta(ctx context.Context, userID id.UserID, domain string, delta int64) error
	IncrementContributions(ctx context.Context, userID id.UserID, domain string) error
}

// Store is the full persistence surface visible inside a submission
// transaction.
type Store interface {
	ContributionStore
	ReviewStore
	LedgerStore
}
