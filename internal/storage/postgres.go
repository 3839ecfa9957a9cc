package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"kequity/internal/contribution"
	"kequity/internal/ledger"
	"kequity/internal/review"
	"kequity/internal/scoring"
	id "kequity/pkg/domain"
	"kequity/pkg/platform/sentinel"
)

// querier is satisfied by *sql.DB and *sql.Tx so the same store code serves
// direct reads and transaction-scoped access.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists the contribution/review/ledger tables in PostgreSQL.
// This store is pure I/O - aggregation arithmetic belongs in services.
type PostgresStore struct {
	q querier
}

// NewPostgres constructs a store over a database handle.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{q: db}
}

// NewPostgresTx constructs a store scoped to an open transaction.
func NewPostgresTx(tx *sql.Tx) *PostgresStore {
	return &PostgresStore{q: tx}
}

// LockContribution takes a row lock on the contribution so concurrent
// submissions for the same contribution serialize for the whole
// read-aggregate-write sequence. Submissions for different contributions
// lock different rows and never block each other.
func (s *PostgresStore) LockContribution(ctx context.Context, contributionID id.ContributionID) error {
	var one int
	err := s.q.QueryRowContext(ctx,
		`SELECT 1 FROM contributions WHERE id = $1 FOR UPDATE`,
		uuid.UUID(contributionID),
	).Scan(&one)
	if err == sql.ErrNoRows {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock contribution: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveContribution(ctx context.Context, c *contribution.Contribution) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO contributions (id, kind, domain, author_id, effort_minutes, total_ke, review_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.UUID(c.ID), string(c.Kind), c.Domain, uuid.UUID(c.AuthorID), c.EffortMinutes, c.TotalKE, c.ReviewCount, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("save contribution: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetContribution(ctx context.Context, contributionID id.ContributionID) (*contribution.Contribution, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, kind, domain, author_id, effort_minutes, total_ke, review_count, created_at
		FROM contributions
		WHERE id = $1
	`, uuid.UUID(contributionID))

	var c contribution.Contribution
	var cid, authorID uuid.UUID
	var kind string
	err := row.Scan(&cid, &kind, &c.Domain, &authorID, &c.EffortMinutes, &c.TotalKE, &c.ReviewCount, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contribution: %w", err)
	}
	c.ID = id.ContributionID(cid)
	c.AuthorID = id.UserID(authorID)
	c.Kind = scoring.Kind(kind)
	return &c, nil
}

func (s *PostgresStore) UpdateContributionTotals(ctx context.Context, contributionID id.ContributionID, totalKE int64, reviewCount int) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE contributions SET total_ke = $2, review_count = $3 WHERE id = $1
	`, uuid.UUID(contributionID), totalKE, reviewCount)
	if err != nil {
		return fmt.Errorf("update contribution totals: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) InsertReview(ctx context.Context, r *review.Review) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO reviews (id, contribution_id, reviewer_id, rating, confidence, comment, ke_awarded_to_reviewer, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.UUID(r.ID), uuid.UUID(r.ContributionID), uuid.UUID(r.ReviewerID), string(r.Rating), r.Confidence, r.Comment, r.KEAwardedToReviewer, r.CreatedAt)
	if err != nil {
		if conflict := translateInsertError(err); conflict == sentinel.ErrConflict {
			return conflict
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListReviewsByContribution(ctx context.Context, contributionID id.ContributionID) ([]*review.Review, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, contribution_id, reviewer_id, rating, confidence, comment, ke_awarded_to_reviewer, created_at
		FROM reviews
		WHERE contribution_id = $1
		ORDER BY created_at, id
	`, uuid.UUID(contributionID))
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var out []*review.Review
	for rows.Next() {
		var r review.Review
		var rid, cid, reviewerID uuid.UUID
		var rating string
		if err := rows.Scan(&rid, &cid, &reviewerID, &rating, &r.Confidence, &r.Comment, &r.KEAwardedToReviewer, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		r.ID = id.ReviewID(rid)
		r.ContributionID = id.ContributionID(cid)
		r.ReviewerID = id.UserID(reviewerID)
		r.Rating = scoring.Rating(rating)
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) HasReviewByReviewer(ctx context.Context, contributionID id.ContributionID, reviewerID id.UserID) (bool, error) {
	var exists bool
	err := s.q.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM reviews WHERE contribution_id = $1 AND reviewer_id = $2)
	`, uuid.UUID(contributionID), uuid.UUID(reviewerID)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check review existence: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) GetDomainKE(ctx context.Context, userID id.UserID, domain string) (*ledger.DomainKE, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT balance, contributions_count, reviews_given_count
		FROM user_ke
		WHERE user_id = $1 AND domain = $2
	`, uuid.UUID(userID), domain)

	out := &ledger.DomainKE{UserID: userID, Domain: domain}
	err := row.Scan(&out.Balance, &out.ContributionsCount, &out.ReviewsGivenCount)
	if err == sql.ErrNoRows {
		// A missing row is a brand-new user in this domain, not an error.
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get domain ke: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ListDomainKEByUser(ctx context.Context, userID id.UserID) ([]*ledger.DomainKE, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT domain, balance, contributions_count, reviews_given_count
		FROM user_ke
		WHERE user_id = $1
		ORDER BY domain
	`, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list domain ke: %w", err)
	}
	defer rows.Close()

	var out []*ledger.DomainKE
	for rows.Next() {
		row := &ledger.DomainKE{UserID: userID}
		if err := rows.Scan(&row.Domain, &row.Balance, &row.ContributionsCount, &row.ReviewsGivenCount); err != nil {
			return nil, fmt.Errorf("scan domain ke: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list domain ke: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ApplyReviewerReward(ctx context.Context, userID id.UserID, domain string, delta int64) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO user_ke (user_id, domain, balance, contributions_count, reviews_given_count)
		VALUES ($1, $2, $3, 0, 1)
		ON CONFLICT (user_id, domain) DO UPDATE SET
			balance = user_ke.balance + EXCLUDED.balance,
			reviews_given_count = user_ke.reviews_given_count + 1
	`, uuid.UUID(userID), domain, delta)
	if err != nil {
		return fmt.Errorf("apply reviewer reward: %w", err)
	}
	return nil
}

func (s *PostgresStore) ApplyAuthorDelta(ctx context.Context, userID id.UserID, domain string, delta int64) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO user_ke (user_id, domain, balance, contributions_count, reviews_given_count)
		VALUES ($1, $2, $3, 0, 0)
		ON CONFLICT (user_id, domain) DO UPDATE SET
			balance = user_ke.balance + EXCLUDED.balance
	`, uuid.UUID(userID), domain, delta)
	if err != nil {
		return fmt.Errorf("apply author delta: %w", err)
	}
	return nil
}

func (s *PostgresStore) IncrementContributions(ctx context.Context, userID id.UserID, domain string) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO user_ke (user_id, domain, balance, contributions_count, reviews_given_count)
		VALUES ($1, $2, 0, 1, 0)
		ON CONFLICT (user_id, domain) DO UPDATE SET
			contributions_count = user_ke.contributions_count + 1
	`, uuid.UUID(userID), domain)
	if err != nil {
		return fmt.Errorf("increment contributions: %w", err)
	}
	return nil
}
