package storage

import (
	"context"

	"kequity/internal/contribution"
	"kequity/internal/ledger"
	"kequity/internal/review"
	id "kequity/pkg/domain"
	"kequity/pkg/platform/sentinel"
)

type stagedTotals struct {
	totalKE     int64
	reviewCount int
}

type stagedLedger struct {
	balanceDelta       int64
	reviewsGivenDelta  int
	contributionsDelta int
}

// memoryStage buffers every write made inside an in-memory transaction and
// reads through to the base store plus its own buffer. Nothing touches the
// base until commit, so a failed callback leaves no partial state - the same
// contract a rolled-back SQL transaction gives the Postgres path.
type memoryStage struct {
	base          *InMemoryStore
	totals        map[id.ContributionID]stagedTotals
	insertedViews []review.Review
	inserted      map[reviewerKey]struct{}
	ledgerDeltas  map[ledgerKey]stagedLedger
}

func newMemoryStage(base *InMemoryStore) *memoryStage {
	return &memoryStage{
		base:         base,
		totals:       make(map[id.ContributionID]stagedTotals),
		inserted:     make(map[reviewerKey]struct{}),
		ledgerDeltas: make(map[ledgerKey]stagedLedger),
	}
}

func (m *memoryStage) SaveContribution(ctx context.Context, c *contribution.Contribution) error {
	// Publishing happens outside submission transactions.
	return m.base.SaveContribution(ctx, c)
}

func (m *memoryStage) GetContribution(ctx context.Context, contributionID id.ContributionID) (*contribution.Contribution, error) {
	c, err := m.base.GetContribution(ctx, contributionID)
	if err != nil {
		return nil, err
	}
	if t, ok := m.totals[contributionID]; ok {
		c.TotalKE = t.totalKE
		c.ReviewCount = t.reviewCount
	}
	return c, nil
}

func (m *memoryStage) UpdateContributionTotals(_ context.Context, contributionID id.ContributionID, totalKE int64, reviewCount int) error {
	m.totals[contributionID] = stagedTotals{totalKE: totalKE, reviewCount: reviewCount}
	return nil
}

func (m *memoryStage) InsertReview(ctx context.Context, r *review.Review) error {
	key := reviewerKey{r.ContributionID, r.ReviewerID}
	if _, dup := m.inserted[key]; dup {
		return sentinel.ErrConflict
	}
	exists, err := m.base.HasReviewByReviewer(ctx, r.ContributionID, r.ReviewerID)
	if err != nil {
		return err
	}
	if exists {
		return sentinel.ErrConflict
	}
	m.inserted[key] = struct{}{}
	m.insertedViews = append(m.insertedViews, *r)
	return nil
}

func (m *memoryStage) ListReviewsByContribution(ctx context.Context, contributionID id.ContributionID) ([]*review.Review, error) {
	out, err := m.base.ListReviewsByContribution(ctx, contributionID)
	if err != nil {
		return nil, err
	}
	for i := range m.insertedViews {
		if m.insertedViews[i].ContributionID == contributionID {
			r := m.insertedViews[i]
			out = append(out, &r)
		}
	}
	return out, nil
}

func (m *memoryStage) HasReviewByReviewer(ctx context.Context, contributionID id.ContributionID, reviewerID id.UserID) (bool, error) {
	if _, ok := m.inserted[reviewerKey{contributionID, reviewerID}]; ok {
		return true, nil
	}
	return m.base.HasReviewByReviewer(ctx, contributionID, reviewerID)
}

func (m *memoryStage) GetDomainKE(ctx context.Context, userID id.UserID, domain string) (*ledger.DomainKE, error) {
	b, err := m.base.GetDomainKE(ctx, userID, domain)
	if err != nil {
		return nil, err
	}
	if d, ok := m.ledgerDeltas[ledgerKey{userID, domain}]; ok {
		b.Balance += d.balanceDelta
		b.ReviewsGivenCount += d.reviewsGivenDelta
		b.ContributionsCount += d.contributionsDelta
	}
	return b, nil
}

func (m *memoryStage) ListDomainKEByUser(ctx context.Context, userID id.UserID) ([]*ledger.DomainKE, error) {
	return m.base.ListDomainKEByUser(ctx, userID)
}

func (m *memoryStage) ApplyReviewerReward(_ context.Context, userID id.UserID, domain string, delta int64) error {
	key := ledgerKey{userID, domain}
	d := m.ledgerDeltas[key]
	d.balanceDelta += delta
	d.reviewsGivenDelta++
	m.ledgerDeltas[key] = d
	return nil
}

func (m *memoryStage) ApplyAuthorDelta(_ context.Context, userID id.UserID, domain string, delta int64) error {
	key := ledgerKey{userID, domain}
	d := m.ledgerDeltas[key]
	d.balanceDelta += delta
	m.ledgerDeltas[key] = d
	return nil
}

func (m *memoryStage) IncrementContributions(_ context.Context, userID id.UserID, domain string) error {
	key := ledgerKey{userID, domain}
	d := m.ledgerDeltas[key]
	d.contributionsDelta++
	m.ledgerDeltas[key] = d
	return nil
}

// commit applies the buffered writes under one lock acquisition. Ledger
// mutations are deltas, so commits from transactions on different
// contributions compose without lost updates.
func (m *memoryStage) commit() {
	m.base.mu.Lock()
	defer m.base.mu.Unlock()

	for contributionID, t := range m.totals {
		if c, ok := m.base.contributions[contributionID]; ok {
			c.TotalKE = t.totalKE
			c.ReviewCount = t.reviewCount
			m.base.contributions[contributionID] = c
		}
	}
	for i := range m.insertedViews {
		r := m.insertedViews[i]
		m.base.byReviewer[reviewerKey{r.ContributionID, r.ReviewerID}] = struct{}{}
		m.base.reviews[r.ContributionID] = append(m.base.reviews[r.ContributionID], r)
	}
	for key, d := range m.ledgerDeltas {
		b := m.base.balances[key]
		b.UserID, b.Domain = key.userID, key.domain
		b.Balance += d.balanceDelta
		b.ReviewsGivenCount += d.reviewsGivenDelta
		b.ContributionsCount += d.contributionsDelta
		m.base.balances[key] = b
	}
}
