package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"kequity/internal/contribution"
	"kequity/internal/ledger"
	"kequity/internal/review"
	id "kequity/pkg/domain"
	dErrors "kequity/pkg/domain-errors"
	"kequity/pkg/platform/sentinel"
)

type reviewerKey struct {
	contributionID id.ContributionID
	reviewerID     id.UserID
}

type ledgerKey struct {
	userID id.UserID
	domain string
}

// InMemoryStore is the development and test backend. All reads copy out so
// callers can never mutate shared state behind the lock.
type InMemoryStore struct {
	mu            sync.RWMutex
	contributions map[id.ContributionID]contribution.Contribution
	reviews       map[id.ContributionID][]review.Review
	byReviewer    map[reviewerKey]struct{}
	balances      map[ledgerKey]ledger.DomainKE
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		contributions: make(map[id.ContributionID]contribution.Contribution),
		reviews:       make(map[id.ContributionID][]review.Review),
		byReviewer:    make(map[reviewerKey]struct{}),
		balances:      make(map[ledgerKey]ledger.DomainKE),
	}
}

func (s *InMemoryStore) SaveContribution(_ context.Context, c *contribution.Contribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contributions[c.ID] = *c
	return nil
}

func (s *InMemoryStore) GetContribution(_ context.Context, contributionID id.ContributionID) (*contribution.Contribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contributions[contributionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := c
	return &out, nil
}

func (s *InMemoryStore) UpdateContributionTotals(_ context.Context, contributionID id.ContributionID, totalKE int64, reviewCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contributions[contributionID]
	if !ok {
		return sentinel.ErrNotFound
	}
	c.TotalKE = totalKE
	c.ReviewCount = reviewCount
	s.contributions[contributionID] = c
	return nil
}

func (s *InMemoryStore) InsertReview(_ context.Context, r *review.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := reviewerKey{r.ContributionID, r.ReviewerID}
	if _, dup := s.byReviewer[key]; dup {
		return sentinel.ErrConflict
	}
	s.byReviewer[key] = struct{}{}
	s.reviews[r.ContributionID] = append(s.reviews[r.ContributionID], *r)
	return nil
}

func (s *InMemoryStore) ListReviewsByContribution(_ context.Context, contributionID id.ContributionID) ([]*review.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.reviews[contributionID]
	out := make([]*review.Review, 0, len(stored))
	for i := range stored {
		r := stored[i]
		out = append(out, &r)
	}
	return out, nil
}

func (s *InMemoryStore) HasReviewByReviewer(_ context.Context, contributionID id.ContributionID, reviewerID id.UserID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byReviewer[reviewerKey{contributionID, reviewerID}]
	return ok, nil
}

func (s *InMemoryStore) GetDomainKE(_ context.Context, userID id.UserID, domain string) (*ledger.DomainKE, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.domainKELocked(userID, domain), nil
}

// domainKELocked returns a copy, zero-valued when the row does not exist yet.
// A missing ledger row is a fact (brand-new reviewer), not an error.
func (s *InMemoryStore) domainKELocked(userID id.UserID, domain string) *ledger.DomainKE {
	if b, ok := s.balances[ledgerKey{userID, domain}]; ok {
		out := b
		return &out
	}
	return &ledger.DomainKE{UserID: userID, Domain: domain}
}

func (s *InMemoryStore) ListDomainKEByUser(_ context.Context, userID id.UserID) ([]*ledger.DomainKE, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*ledger.DomainKE
	for key, b := range s.balances {
		if key.userID == userID {
			row := b
			out = append(out, &row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Domain < out[j].Domain })
	return out, nil
}

func (s *InMemoryStore) ApplyReviewerReward(_ context.Context, userID id.UserID, domain string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ledgerKey{userID, domain}
	b := s.balances[key]
	b.UserID, b.Domain = userID, domain
	b.Balance += delta
	b.ReviewsGivenCount++
	s.balances[key] = b
	return nil
}

func (s *InMemoryStore) ApplyAuthorDelta(_ context.Context, userID id.UserID, domain string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ledgerKey{userID, domain}
	b := s.balances[key]
	b.UserID, b.Domain = userID, domain
	b.Balance += delta
	s.balances[key] = b
	return nil
}

func (s *InMemoryStore) IncrementContributions(_ context.Context, userID id.UserID, domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ledgerKey{userID, domain}
	b := s.balances[key]
	b.UserID, b.Domain = userID, domain
	b.ContributionsCount++
	s.balances[key] = b
	return nil
}

// -----------------------------------------------------------------------------
// Transaction boundary
// -----------------------------------------------------------------------------

// Submissions on the same contribution serialize on one of these shards;
// submissions on different contributions proceed in parallel.
const numSubmissionShards = 128

const defaultMemoryTxTimeout = 5 * time.Second

// InMemoryTx provides the RunInTx boundary over an InMemoryStore. Writes made
// inside the callback are staged and applied only when the callback succeeds,
// so an abort at any step leaves zero side effects.
type InMemoryTx struct {
	shards  [numSubmissionShards]sync.Mutex
	store   *InMemoryStore
	timeout time.Duration
}

func NewInMemoryTx(store *InMemoryStore) *InMemoryTx {
	return &InMemoryTx{store: store}
}

func (t *InMemoryTx) RunInTx(ctx context.Context, contributionID id.ContributionID, fn func(store Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultMemoryTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	shard := hashContributionID(contributionID) % numSubmissionShards
	t.shards[shard].Lock()
	defer t.shards[shard].Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	stage := newMemoryStage(t.store)
	if err := fn(stage); err != nil {
		return err
	}
	stage.commit()
	return nil
}

// hashContributionID uses FNV-1a over the raw uuid bytes.
func hashContributionID(contributionID id.ContributionID) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for _, b := range contributionID.String() {
		h ^= uint32(b)
		h *= fnvPrime
	}
	return h
}
