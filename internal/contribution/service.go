package contribution

import (
	"context"
	"errors"

	"kequity/internal/scoring"
	id "kequity/pkg/domain"
	dErrors "kequity/pkg/domain-errors"
	"kequity/pkg/platform/sentinel"
	"kequity/pkg/requestcontext"
)

// Store is the persistence surface the publish path needs. The interface is
// defined here so the central storage implementations satisfy it without
// this package depending on them.
type Store interface {
	SaveContribution(ctx context.Context, c *Contribution) error
	GetContribution(ctx context.Context, contributionID id.ContributionID) (*Contribution, error)
	IncrementContributions(ctx context.Context, userID id.UserID, domain string) error
}

// DomainNormalizer canonicalizes domain strings against the taxonomy.
type DomainNormalizer interface {
	Normalize(raw string) (string, error)
}

// Service publishes contributions and serves reads. It never touches the
// derived totals - those belong to the review submission coordinator.
type Service struct {
	store    Store
	taxonomy DomainNormalizer
}

func NewService(store Store, taxonomy DomainNormalizer) *Service {
	return &Service{store: store, taxonomy: taxonomy}
}

// Publish validates and persists a new contribution with zero KE. Work is
// never credited until reviewed.
func (s *Service) Publish(ctx context.Context, authorID id.UserID, req PublishRequest) (*Contribution, error) {
	if authorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "author id is required")
	}
	kind, err := scoring.ParseKind(req.Kind)
	if err != nil {
		return nil, err
	}
	domain, err := s.taxonomy.Normalize(req.Domain)
	if err != nil {
		return nil, err
	}
	if req.EffortMinutes < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "effort minutes must not be negative")
	}

	c := &Contribution{
		ID:            id.NewContributionID(),
		Kind:          kind,
		Domain:        domain,
		AuthorID:      authorID,
		EffortMinutes: req.EffortMinutes,
		CreatedAt:     requestcontext.Now(ctx),
	}
	if err := s.store.SaveContribution(ctx, c); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save contribution")
	}
	if err := s.store.IncrementContributions(ctx, authorID, domain); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update author counters")
	}
	return c, nil
}

// Get returns a contribution with its current derived totals.
func (s *Service) Get(ctx context.Context, contributionID id.ContributionID) (*Contribution, error) {
	c, err := s.store.GetContribution(ctx, contributionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "contribution not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load contribution")
	}
	return c, nil
}
