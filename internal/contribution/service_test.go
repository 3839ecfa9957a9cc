package contribution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kequity/internal/taxonomy"
	id "kequity/pkg/domain"
	dErrors "kequity/pkg/domain-errors"
	"kequity/pkg/platform/sentinel"
)

// memStore is a minimal fake for the publish path.
type memStore struct {
	saved      map[id.ContributionID]*Contribution
	increments int
}

func newMemStore() *memStore {
	return &memStore{saved: make(map[id.ContributionID]*Contribution)}
}

func (s *memStore) SaveContribution(_ context.Context, c *Contribution) error {
	cp := *c
	s.saved[c.ID] = &cp
	return nil
}

func (s *memStore) GetContribution(_ context.Context, contributionID id.ContributionID) (*Contribution, error) {
	if c, ok := s.saved[contributionID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *memStore) IncrementContributions(_ context.Context, _ id.UserID, _ string) error {
	s.increments++
	return nil
}

func TestPublish_StartsWithZeroKE(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, taxonomy.New())
	authorID := id.NewUserID()

	c, err := svc.Publish(context.Background(), authorID, PublishRequest{
		Kind:          "bug_analysis",
		Domain:        "  Operating Systems ",
		EffortMinutes: 120,
	})
	require.NoError(t, err)

	assert.False(t, c.ID.IsNil())
	assert.Equal(t, "operating-systems", c.Domain)
	assert.Equal(t, authorID, c.AuthorID)
	assert.Zero(t, c.TotalKE)
	assert.Zero(t, c.ReviewCount)
	assert.Equal(t, 1, store.increments)
}

func TestPublish_Rejections(t *testing.T) {
	svc := NewService(newMemStore(), taxonomy.New())
	ctx := context.Background()
	authorID := id.NewUserID()

	t.Run("missing author", func(t *testing.T) {
		_, err := svc.Publish(ctx, id.UserID{}, PublishRequest{Kind: "research", Domain: "security"})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := svc.Publish(ctx, authorID, PublishRequest{Kind: "haiku", Domain: "security"})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("unknown domain", func(t *testing.T) {
		_, err := svc.Publish(ctx, authorID, PublishRequest{Kind: "research", Domain: "astrology"})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("negative effort", func(t *testing.T) {
		_, err := svc.Publish(ctx, authorID, PublishRequest{Kind: "research", Domain: "security", EffortMinutes: -5})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestGet_NotFound(t *testing.T) {
	svc := NewService(newMemStore(), taxonomy.New())

	_, err := svc.Get(context.Background(), id.NewContributionID())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
