package service

import (
	"context"

	"kequity/internal/storage"
	id "kequity/pkg/domain"
)

// StoreTx provides the transactional boundary for a review submission.
// Implementations must guarantee that the callback's reads and writes form
// one serialized unit of work per contribution: two concurrent submissions
// for the same contribution must never both aggregate the same snapshot,
// while submissions for different contributions must not block each other.
//
// The in-memory implementation locks a shard keyed by the contribution ID;
// the PostgreSQL implementation opens a transaction and row-locks the
// contribution. In both, an error from the callback aborts with zero side
// effects.
type StoreTx interface {
	RunInTx(ctx context.Context, contributionID id.ContributionID, fn func(store storage.Store) error) error
}
