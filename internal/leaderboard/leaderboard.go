// Package leaderboard maintains per-domain reputation rankings in Redis
// sorted sets. Rankings are a derived view: the ledger in Postgres (or the
// in-memory store) stays the source of truth, and entries are refreshed on
// every committed balance change.
package leaderboard

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	id "kequity/pkg/domain"
	dErrors "kequity/pkg/domain-errors"
)

// Entry is one row of a domain leaderboard.
type Entry struct {
	UserID  id.UserID `json:"user_id"`
	Balance int64     `json:"balance"`
	Rank    int       `json:"rank"`
}

// Store ranks users by their domain balance.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func domainKey(domain string) string {
	return "kequity:leaderboard:" + domain
}

// RecordBalance upserts a user's score in the domain's sorted set.
func (s *Store) RecordBalance(ctx context.Context, domain string, userID id.UserID, balance int64) error {
	err := s.client.ZAdd(ctx, domainKey(domain), redis.Z{
		Score:  float64(balance),
		Member: userID.String(),
	}).Err()
	if err != nil {
		return fmt.Errorf("leaderboard zadd: %w", err)
	}
	return nil
}

// Top returns the highest-balance users in a domain, best first. Ranks are
// 1-based.
func (s *Store) Top(ctx context.Context, domain string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.client.ZRevRangeWithScores(ctx, domainKey(domain), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "leaderboard unavailable")
	}

	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		member, ok := row.Member.(string)
		if !ok {
			continue
		}
		userID, err := id.ParseUserID(member)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			UserID:  userID,
			Balance: int64(row.Score),
			Rank:    i + 1,
		})
	}
	return entries, nil
}
