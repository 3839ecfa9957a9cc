//go:build integration

package leaderboard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kequity/internal/leaderboard"
	id "kequity/pkg/domain"
	"kequity/pkg/testutil/containers"
)

func TestLeaderboard_Integration(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	store := leaderboard.NewStore(rc.Client)
	ctx := context.Background()

	alice := id.NewUserID()
	bob := id.NewUserID()
	carol := id.NewUserID()

	require.NoError(t, store.RecordBalance(ctx, "machine-learning", alice, 1200))
	require.NoError(t, store.RecordBalance(ctx, "machine-learning", bob, 300))
	require.NoError(t, store.RecordBalance(ctx, "machine-learning", carol, 4500))
	// Updating an existing member replaces the score instead of adding one.
	require.NoError(t, store.RecordBalance(ctx, "machine-learning", bob, 2000))

	entries, err := store.Top(ctx, "machine-learning", 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, carol, entries[0].UserID)
	assert.EqualValues(t, 4500, entries[0].Balance)
	assert.Equal(t, 1, entries[0].Rank)

	assert.Equal(t, bob, entries[1].UserID)
	assert.EqualValues(t, 2000, entries[1].Balance)

	assert.Equal(t, alice, entries[2].UserID)
	assert.Equal(t, 3, entries[2].Rank)

	t.Run("limit bounds result", func(t *testing.T) {
		top, err := store.Top(ctx, "machine-learning", 2)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, carol, top[0].UserID)
	})

	t.Run("empty domain", func(t *testing.T) {
		top, err := store.Top(ctx, "compilers", 5)
		require.NoError(t, err)
		assert.Empty(t, top)
	})
}
