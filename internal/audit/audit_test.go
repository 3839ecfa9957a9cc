package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "kequity/pkg/domain"
)

func TestPublisher_EmitAndList(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	pub := NewPublisher(store)
	userID := id.NewUserID()

	require.NoError(t, pub.Emit(ctx, Event{
		Type:           EventReviewCommitted,
		ContributionID: id.NewContributionID(),
		UserID:         userID,
		Domain:         "algorithms",
		KEDelta:        14,
		NewTotalKE:     103,
	}))
	require.NoError(t, pub.Emit(ctx, Event{
		Type:   EventContributionPublished,
		UserID: id.NewUserID(),
		Domain: "algorithms",
	}))

	events, err := pub.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventReviewCommitted, events[0].Type)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestWorker_DrainsChannelIntoStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backing := NewInMemoryStore()
	channel := NewChannelStore(backing, 8)
	pub := NewPublisher(channel)
	worker := NewWorker(backing, channel.Inbox())

	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	userID := id.NewUserID()
	require.NoError(t, pub.Emit(ctx, Event{Type: EventReviewCommitted, UserID: userID, Domain: "security"}))

	require.Eventually(t, func() bool {
		events, err := backing.ListByUser(ctx, userID)
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
