package audit

import (
	"context"

	id "kequity/pkg/domain"
)

// ChannelStore decouples event production from persistence: Append enqueues
// onto a buffered channel and the Worker drains into the backing store. Reads
// go straight to the backing store.
type ChannelStore struct {
	inbox   chan Event
	backing Store
}

func NewChannelStore(backing Store, buffer int) *ChannelStore {
	return &ChannelStore{
		inbox:   make(chan Event, buffer),
		backing: backing,
	}
}

func (s *ChannelStore) Append(ctx context.Context, event Event) error {
	select {
	case s.inbox <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ChannelStore) ListByUser(ctx context.Context, userID id.UserID) ([]Event, error) {
	return s.backing.ListByUser(ctx, userID)
}

// Inbox exposes the consumer side for the Worker.
func (s *ChannelStore) Inbox() <-chan Event {
	return s.inbox
}
