package notification

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskportal-backend/internal/notification/domain"
	"taskportal-backend/internal/state"
)

func newTestFeed(timeout time.Duration) (*Feed, *state.Store) {
	store := state.NewStore(state.AppState{}, nil)
	return NewFeed(store, timeout), store
}

func notifications(store *state.Store) []domain.Notification {
	var out []domain.Notification
	store.View(func(s *state.AppState) {
		out = append([]domain.Notification{}, s.Notifications...)
	})
	return out
}

func liveToast(store *state.Store) *domain.Toast {
	var toast *domain.Toast
	store.View(func(s *state.AppState) {
		if s.Toast != nil {
			copied := *s.Toast
			toast = &copied
		}
	})
	return toast
}

func TestPushPrependsNewestFirst(t *testing.T) {
	feed, store := newTestFeed(time.Minute)
	feed.Push("first", domain.SeverityInfo)
	feed.Push("second", domain.SeveritySuccess)

	got := notifications(store)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Message)
	assert.Equal(t, domain.SeveritySuccess, got[0].Severity)
	assert.Equal(t, "first", got[1].Message)
	assert.False(t, got[0].Read)
}

func TestPushDropsOldestBeyondCapacity(t *testing.T) {
	feed, store := newTestFeed(time.Minute)
	for i := 0; i < domain.FeedCapacity+10; i++ {
		feed.Push(fmt.Sprintf("message %d", i), domain.SeverityInfo)
	}

	got := notifications(store)
	require.Len(t, got, domain.FeedCapacity)
	assert.Equal(t, fmt.Sprintf("message %d", domain.FeedCapacity+9), got[0].Message)
	assert.Equal(t, "message 10", got[len(got)-1].Message)
}

func TestMarkReadAndMarkAllRead(t *testing.T) {
	feed, store := newTestFeed(time.Minute)
	feed.Push("a", domain.SeverityInfo)
	feed.Push("b", domain.SeverityInfo)

	target := notifications(store)[0].ID
	feed.MarkRead(target)

	got := notifications(store)
	assert.True(t, got[0].Read)
	assert.False(t, got[1].Read)

	feed.MarkAllRead()
	for _, n := range notifications(store) {
		assert.True(t, n.Read)
	}
}

func TestRemove(t *testing.T) {
	feed, store := newTestFeed(time.Minute)
	feed.Push("keep", domain.SeverityInfo)
	feed.Push("drop", domain.SeverityInfo)

	feed.Remove(notifications(store)[0].ID)

	got := notifications(store)
	require.Len(t, got, 1)
	assert.Equal(t, "keep", got[0].Message)
}

func TestPushToastReplacesLiveToast(t *testing.T) {
	feed, store := newTestFeed(time.Minute)
	feed.PushToast("first", true)
	first := liveToast(store)
	require.NotNil(t, first)

	feed.PushToast("second", false)
	second := liveToast(store)
	require.NotNil(t, second)
	assert.Equal(t, "second", second.Message)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, second.Undoable)
}

func TestToastAutoDismisses(t *testing.T) {
	feed, store := newTestFeed(20 * time.Millisecond)
	feed.PushToast("fleeting", true)
	require.NotNil(t, liveToast(store))

	assert.Eventually(t, func() bool {
		return liveToast(store) == nil
	}, time.Second, 5*time.Millisecond)
}

func TestDismissToast(t *testing.T) {
	feed, store := newTestFeed(time.Minute)
	feed.PushToast("gone", true)
	feed.DismissToast()
	assert.Nil(t, liveToast(store))
}
