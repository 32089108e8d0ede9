// Package notification drives the persistent read/unread feed and the
// single ephemeral toast slot.
package notification

import (
	"sync"
	"time"

	"taskportal-backend/internal/notification/domain"
	"taskportal-backend/internal/state"
	wfdomain "taskportal-backend/internal/workflow/domain"
)

// DefaultToastTimeout is how long a toast stays live unless dismissed,
// undone or replaced first.
const DefaultToastTimeout = 5500 * time.Millisecond

// Feed mutates the notification portion of the app state. All writes go
// through the store; the only private state is the auto-dismiss timer.
type Feed struct {
	store   *state.Store
	timeout time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewFeed creates a feed over the store. timeout <= 0 selects the default.
func NewFeed(store *state.Store, timeout time.Duration) *Feed {
	if timeout <= 0 {
		timeout = DefaultToastTimeout
	}
	return &Feed{store: store, timeout: timeout}
}

// Push prepends a notification, dropping the oldest entries beyond the
// feed capacity.
func (f *Feed) Push(message, severity string) {
	entry := domain.Notification{
		ID:        wfdomain.NewID("notif"),
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now(),
	}
	f.store.Update(func(s *state.AppState) {
		s.Notifications = append([]domain.Notification{entry}, s.Notifications...)
		if len(s.Notifications) > domain.FeedCapacity {
			s.Notifications = s.Notifications[:domain.FeedCapacity]
		}
	})
}

// MarkRead flags one notification as read.
func (f *Feed) MarkRead(id string) {
	f.store.Update(func(s *state.AppState) {
		for i := range s.Notifications {
			if s.Notifications[i].ID == id {
				s.Notifications[i].Read = true
			}
		}
	})
}

// MarkAllRead flags every notification as read.
func (f *Feed) MarkAllRead() {
	f.store.Update(func(s *state.AppState) {
		for i := range s.Notifications {
			s.Notifications[i].Read = true
		}
	})
}

// Remove deletes one notification from the feed.
func (f *Feed) Remove(id string) {
	f.store.Update(func(s *state.AppState) {
		kept := s.Notifications[:0]
		for _, n := range s.Notifications {
			if n.ID != id {
				kept = append(kept, n)
			}
		}
		s.Notifications = kept
	})
}

// PushToast replaces any live toast and restarts the auto-dismiss timer.
func (f *Feed) PushToast(message string, undoable bool) {
	toast := &domain.Toast{
		ID:       wfdomain.NewID("toast"),
		Message:  message,
		Undoable: undoable,
	}
	f.store.Update(func(s *state.AppState) {
		s.Toast = toast
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(f.timeout, func() {
		// Clear only the toast this timer was armed for; a replacement
		// toast owns its own timer.
		f.store.Update(func(s *state.AppState) {
			if s.Toast != nil && s.Toast.ID == toast.ID {
				s.Toast = nil
			}
		})
	})
}

// DismissToast clears the live toast and cancels its timer.
func (f *Feed) DismissToast() {
	f.mu.Lock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.mu.Unlock()

	f.store.Update(func(s *state.AppState) {
		s.Toast = nil
	})
}
