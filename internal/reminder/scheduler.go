// Package reminder pushes deadline warnings into the notification feed.
package reminder

import (
	"fmt"
	"log"
	"sync"
	"time"

	"taskportal-backend/internal/notification"
	notifdomain "taskportal-backend/internal/notification/domain"
	"taskportal-backend/internal/state"
	wfdomain "taskportal-backend/internal/workflow/domain"
)

// DeadlineWindow is how far ahead of a deadline a reminder fires.
const DeadlineWindow = 48 * time.Hour

// Scheduler scans tasks on an interval and notifies about deadlines that
// are overdue or due within the window. Each task is reminded at most once
// per process lifetime.
type Scheduler struct {
	store    *state.Store
	feed     *notification.Feed
	interval time.Duration
	stopChan chan struct{}

	mu       sync.Mutex
	notified map[string]bool
}

// NewScheduler creates a new scheduler. interval <= 0 selects one minute.
func NewScheduler(store *state.Store, feed *notification.Feed, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 1 * time.Minute
	}
	return &Scheduler{
		store:    store,
		feed:     feed,
		interval: interval,
		stopChan: make(chan struct{}),
		notified: make(map[string]bool),
	}
}

// Start begins the scheduler loop
func (s *Scheduler) Start() {
	log.Printf("[Reminder] Starting deadline reminder scheduler (interval: %s)", s.interval)

	go func() {
		// Run immediately on start
		s.checkDeadlines(time.Now())

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.checkDeadlines(time.Now())
			case <-s.stopChan:
				log.Println("[Reminder] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	close(s.stopChan)
}

type due struct {
	id       string
	title    string
	deadline string
	overdue  bool
}

func (s *Scheduler) checkDeadlines(now time.Time) {
	var pending []due
	s.store.View(func(st *state.AppState) {
		for _, task := range st.Tasks {
			if task.Status == wfdomain.StatusCompleted || task.Deadline == "" {
				continue
			}
			deadline, err := time.Parse("2006-01-02", task.Deadline)
			if err != nil {
				continue
			}
			// Deadlines are date-only; a task is overdue once its day has passed.
			endOfDay := deadline.AddDate(0, 0, 1)
			if endOfDay.Before(now) {
				pending = append(pending, due{id: task.ID, title: task.Title, deadline: task.Deadline, overdue: true})
			} else if deadline.Sub(now) <= DeadlineWindow {
				pending = append(pending, due{id: task.ID, title: task.Title, deadline: task.Deadline})
			}
		}
	})

	for _, d := range pending {
		s.mu.Lock()
		seen := s.notified[d.id]
		s.notified[d.id] = true
		s.mu.Unlock()
		if seen {
			continue
		}

		if d.overdue {
			s.feed.Push(fmt.Sprintf("%q is overdue (deadline %s).", d.title, d.deadline), notifdomain.SeverityWarning)
		} else {
			s.feed.Push(fmt.Sprintf("%q is due by %s.", d.title, d.deadline), notifdomain.SeverityInfo)
		}
		log.Printf("[Reminder] Notified about task %s (deadline %s)", d.id, d.deadline)
	}
}
