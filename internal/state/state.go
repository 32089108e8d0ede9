// Package state owns the live application aggregate. Exactly one AppState
// exists per running instance; every mutation is serialized through the
// Store and followed by a fire-and-forget snapshot persist.
package state

import (
	"log"
	"sync"

	authdomain "taskportal-backend/internal/auth/domain"
	caldomain "taskportal-backend/internal/calendar/domain"
	notifdomain "taskportal-backend/internal/notification/domain"
	"taskportal-backend/internal/undo"
	wfdomain "taskportal-backend/internal/workflow/domain"
)

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// AppState is the aggregate root. Toast, Undo and LastError are runtime
// state and never persisted.
type AppState struct {
	Users          []authdomain.User
	Tasks          []wfdomain.Task
	CalendarEvents []caldomain.Event
	Notifications  []notifdomain.Notification
	Theme          string
	Session        authdomain.Session
	Toast          *notifdomain.Toast
	Undo           undo.Log
	LastError      string
}

// FindTask returns a pointer into the live task slice, or nil.
func (s *AppState) FindTask(id string) *wfdomain.Task {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return &s.Tasks[i]
		}
	}
	return nil
}

// FindUser returns a pointer into the live user slice, or nil.
func (s *AppState) FindUser(id string) *authdomain.User {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return &s.Users[i]
		}
	}
	return nil
}

// UserName resolves a user id to a display name, defaulting to "Employee"
// for unknown or empty ids.
func (s *AppState) UserName(id string) string {
	if u := s.FindUser(id); u != nil {
		return u.Name
	}
	return "Employee"
}

// Persister receives the snapshot document after every committed mutation.
type Persister interface {
	Save(doc Snapshot) error
}

// Store is the thread-confined owner of the AppState. All callers
// serialize through it; there is no other path to the aggregate.
type Store struct {
	mu      sync.Mutex
	state   AppState
	persist Persister
}

// NewStore wraps an initial aggregate. persister may be nil (tests).
func NewStore(initial AppState, persister Persister) *Store {
	return &Store{state: initial, persist: persister}
}

// Update runs fn on the aggregate under the store lock, then persists the
// resulting snapshot asynchronously. A crash between commit and persist
// loses only the unwritten delta; every snapshot is a full replacement.
func (s *Store) Update(fn func(*AppState)) {
	s.mu.Lock()
	fn(&s.state)
	var doc Snapshot
	if s.persist != nil {
		doc = makeSnapshot(&s.state)
	}
	s.mu.Unlock()

	if s.persist != nil {
		go func() {
			if err := s.persist.Save(doc); err != nil {
				log.Printf("[Snapshot] persist failed: %v", err)
			}
		}()
	}
}

// View runs fn on the aggregate under the store lock without persisting.
// fn must not retain references past the call.
func (s *Store) View(fn func(*AppState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}
